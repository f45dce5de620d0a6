package terrain

import (
	"math"

	"github.com/JayBlankenship/WaterWorld5/internal/logging"
)

// Cache keeps the set of materialized chunks around a moving reference
// point. It owns the local copy of the terrain seed and the (at most one)
// regeneration transition. The cache is confined to the simulation loop;
// it has no internal locking.
type Cache struct {
	seed           int32
	chunkSize      float64
	resolution     int
	renderDistance float64

	chunks     map[ChunkKey]*Chunk
	transition *transition

	log logging.Logger
}

// NewCache constructs an empty cache. A zero seed is valid and synthesizes
// the flat-ocean fallback until a real seed arrives.
func NewCache(seed int32, chunkSize float64, resolution int, renderDistance float64, log logging.Logger) *Cache {
	if log == nil {
		log = logging.Nop{}
	}
	return &Cache{
		seed:           seed,
		chunkSize:      chunkSize,
		resolution:     resolution,
		renderDistance: renderDistance,
		chunks:         make(map[ChunkKey]*Chunk),
		log:            log,
	}
}

// Seed returns the cache's current baseline seed.
func (c *Cache) Seed() int32 { return c.seed }

// Chunk returns the materialized chunk for key, if present.
func (c *Cache) Chunk(key ChunkKey) (*Chunk, bool) {
	ch, ok := c.chunks[key]
	return ch, ok
}

// Len returns the number of materialized chunks.
func (c *Cache) Len() int { return len(c.chunks) }

// Keys returns the keys of all materialized chunks.
func (c *Cache) Keys() []ChunkKey {
	keys := make([]ChunkKey, 0, len(c.chunks))
	for k := range c.chunks {
		keys = append(keys, k)
	}
	return keys
}

// Update ensures the materialized set is exactly the chunks whose center
// lies within the render distance of the reference point: required chunks
// are created whole, chunks out of range are evicted and released.
func (c *Cache) Update(refX, refZ float64) {
	required := c.requiredKeys(refX, refZ)

	for key := range c.chunks {
		if _, ok := required[key]; !ok {
			c.evict(key)
		}
	}

	for key := range required {
		if _, ok := c.chunks[key]; ok {
			continue
		}
		// Chunks born during a transition are synthesized under the
		// pending seed; they are already at the target baseline.
		seed := c.seed
		if c.transition != nil {
			seed = c.transition.pendingSeed
		}
		c.chunks[key] = newChunk(seed, key, c.chunkSize, c.resolution)
		c.log.Debug("chunk (%d,%d) materialized", key.CX, key.CZ)
	}
}

// requiredKeys computes the exact set of chunk keys within render distance.
func (c *Cache) requiredKeys(refX, refZ float64) map[ChunkKey]struct{} {
	required := make(map[ChunkKey]struct{})
	minCX := int32(math.Floor((refX - c.renderDistance) / c.chunkSize))
	maxCX := int32(math.Ceil((refX + c.renderDistance) / c.chunkSize))
	minCZ := int32(math.Floor((refZ - c.renderDistance) / c.chunkSize))
	maxCZ := int32(math.Ceil((refZ + c.renderDistance) / c.chunkSize))

	for cz := minCZ; cz <= maxCZ; cz++ {
		for cx := minCX; cx <= maxCX; cx++ {
			centerX := float64(cx) * c.chunkSize
			centerZ := float64(cz) * c.chunkSize
			if math.Hypot(centerX-refX, centerZ-refZ) <= c.renderDistance {
				required[ChunkKey{CX: cx, CZ: cz}] = struct{}{}
			}
		}
	}
	return required
}

func (c *Cache) evict(key ChunkKey) {
	delete(c.chunks, key)
	if c.transition != nil {
		c.transition.drop(key)
	}
	c.log.Debug("chunk (%d,%d) released", key.CX, key.CZ)
}
