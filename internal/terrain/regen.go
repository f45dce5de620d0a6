package terrain

import "github.com/JayBlankenship/WaterWorld5/internal/mathx"

// transition interpolates every cached chunk from its old height samples to
// the samples of a pending seed. At most one transition exists per cache;
// applying another seed mid-flight restarts from the current interpolated
// state, so there is never a visible pop.
type transition struct {
	pendingSeed int32
	elapsed     float64
	duration    float64
	old         map[ChunkKey][]float64
	target      map[ChunkKey][]float64
}

func (t *transition) drop(key ChunkKey) {
	delete(t.old, key)
	delete(t.target, key)
}

// ApplySeed adopts newSeed as the terrain baseline. With no cached chunks
// the seed is adopted immediately. Otherwise every cached chunk's new sample
// set is computed up front and a transition of the given duration (seconds)
// begins; Advance drives it.
func (c *Cache) ApplySeed(newSeed int32, duration float64) {
	if newSeed == c.seed && c.transition == nil {
		return
	}

	if len(c.chunks) == 0 || duration <= 0 {
		c.seed = newSeed
		c.transition = nil
		for key, ch := range c.chunks {
			sampleHeights(newSeed, key, c.chunkSize, c.resolution, ch.Heights)
		}
		c.log.Info("terrain seed set to %d", newSeed)
		return
	}

	tr := &transition{
		pendingSeed: newSeed,
		duration:    duration,
		old:         make(map[ChunkKey][]float64, len(c.chunks)),
		target:      make(map[ChunkKey][]float64, len(c.chunks)),
	}
	for key, ch := range c.chunks {
		// Start from the chunk's present samples; a still-running
		// transition contributes its current interpolated values.
		old := make([]float64, len(ch.Heights))
		copy(old, ch.Heights)
		tr.old[key] = old

		target := make([]float64, len(ch.Heights))
		sampleHeights(newSeed, key, c.chunkSize, c.resolution, target)
		tr.target[key] = target
	}
	c.transition = tr
	c.log.Info("terrain regenerating toward seed %d over %.1fs", newSeed, duration)
}

// Advance steps the active transition by dt seconds, writing interpolated
// heights into the cached chunks. When the transition completes, the target
// samples become each chunk's permanent baseline and the cache adopts the
// pending seed. Advance is a no-op without an active transition.
func (c *Cache) Advance(dt float64) {
	tr := c.transition
	if tr == nil {
		return
	}

	tr.elapsed += dt
	t := tr.elapsed / tr.duration
	if t >= 1 {
		for key, target := range tr.target {
			if ch, ok := c.chunks[key]; ok {
				copy(ch.Heights, target)
			}
		}
		c.seed = tr.pendingSeed
		c.transition = nil
		c.log.Info("terrain regeneration complete, seed %d", c.seed)
		return
	}

	for key, target := range tr.target {
		ch, ok := c.chunks[key]
		if !ok {
			continue
		}
		old := tr.old[key]
		for i := range ch.Heights {
			ch.Heights[i] = mathx.Lerp(old[i], target[i], t)
		}
	}
}

// Transitioning reports whether a regeneration transition is in progress.
func (c *Cache) Transitioning() bool { return c.transition != nil }
