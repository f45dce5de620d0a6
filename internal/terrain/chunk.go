package terrain

// ChunkKey identifies a tile on the integer chunk grid.
type ChunkKey struct {
	CX, CZ int32
}

// Chunk is a materialized square tile of the height field: a grid of
// (resolution+1)^2 samples computed once at creation. Chunks are pure
// derived data, recomputable at any time from (seed, key), and are never
// mutated in place except by a regeneration transition.
type Chunk struct {
	Key        ChunkKey
	Size       float64
	Resolution int

	// Heights holds (Resolution+1)^2 samples, row-major with the sample at
	// the chunk's minimum corner first. Use HeightAt/index off this slice
	// only at the serialization boundary.
	Heights []float64
}

// newChunk materializes a chunk under the given seed.
func newChunk(seed int32, key ChunkKey, size float64, resolution int) *Chunk {
	c := &Chunk{
		Key:        key,
		Size:       size,
		Resolution: resolution,
		Heights:    make([]float64, (resolution+1)*(resolution+1)),
	}
	sampleHeights(seed, key, size, resolution, c.Heights)
	return c
}

// sampleHeights fills dst with the chunk's height grid under seed.
func sampleHeights(seed int32, key ChunkKey, size float64, resolution int, dst []float64) {
	minX := (float64(key.CX) - 0.5) * size
	minZ := (float64(key.CZ) - 0.5) * size
	step := size / float64(resolution)
	idx := 0
	for j := 0; j <= resolution; j++ {
		wz := minZ + float64(j)*step
		for i := 0; i <= resolution; i++ {
			dst[idx] = Height(seed, minX+float64(i)*step, wz)
			idx++
		}
	}
}

// CenterX returns the chunk center's world X coordinate.
func (c *Chunk) CenterX() float64 { return float64(c.Key.CX) * c.Size }

// CenterZ returns the chunk center's world Z coordinate.
func (c *Chunk) CenterZ() float64 { return float64(c.Key.CZ) * c.Size }

// HeightAt returns the sample at vertex (i, j), both in [0, Resolution].
func (c *Chunk) HeightAt(i, j int) float64 {
	return c.Heights[j*(c.Resolution+1)+i]
}

// VertexWorld returns the world position of vertex (i, j).
func (c *Chunk) VertexWorld(i, j int) (x, z float64) {
	step := c.Size / float64(c.Resolution)
	return (float64(c.Key.CX)-0.5)*c.Size + float64(i)*step,
		(float64(c.Key.CZ)-0.5)*c.Size + float64(j)*step
}
