// Package mathx holds the deterministic numeric primitives the terrain
// synthesizer and the session seed handling are built on. Everything here is
// integer arithmetic only and must produce identical results on every
// platform; never reach for math/rand in this package.
package mathx

// Hash32 mixes a 32-bit input into a well-distributed 32-bit output
// (murmur finalizer-style avalanching). Zero maps to zero.
func Hash32(x uint32) uint32 {
	x ^= x >> 16
	x *= 0x7feb352d
	x ^= x >> 15
	x *= 0x846ca68b
	x ^= x >> 16
	return x
}

// Hash2 returns a stable hash for a 2D integer cell + seed.
// Large odd constants decorrelate the axes.
func Hash2(seed uint32, x, z int32) uint32 {
	h := seed
	h ^= uint32(x) * 0x9e3779b1
	h ^= uint32(z) * 0x85ebca6b
	return Hash32(h)
}
