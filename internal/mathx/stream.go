package mathx

const lehmerModulus = 2147483647 // 2^31 - 1, prime
const lehmerMultiplier = 16807   // minimal standard multiplier

// Stream is a restartable pseudo-random sequence of floats in [0,1) derived
// from a single numeric seed by repeated scrambling of a running scalar
// (Lehmer / Park-Miller). Two streams built from the same seed produce the
// same sequence forever, which is what lets independent peers replay each
// other's terrain features without exchanging them.
//
// Seed 0 is a fixed point of the scramble: the stream yields 0, 0, 0, ...
// indefinitely. The zero seed means "flat ocean" one level up, and every
// peer must degenerate identically.
type Stream struct {
	state uint64
}

// NewStream returns a stream positioned at the start of seed's sequence.
func NewStream(seed uint32) *Stream {
	return &Stream{state: uint64(seed) % lehmerModulus}
}

// Next advances the stream and returns the next value in [0, 1).
func (s *Stream) Next() float64 {
	s.state = s.state * lehmerMultiplier % lehmerModulus
	return float64(s.state) / lehmerModulus
}

// Range returns the next value scaled into [lo, hi).
func (s *Stream) Range(lo, hi float64) float64 {
	return lo + s.Next()*(hi-lo)
}
