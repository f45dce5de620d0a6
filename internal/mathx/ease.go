package mathx

// Smootherstep is the quintic easing t^3*(t*(6t-15)+10), clamped to [0,1].
// Used for spatial blending of terrain features so their edges have zero
// first and second derivative.
func Smootherstep(t float64) float64 {
	if t <= 0 {
		return 0
	}
	if t >= 1 {
		return 1
	}
	return t * t * t * (t*(t*6-15) + 10)
}

// Lerp performs linear interpolation between a and b.
func Lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}
