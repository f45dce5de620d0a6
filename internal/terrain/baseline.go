package terrain

import (
	"math"

	"github.com/JayBlankenship/WaterWorld5/internal/mathx"
)

// Baseline "normal terrain": a gently rolling sea floor from multi-octave
// value noise. Lattice values come from the integer hash so any peer can
// sample any point in isolation: no RNG walking, no neighbor state.

const (
	baselineMean      = -32.0
	baselineAmplitude = 22.0
	baselineFrequency = 1.0 / 2400.0
	baselineOctaves   = 4
)

func latticeValue(seed uint32, xi, zi int32) float64 {
	return float64(mathx.Hash2(seed, xi, zi)) / float64(1<<32)
}

func valueNoise(seed uint32, x, z float64) float64 {
	x0 := math.Floor(x)
	z0 := math.Floor(z)

	fx := mathx.Smootherstep(x - x0)
	fz := mathx.Smootherstep(z - z0)

	xi, zi := int32(x0), int32(z0)
	v00 := latticeValue(seed, xi, zi)
	v10 := latticeValue(seed, xi+1, zi)
	v01 := latticeValue(seed, xi, zi+1)
	v11 := latticeValue(seed, xi+1, zi+1)

	return mathx.Lerp(mathx.Lerp(v00, v10, fx), mathx.Lerp(v01, v11, fx), fz)
}

// octaveNoise sums octaves of value noise, normalized to [0,1].
func octaveNoise(seed uint32, x, z float64, octaves int) float64 {
	amplitude := 1.0
	frequency := 1.0
	sum := 0.0
	norm := 0.0
	for i := 0; i < octaves; i++ {
		sum += valueNoise(seed+uint32(i)*131, x*frequency, z*frequency) * amplitude
		norm += amplitude
		amplitude *= 0.5
		frequency *= 2
	}
	return sum / norm
}

// baselineHeight is the fallback floor every special feature blends against.
func baselineHeight(seed uint32, x, z float64) float64 {
	n := octaveNoise(seed^saltBaseline, x*baselineFrequency, z*baselineFrequency, baselineOctaves)
	return baselineMean + (n-0.5)*2*baselineAmplitude
}
