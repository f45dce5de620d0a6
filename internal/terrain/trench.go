package terrain

import (
	"math"

	"github.com/JayBlankenship/WaterWorld5/internal/mathx"
)

// Trenches: a final carving pass of two independent layers on the 1200-unit
// grid, one wide and long, one narrow and snaking. Trenches reach well
// beyond their home cell, so candidates are collected from the 5x5
// neighborhood. Among every candidate whose footprint contains the sample,
// the deepest blended result wins; it is a max-depth contest, not
// first-match.

type trenchParams struct {
	chance                     float64
	minHalfLen, maxHalfLen     float64
	minHalfWidth, maxHalfWidth float64
	minDepth, maxDepth         float64 // negative, depth below sea level
	snake                      bool
	snakeAmp                   float64
	snakeFreq                  float64
}

var wideTrench = trenchParams{
	chance:       0.08,
	minHalfLen:   1400,
	maxHalfLen:   2600,
	minHalfWidth: 280,
	maxHalfWidth: 520,
	minDepth:     -420,
	maxDepth:     -260,
}

var snakingTrench = trenchParams{
	chance:       0.11,
	minHalfLen:   2200,
	maxHalfLen:   3800,
	minHalfWidth: 90,
	maxHalfWidth: 170,
	minDepth:     -320,
	maxDepth:     -180,
	snake:        true,
	snakeAmp:     260,
	snakeFreq:    1.0 / 650.0,
}

// carveTrenches applies both trench layers to the current height h at (x, z)
// and returns the deepest result. Callers must not invoke it for samples a
// land mass owns outright.
func carveTrenches(seed uint32, x, z float64, h float64) float64 {
	out := h
	if carved, ok := deepestTrench(seed^saltTrenchWide, wideTrench, x, z, h); ok && carved < out {
		out = carved
	}
	if carved, ok := deepestTrench(seed^saltTrenchSnake, snakingTrench, x, z, h); ok && carved < out {
		out = carved
	}
	return out
}

// deepestTrench scans the 5x5 cell neighborhood of one trench layer and
// returns the deepest blended height among candidates containing (x, z).
func deepestTrench(layerSeed uint32, params trenchParams, x, z, h float64) (float64, bool) {
	cx := cellOf(x, trenchGridSize)
	cz := cellOf(z, trenchGridSize)

	deepest := h
	found := false
	for dz := int32(-2); dz <= 2; dz++ {
		for dx := int32(-2); dx <= 2; dx++ {
			carved, ok := trenchInCell(layerSeed, params, cx+dx, cz+dz, x, z, h)
			if ok && carved < deepest {
				deepest = carved
				found = true
			}
		}
	}
	return deepest, found
}

func trenchInCell(layerSeed uint32, params trenchParams, cx, cz int32, x, z, h float64) (float64, bool) {
	hash := mathx.Hash2(layerSeed, cx, cz)
	if float64(hash)/float64(1<<32) >= params.chance {
		return 0, false
	}

	// Fixed draw order: center offsets, axis angle, half length, half
	// width, depth, then the snaking phase.
	stream := mathx.NewStream(hash)
	centerX := (float64(cx) + stream.Range(0.2, 0.8)) * trenchGridSize
	centerZ := (float64(cz) + stream.Range(0.2, 0.8)) * trenchGridSize
	axis := stream.Range(0, math.Pi)
	halfLen := stream.Range(params.minHalfLen, params.maxHalfLen)
	halfWidth := stream.Range(params.minHalfWidth, params.maxHalfWidth)
	depth := stream.Range(params.minDepth, params.maxDepth)
	phase := stream.Range(0, 2*math.Pi)

	// Project the sample onto the trench axis.
	dx := x - centerX
	dz := z - centerZ
	sin, cos := math.Sincos(axis)
	along := dx*cos + dz*sin
	across := -dx*sin + dz*cos

	if params.snake {
		across -= params.snakeAmp * math.Sin(along*params.snakeFreq*2*math.Pi+phase)
	}

	if math.Abs(along) >= halfLen || math.Abs(across) >= halfWidth {
		return 0, false
	}

	// Smootherstep falloff on both the across-axis and along-axis distance.
	blend := mathx.Smootherstep(1-math.Abs(across)/halfWidth) *
		mathx.Smootherstep(1-math.Abs(along)/halfLen)
	return mathx.Lerp(h, depth, blend), true
}
