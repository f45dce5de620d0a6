// Package terrain synthesizes the shared water-world height field and
// streams it as cached chunks around a moving reference point.
//
// The entire field is a pure function of (seed, x, z). Peers never exchange
// geometry; they exchange the seed and recompute. Every per-cell decision
// below must therefore come from the deterministic hash or from a PRNG
// stream seeded by it, drawn in a fixed order.
package terrain

import (
	"math"

	"github.com/JayBlankenship/WaterWorld5/internal/mathx"
)

// Layer salts decorrelate the feature layers that share grid coordinates.
const (
	saltBaseline    uint32 = 0x9d2c5680
	saltLandMass    uint32 = 0x5f356495
	saltDeepSpot    uint32 = 0x1b873593
	saltIsland      uint32 = 0xcc9e2d51
	saltTrenchWide  uint32 = 0xe6546b64
	saltTrenchSnake uint32 = 0x85ebca77
)

// Coarse grid cell sizes per layer, in world units.
const (
	landMassGridSize = 8000.0
	featureGridSize  = 1000.0 // islands and deep spots
	trenchGridSize   = 1200.0
)

// feature is a candidate layer contribution at a sample point.
type feature struct {
	height float64 // the layer's own height at this point
	blend  float64 // smootherstep weight in [0,1] against the baseline
}

// Height returns the terrain elevation at world position (x, z) for the
// given seed. Pure and total. A zero (or never-received) seed yields the
// defined flat-ocean fallback of 0, not an error.
func Height(seed int32, x, z float64) float64 {
	if seed == 0 {
		return 0
	}
	s := uint32(seed)

	base := baselineHeight(s, x, z)

	// Land masses dominate: above half blend they are returned as-is and
	// are never carved by trenches.
	if lm, ok := landMassAt(s, x, z); ok {
		if lm.blend > 0.5 {
			return lm.height
		}
		return carveTrenches(s, x, z, mathx.Lerp(base, lm.height, lm.blend))
	}

	h := base
	if ds, ok := originDeepSpotAt(x, z); ok {
		h = mathx.Lerp(base, ds.height, ds.blend)
	} else if ds, ok := deepSpotAt(s, x, z); ok {
		h = mathx.Lerp(base, ds.height, ds.blend)
	} else if is, ok := islandAt(s, x, z); ok {
		h = mathx.Lerp(base, is.height, is.blend)
	}

	return carveTrenches(s, x, z, h)
}

// cellOf maps a world coordinate to its coarse grid cell index.
func cellOf(v, gridSize float64) int32 {
	return int32(math.Floor(v / gridSize))
}
