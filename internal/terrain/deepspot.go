package terrain

import (
	"math"

	"github.com/JayBlankenship/WaterWorld5/internal/mathx"
)

// Deep spots: localized bowls carved below the baseline. One fixed spot sits
// at the world origin (same for every seed, a known landmark near spawn);
// the rest are per-cell on the 1000-unit feature grid.

const (
	originDeepRadius = 700.0
	originDeepDepth  = -240.0

	deepSpotChance    = 0.05
	deepSpotMinRadius = 240.0
	deepSpotMaxRadius = 430.0
	deepSpotMinDepth  = -300.0
	deepSpotMaxDepth  = -150.0
)

// originDeepSpotAt is the single fixed deep spot centered at (0, 0).
func originDeepSpotAt(x, z float64) (feature, bool) {
	dist := math.Hypot(x, z)
	if dist >= originDeepRadius {
		return feature{}, false
	}
	blend := mathx.Smootherstep(1 - dist/originDeepRadius)
	return feature{height: originDeepDepth, blend: blend}, true
}

// deepSpotAt reports the strongest per-cell deep spot contribution at (x, z).
func deepSpotAt(seed uint32, x, z float64) (feature, bool) {
	cx := cellOf(x, featureGridSize)
	cz := cellOf(z, featureGridSize)

	best := feature{}
	found := false
	for dz := int32(-1); dz <= 1; dz++ {
		for dx := int32(-1); dx <= 1; dx++ {
			f, ok := deepSpotInCell(seed, cx+dx, cz+dz, x, z)
			if ok && (!found || f.blend > best.blend) {
				best = f
				found = true
			}
		}
	}
	return best, found
}

func deepSpotInCell(seed uint32, cx, cz int32, x, z float64) (feature, bool) {
	h := mathx.Hash2(seed^saltDeepSpot, cx, cz)
	if float64(h)/float64(1<<32) >= deepSpotChance {
		return feature{}, false
	}

	// Fixed draw order: center offsets, radius, depth.
	stream := mathx.NewStream(h)
	centerX := (float64(cx) + stream.Range(0.25, 0.75)) * featureGridSize
	centerZ := (float64(cz) + stream.Range(0.25, 0.75)) * featureGridSize
	radius := stream.Range(deepSpotMinRadius, deepSpotMaxRadius)
	depth := stream.Range(deepSpotMinDepth, deepSpotMaxDepth)

	dist := math.Hypot(x-centerX, z-centerZ)
	if dist >= radius {
		return feature{}, false
	}
	blend := mathx.Smootherstep(1 - dist/radius)
	return feature{height: depth, blend: blend}, true
}
