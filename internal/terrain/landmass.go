package terrain

import (
	"math"

	"github.com/JayBlankenship/WaterWorld5/internal/mathx"
)

// Land masses: rare, very large plateaus on an 8000-unit grid. Presence and
// every shape parameter derive from the cell hash alone, so a land mass looks
// the same from every peer and from every neighboring chunk.

const (
	landMassChance    = 0.07
	landMassMinRadius = 2600.0
	landMassMaxRadius = 3600.0
	landMassMinHeight = 90.0
	landMassMaxHeight = 180.0
)

// landMassAt reports the strongest land mass contribution at (x, z),
// searching the 3x3 neighborhood of coarse cells.
func landMassAt(seed uint32, x, z float64) (feature, bool) {
	cx := cellOf(x, landMassGridSize)
	cz := cellOf(z, landMassGridSize)

	best := feature{}
	found := false
	for dz := int32(-1); dz <= 1; dz++ {
		for dx := int32(-1); dx <= 1; dx++ {
			f, ok := landMassInCell(seed, cx+dx, cz+dz, x, z)
			if ok && (!found || f.blend > best.blend) {
				best = f
				found = true
			}
		}
	}
	return best, found
}

func landMassInCell(seed uint32, cx, cz int32, x, z float64) (feature, bool) {
	h := mathx.Hash2(seed^saltLandMass, cx, cz)
	if float64(h)/float64(1<<32) >= landMassChance {
		return feature{}, false
	}

	// Fixed draw order: center offsets, radius, plateau height, rim sharpness.
	stream := mathx.NewStream(h)
	centerX := (float64(cx) + stream.Range(0.3, 0.7)) * landMassGridSize
	centerZ := (float64(cz) + stream.Range(0.3, 0.7)) * landMassGridSize
	radius := stream.Range(landMassMinRadius, landMassMaxRadius)
	height := stream.Range(landMassMinHeight, landMassMaxHeight)
	rim := stream.Range(0.55, 0.8) // fraction of radius where the plateau ends

	dist := math.Hypot(x-centerX, z-centerZ)
	if dist >= radius {
		return feature{}, false
	}

	norm := dist / radius
	blend := mathx.Smootherstep(1 - norm)

	// Flat plateau inside the rim, smootherstep slope down to the shore.
	top := height
	if norm > rim {
		top = height * mathx.Smootherstep((1-norm)/(1-rim))
	}
	return feature{height: top, blend: blend}, true
}
