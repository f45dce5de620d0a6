package terrain

import (
	"math"

	"github.com/JayBlankenship/WaterWorld5/internal/mathx"
)

// Islands: per-cell features on the 1000-unit grid. A single PRNG draw
// partitions [0,1) into bands that select the variant formula; each formula
// then consumes its own draws in a fixed order. Changing any draw order here
// breaks cross-peer convergence for existing seeds.

const (
	islandChance    = 0.14
	islandMinRadius = 180.0
	islandMaxRadius = 380.0
)

type islandVariant int

const (
	islandRidge islandVariant = iota
	islandTall
	islandWide
	islandArch
	islandRocky
	islandCurvy
	islandCliff
)

// variantFor partitions the selector draw into the named bands.
func variantFor(draw float64) islandVariant {
	switch {
	case draw < 0.18:
		return islandRidge
	case draw < 0.34:
		return islandTall
	case draw < 0.52:
		return islandWide
	case draw < 0.64:
		return islandArch
	case draw < 0.78:
		return islandRocky
	case draw < 0.90:
		return islandCurvy
	default:
		return islandCliff
	}
}

// islandAt reports the strongest island contribution at (x, z).
func islandAt(seed uint32, x, z float64) (feature, bool) {
	cx := cellOf(x, featureGridSize)
	cz := cellOf(z, featureGridSize)

	best := feature{}
	found := false
	for dz := int32(-1); dz <= 1; dz++ {
		for dx := int32(-1); dx <= 1; dx++ {
			f, ok := islandInCell(seed, cx+dx, cz+dz, x, z)
			if ok && (!found || f.blend > best.blend) {
				best = f
				found = true
			}
		}
	}
	return best, found
}

func islandInCell(seed uint32, cx, cz int32, x, z float64) (feature, bool) {
	h := mathx.Hash2(seed^saltIsland, cx, cz)
	if float64(h)/float64(1<<32) >= islandChance {
		return feature{}, false
	}

	// Fixed draw order: variant selector, center offsets, radius; the
	// variant formula draws the rest.
	stream := mathx.NewStream(h)
	variant := variantFor(stream.Next())
	centerX := (float64(cx) + stream.Range(0.2, 0.8)) * featureGridSize
	centerZ := (float64(cz) + stream.Range(0.2, 0.8)) * featureGridSize
	radius := stream.Range(islandMinRadius, islandMaxRadius)

	dx := x - centerX
	dz := z - centerZ
	dist := math.Hypot(dx, dz)
	if dist >= radius {
		return feature{}, false
	}

	norm := dist / radius
	angle := math.Atan2(dz, dx)
	height := islandHeight(variant, stream, norm, angle)
	blend := mathx.Smootherstep(1 - norm)
	return feature{height: height, blend: blend}, true
}

// islandHeight evaluates the closed-form profile for a variant. norm is the
// normalized distance from the island center in [0,1), angle the bearing of
// the sample from the center.
func islandHeight(variant islandVariant, stream *mathx.Stream, norm, angle float64) float64 {
	switch variant {
	case islandRidge:
		// A crest along a drawn axis; height falls off with the distance
		// from the ridge line, approximated by the angular offset.
		peak := stream.Range(35, 60)
		axis := stream.Range(0, math.Pi)
		crest := math.Abs(math.Cos(angle - axis))
		return peak * mathx.Smootherstep(1-norm) * (0.35 + 0.65*crest)

	case islandTall:
		// Steep volcanic cone.
		peak := stream.Range(70, 120)
		steep := stream.Range(1.6, 2.4)
		return peak * math.Pow(1-norm, steep)

	case islandWide:
		// Low, broad pancake.
		peak := stream.Range(14, 26)
		return peak * mathx.Smootherstep(1-norm*norm)

	case islandArch:
		// Annular rim with a lagoon in the middle.
		peak := stream.Range(30, 55)
		rimPos := stream.Range(0.45, 0.6)
		rimDist := math.Abs(norm-rimPos) / rimPos
		return peak * mathx.Smootherstep(1-rimDist)

	case islandRocky:
		// Outcrop: cone with angular lobes.
		peak := stream.Range(40, 70)
		lobes := math.Floor(stream.Range(3, 7))
		phase := stream.Range(0, 2*math.Pi)
		bump := 0.75 + 0.25*math.Cos(lobes*angle+phase)
		return peak * (1 - norm) * bump

	case islandCurvy:
		// Wide island with a meandering shoreline.
		peak := stream.Range(20, 38)
		waves := math.Floor(stream.Range(2, 5))
		phase := stream.Range(0, 2*math.Pi)
		edge := 0.85 + 0.15*math.Sin(waves*angle+phase)
		return peak * mathx.Smootherstep(1-norm/edge)

	default: // islandCliff
		// Flat top that drops off sharply near the shore.
		peak := stream.Range(45, 80)
		edge := stream.Range(0.6, 0.8)
		if norm <= edge {
			return peak
		}
		return peak * mathx.Smootherstep((1-norm)/(1-edge))
	}
}
