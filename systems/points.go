package systems

import (
	"math"
	"math/rand"

	"gonum.org/v1/gonum/spatial/r3"
)

// GoldenAngle is the angular step between consecutive tree points (≈137.5°).
const GoldenAngle = 2.39996

// TreeJitter bounds the random offset TreePoint adds to X and Z.
const TreeJitter = 0.25

// RandomSpherePoint samples a point uniformly inside a solid sphere.
// The cube root on the radius compensates for volume growing as r³.
func RandomSpherePoint(rng *rand.Rand, radius float64) r3.Vec {
	u := rng.Float64()
	v := rng.Float64()
	theta := 2 * math.Pi * u
	phi := math.Acos(2*v - 1)
	r := math.Cbrt(rng.Float64()) * radius

	sinPhi := math.Sin(phi)
	return r3.Vec{
		X: r * sinPhi * math.Cos(theta),
		Y: r * sinPhi * math.Sin(theta),
		Z: r * math.Cos(phi),
	}
}

// RandomShellPoint samples a point uniformly inside the shell between inner and outer radius.
func RandomShellPoint(rng *rand.Rand, inner, outer float64) r3.Vec {
	if outer < inner {
		inner, outer = outer, inner
	}
	u := rng.Float64()
	v := rng.Float64()
	theta := 2 * math.Pi * u
	phi := math.Acos(2*v - 1)

	in3 := inner * inner * inner
	out3 := outer * outer * outer
	r := math.Cbrt(in3 + rng.Float64()*(out3-in3))

	sinPhi := math.Sin(phi)
	return r3.Vec{
		X: r * sinPhi * math.Cos(theta),
		Y: r * sinPhi * math.Sin(theta),
		Z: r * math.Cos(phi),
	}
}

// ConePoint places the index-th of total points on a cone surface in a
// golden-angle spiral. Radius shrinks linearly from maxRadius at the base to 0
// at the apex and Y is centred on the origin. Deterministic in index.
func ConePoint(height, maxRadius float64, index, total int) r3.Vec {
	if total <= 0 {
		return r3.Vec{}
	}
	yNorm := float64(index) / float64(total)
	radiusAtY := (1 - yNorm) * maxRadius
	theta := float64(index) * GoldenAngle

	return r3.Vec{
		X: radiusAtY * math.Cos(theta),
		Y: yNorm*height - height/2,
		Z: radiusAtY * math.Sin(theta),
	}
}

// TreePoint is ConePoint plus a symmetric jitter of up to TreeJitter on X and Z.
// The same offset is applied to both axes.
func TreePoint(rng *rand.Rand, height, maxRadius float64, index, total int) r3.Vec {
	p := ConePoint(height, maxRadius, index, total)
	noise := (rng.Float64() - 0.5) * 2 * TreeJitter
	p.X += noise
	p.Z += noise
	return p
}
