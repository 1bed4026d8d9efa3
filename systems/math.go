package systems

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// clamp01 clamps a float32 value to the [0, 1] range.
func clamp01(v float32) float32 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// clamp01f clamps a float64 value to the [0, 1] range. NaN maps to 0.
func clamp01f(v float64) float64 {
	if !(v > 0) {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// sanitizeDT maps negative, NaN and infinite frame deltas to 0.
func sanitizeDT(dt float64) float64 {
	if !(dt > 0) || math.IsInf(dt, 1) {
		return 0
	}
	return dt
}

// lerpVec moves a towards b by t.
func lerpVec(a, b r3.Vec, t float64) r3.Vec {
	return r3.Add(a, r3.Scale(t, r3.Sub(b, a)))
}

// Fast math for the foliage kernel.
// These avoid float32->float64 conversions that Go's math package requires.

// wrapAngle maps any angle to [-π, π]. Elapsed time grows without bound, so a
// single-step correction is not enough here.
func wrapAngle(a float32) float32 {
	if a >= -math.Pi && a <= math.Pi {
		return a
	}
	return float32(math.Remainder(float64(a), 2*math.Pi))
}

// fastSin approximates sin(x) using a polynomial. Accurate to ~0.001 for all x.
func fastSin(x float32) float32 {
	x = wrapAngle(x)
	const pi = math.Pi
	const pi2 = pi * pi
	ax := x
	if ax < 0 {
		ax = -ax
	}
	y := 4 * x * (pi - ax) / pi2
	return 0.225*(y*absf(y)-y) + y
}

// fastCos approximates cos(x) using fastSin.
func fastCos(x float32) float32 {
	return fastSin(x + math.Pi/2)
}

func absf(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}
