package systems

import (
	"math"
	"math/rand"
	"sort"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"
	"gonum.org/v1/gonum/stat"
)

func TestRandomSpherePoint_WithinRadius(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for _, radius := range []float64{0.5, 1, 15, 100} {
		for i := 0; i < 2000; i++ {
			p := RandomSpherePoint(rng, radius)
			if n := r3.Norm(p); n > radius+1e-9 {
				t.Fatalf("radius %v: point %+v has norm %v", radius, p, n)
			}
		}
	}
}

// TestRandomSpherePoint_VolumetricDensity compares sampled norms against the
// cube-root CDF of a uniformly filled ball with a two-sample KS distance.
func TestRandomSpherePoint_VolumetricDensity(t *testing.T) {
	const n = 5000
	const radius = 15.0
	rng := rand.New(rand.NewSource(42))

	sampled := make([]float64, n)
	for i := range sampled {
		sampled[i] = r3.Norm(RandomSpherePoint(rng, radius)) / radius
	}
	sort.Float64s(sampled)

	// Reference quantiles: F(r) = r³ for volumetric density, F(r) = r for a linear one
	cubeRoot := make([]float64, n)
	linear := make([]float64, n)
	for i := range cubeRoot {
		q := (float64(i) + 0.5) / n
		cubeRoot[i] = math.Cbrt(q)
		linear[i] = q
	}

	dVolume := stat.KolmogorovSmirnov(sampled, nil, cubeRoot, nil)
	dLinear := stat.KolmogorovSmirnov(sampled, nil, linear, nil)

	if dVolume > 0.04 {
		t.Errorf("expected norms to follow the cube-root CDF, KS distance %v", dVolume)
	}
	if dLinear < 0.2 {
		t.Errorf("expected norms to differ from a linear CDF, KS distance %v", dLinear)
	}
}

func TestRandomShellPoint_WithinShell(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	for i := 0; i < 2000; i++ {
		n := r3.Norm(RandomShellPoint(rng, 100, 150))
		if n < 100-1e-9 || n > 150+1e-9 {
			t.Fatalf("expected norm in [100, 150], got %v", n)
		}
	}
}

func TestTreePoint_ConePlacement(t *testing.T) {
	const (
		height    = 12.0
		maxRadius = 4.5
		total     = 1000
	)
	rng := rand.New(rand.NewSource(7))
	bound := TreeJitter * math.Sqrt2

	for index := 0; index < total; index++ {
		p := TreePoint(rng, height, maxRadius, index, total)

		yNorm := float64(index) / total
		wantY := yNorm*height - height/2
		if p.Y != wantY {
			t.Fatalf("index %d: expected Y %v exactly, got %v", index, wantY, p.Y)
		}

		wantR := (1 - yNorm) * maxRadius
		gotR := math.Hypot(p.X, p.Z)
		if math.Abs(gotR-wantR) > bound+1e-9 {
			t.Fatalf("index %d: radial distance %v outside %v ± %v", index, gotR, wantR, bound)
		}
	}
}

func TestTreePoint_JitterBounded(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	for index := 0; index < 500; index++ {
		base := ConePoint(12, 4.5, index, 500)
		p := TreePoint(rng, 12, 4.5, index, 500)

		dx := p.X - base.X
		dz := p.Z - base.Z
		if math.Abs(dx) > TreeJitter || math.Abs(dz) > TreeJitter {
			t.Fatalf("index %d: jitter (%v, %v) exceeds %v", index, dx, dz, TreeJitter)
		}
		if math.Abs(dx-dz) > 1e-12 {
			t.Fatalf("index %d: expected equal jitter on X and Z, got (%v, %v)", index, dx, dz)
		}
	}
}

func TestConePoint_GoldenAngleSpiral(t *testing.T) {
	p := ConePoint(12, 4.5, 1, 10)
	theta := math.Atan2(p.Z, p.X)
	if math.Abs(theta-GoldenAngle) > 1e-9 {
		t.Errorf("expected angle %v for index 1, got %v", GoldenAngle, theta)
	}

	base := ConePoint(12, 4.5, 0, 10)
	if base.Y != -6 || math.Hypot(base.X, base.Z) != 4.5 {
		t.Errorf("expected base point at radius 4.5, y -6, got %+v", base)
	}
}

func TestConePoint_ZeroTotal(t *testing.T) {
	if p := ConePoint(12, 4.5, 0, 0); p != (r3.Vec{}) {
		t.Errorf("expected zero vector for empty total, got %+v", p)
	}
}
