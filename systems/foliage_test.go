package systems

import (
	"image/color"
	"math"
	"math/rand"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/evergreen/camera"
	"github.com/pthm-cable/evergreen/components"
	"github.com/pthm-cable/evergreen/config"
)

func testConfig(t testing.TB, foliage, ornaments int) *config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.Scene.FoliageCount = foliage
	cfg.Scene.OrnamentCount = ornaments
	if err := cfg.Refresh(); err != nil {
		t.Fatalf("refreshing config: %v", err)
	}
	return cfg
}

func testView(cfg *config.Config) camera.View {
	cam := camera.New(cfg.Camera, float64(cfg.Screen.Width), float64(cfg.Screen.Height))
	return cam.View(r3.Vec{Y: cfg.Scene.OffsetY})
}

func TestFoliage_AdvanceTowardsTarget(t *testing.T) {
	cfg := testConfig(t, 100, 10)
	f := NewFoliage(rand.New(rand.NewSource(1)), cfg)

	if f.Progress() != 0 {
		t.Fatalf("expected initial progress 0, got %v", f.Progress())
	}

	prev := f.Progress()
	for i := 0; i < 120; i++ {
		f.Advance(components.StateFormed, 1.0/60)
		p := f.Progress()
		if p < prev || p > 1 {
			t.Fatalf("step %d: progress %v not monotonic in [0,1] (prev %v)", i, p, prev)
		}
		prev = p
	}

	// After 2s at 0.8/s, progress ≈ 1 - e^-1.6
	want := 1 - math.Exp(-1.6)
	if math.Abs(float64(prev)-want) > 0.01 {
		t.Errorf("expected progress ≈ %v after 2s, got %v", want, prev)
	}

	// Reverse direction
	for i := 0; i < 60; i++ {
		f.Advance(components.StateChaos, 1.0/60)
	}
	if f.Progress() >= prev {
		t.Errorf("expected progress to fall in chaos state, got %v (was %v)", f.Progress(), prev)
	}
}

func TestFoliage_AdvanceDegenerateDeltas(t *testing.T) {
	cfg := testConfig(t, 10, 10)
	f := NewFoliage(rand.New(rand.NewSource(1)), cfg)
	f.Advance(components.StateFormed, 0.5)
	before := f.Progress()

	for _, dt := range []float64{0, -1, math.NaN(), math.Inf(1), math.Inf(-1)} {
		f.Advance(components.StateChaos, dt)
		if f.Progress() != before {
			t.Errorf("dt %v: expected progress unchanged at %v, got %v", dt, before, f.Progress())
		}
	}

	// A huge frame clamps the step factor instead of overshooting
	f.Advance(components.StateFormed, 1000)
	if f.Progress() != 1 {
		t.Errorf("expected progress exactly 1 after a huge frame, got %v", f.Progress())
	}
}

func TestFoliage_EvaluateChaosIsExact(t *testing.T) {
	cfg := testConfig(t, 500, 10)
	f := NewFoliage(rand.New(rand.NewSource(2)), cfg)
	f.Evaluate(f.Uniforms(3.5, testView(cfg)))

	for i := 0; i < f.Len(); i++ {
		if f.Out.X[i] != f.Data.ChaosX[i] || f.Out.Y[i] != f.Data.ChaosY[i] || f.Out.Z[i] != f.Data.ChaosZ[i] {
			t.Fatalf("element %d: expected chaos position at progress 0", i)
		}
	}
}

func TestFoliage_EvaluateFormedWithinSway(t *testing.T) {
	cfg := testConfig(t, 500, 10)
	f := NewFoliage(rand.New(rand.NewSource(3)), cfg)
	f.Advance(components.StateFormed, 1000)
	f.Evaluate(f.Uniforms(12.25, testView(cfg)))

	for i := 0; i < f.Len(); i++ {
		ty := f.Data.TargetY[i]
		bound := float64(absf((ty+5)*0.02)) + 1e-4
		if d := math.Abs(float64(f.Out.Y[i] - ty)); d > 1e-4 {
			t.Fatalf("element %d: Y moved by %v, sway is horizontal only", i, d)
		}
		if d := math.Abs(float64(f.Out.X[i] - f.Data.TargetX[i])); d > bound {
			t.Fatalf("element %d: X offset %v exceeds sway bound %v", i, d, bound)
		}
		if d := math.Abs(float64(f.Out.Z[i] - f.Data.TargetZ[i])); d > bound {
			t.Fatalf("element %d: Z offset %v exceeds sway bound %v", i, d, bound)
		}
	}
}

func TestFoliage_NoSwayBelowThreshold(t *testing.T) {
	cfg := testConfig(t, 500, 10)
	f := NewFoliage(rand.New(rand.NewSource(4)), cfg)
	// progress 0.5 -> local <= 0.6 for every element
	for f.Progress() < 0.5 {
		f.Advance(components.StateFormed, 1.0/60)
	}
	for f.Progress() > 0.5 {
		f.Advance(components.StateChaos, 1.0/240)
	}
	view := testView(cfg)

	f.Evaluate(f.Uniforms(1, view))
	x1 := append([]float32(nil), f.Out.X...)
	f.Evaluate(f.Uniforms(7, view))

	for i := range x1 {
		if x1[i] != f.Out.X[i] {
			t.Fatalf("element %d: position changed with time below sway threshold", i)
		}
	}
}

func TestFoliage_StaggeredProgress(t *testing.T) {
	cfg := testConfig(t, 2000, 10)
	f := NewFoliage(rand.New(rand.NewSource(5)), cfg)
	for f.Progress() < 0.3 {
		f.Advance(components.StateFormed, 1.0/60)
	}
	f.Evaluate(f.Uniforms(0, testView(cfg)))

	// Elements with a low phase lead elements with a high phase
	var lowSum, highSum float64
	var lowN, highN int
	for i := 0; i < f.Len(); i++ {
		full := math.Abs(float64(f.Data.TargetX[i] - f.Data.ChaosX[i]))
		if full < 1 {
			continue
		}
		done := math.Abs(float64(f.Out.X[i]-f.Data.ChaosX[i])) / full
		if f.Data.Phase[i] < 0.2 {
			lowSum += done
			lowN++
		} else if f.Data.Phase[i] > 0.8 {
			highSum += done
			highN++
		}
	}
	if lowN == 0 || highN == 0 {
		t.Fatal("expected elements in both phase buckets")
	}
	if lowSum/float64(lowN) <= highSum/float64(highN) {
		t.Errorf("expected low-phase elements further along: %v vs %v",
			lowSum/float64(lowN), highSum/float64(highN))
	}
}

func TestFoliage_RangesMatchSequential(t *testing.T) {
	cfg := testConfig(t, 1000, 10)
	f := NewFoliage(rand.New(rand.NewSource(6)), cfg)
	f.Advance(components.StateFormed, 1.5)
	u := f.Uniforms(4.2, testView(cfg))

	f.Evaluate(u)
	wantX := append([]float32(nil), f.Out.X...)
	wantSize := append([]float32(nil), f.Out.Size...)

	for i := range f.Out.X {
		f.Out.X[i], f.Out.Size[i] = 0, 0
	}
	f.EvaluateRange(600, 1000, u)
	f.EvaluateRange(0, 600, u)

	for i := range wantX {
		if wantX[i] != f.Out.X[i] || wantSize[i] != f.Out.Size[i] {
			t.Fatalf("element %d: chunked evaluation differs from sequential", i)
		}
	}
}

func TestFoliage_SizeAttenuation(t *testing.T) {
	cfg := testConfig(t, 1000, 10)
	f := NewFoliage(rand.New(rand.NewSource(7)), cfg)
	f.Evaluate(f.Uniforms(0, testView(cfg)))

	p := f.Params
	for i := 0; i < f.Len(); i++ {
		if !f.Out.Visible[i] {
			if f.Out.Size[i] != 0 {
				t.Fatalf("element %d: hidden element has size %v", i, f.Out.Size[i])
			}
			continue
		}
		want := p.BaseSize * (1 + f.Data.Phase[i]) * (p.Attenuation / f.Out.Depth[i])
		if math.Abs(float64(f.Out.Size[i]-want)) > 1e-4 {
			t.Fatalf("element %d: expected size %v, got %v", i, want, f.Out.Size[i])
		}
	}
}

func TestFoliageParams_ColorThreshold(t *testing.T) {
	cfg := testConfig(t, 10, 10)
	p := FoliageParamsFromConfig(cfg)

	if got := p.ColorFor(0); got != components.RGBA(cfg.Color("emerald")) {
		t.Errorf("expected base colour at phase 0, got %+v", got)
	}
	if got := p.ColorFor(0.95); got != p.Tip {
		t.Errorf("expected tip colour at threshold, got %+v", got)
	}
	if got := p.ColorFor(0.999); got != p.Tip {
		t.Errorf("expected tip colour above threshold, got %+v", got)
	}

	// Just below the threshold: nearly the bright colour, never partially gold
	below := p.ColorFor(0.949)
	bright := components.RGBA(cfg.Color("emerald_bright"))
	if below == p.Tip {
		t.Error("expected no tip colour below threshold")
	}
	if diff := int(bright.G) - int(below.G); diff < 0 || diff > 3 {
		t.Errorf("expected blend close to bright green below threshold, got %+v", below)
	}
}

// Two seeds share every deterministic component and differ only in the
// randomised details.
func TestFoliageData_SeedsShareDeterministicLayout(t *testing.T) {
	scene := config.Default().Scene
	const n = 3000
	a := NewFoliageData(rand.New(rand.NewSource(100)), n, scene)
	b := NewFoliageData(rand.New(rand.NewSource(200)), n, scene)

	samePhase := 0
	for i := 0; i < n; i++ {
		base := ConePoint(scene.TreeHeight, scene.TreeRadius, i, n)
		for _, d := range []*FoliageData{a, b} {
			if d.TargetY[i] != float32(base.Y) {
				t.Fatalf("element %d: expected deterministic Y %v, got %v", i, base.Y, d.TargetY[i])
			}
			if math.Abs(float64(d.TargetX[i])-base.X) > TreeJitter+1e-5 ||
				math.Abs(float64(d.TargetZ[i])-base.Z) > TreeJitter+1e-5 {
				t.Fatalf("element %d: target outside jitter bound of cone placement", i)
			}
		}
		if a.Phase[i] == b.Phase[i] {
			samePhase++
		}
	}
	if samePhase > n/100 {
		t.Errorf("expected phases to differ between seeds, %d of %d identical", samePhase, n)
	}
}

// Seeds change which elements get which phase, but colouring is the same
// function of phase for every seed.
func TestFoliage_ColourFormulaSharedAcrossSeeds(t *testing.T) {
	cfg := testConfig(t, 3000, 1)
	a := NewFoliage(rand.New(rand.NewSource(100)), cfg)
	b := NewFoliage(rand.New(rand.NewSource(200)), cfg)
	view := testView(cfg)
	a.Evaluate(a.Uniforms(0, view))
	b.Evaluate(b.Uniforms(0, view))

	p := FoliageParamsFromConfig(cfg)
	tips := [2]int{}
	tipDiffers := false
	for i := 0; i < a.Len(); i++ {
		for k, f := range []*Foliage{a, b} {
			phase := f.Data.Phase[i]
			if got := f.Out.Color[i]; got != p.ColorFor(phase) {
				t.Fatalf("seed %d element %d: colour %+v does not match phase %v", k, i, got, phase)
			}
			if phase >= p.TipThreshold {
				tips[k]++
			}
		}
		if (a.Out.Color[i] == p.Tip) != (b.Out.Color[i] == p.Tip) {
			tipDiffers = true
		}
	}
	if tips[0] == 0 || tips[1] == 0 {
		t.Fatalf("expected tip elements for both seeds, got %v", tips)
	}
	if !tipDiffers {
		t.Error("expected tip elements at different indices for different seeds")
	}

	// Phases in the same narrow bucket get the same colour up to rounding
	const buckets = 1000
	byBucket := make(map[int]color.RGBA)
	for i, phase := range a.Data.Phase {
		byBucket[int(phase*buckets)] = a.Out.Color[i]
	}
	matched := 0
	for j, phase := range b.Data.Phase {
		want, ok := byBucket[int(phase*buckets)]
		if !ok || phase >= p.TipThreshold-1.0/buckets {
			continue
		}
		got := b.Out.Color[j]
		if absDiff(got.R, want.R) > 1 || absDiff(got.G, want.G) > 1 || absDiff(got.B, want.B) > 1 {
			t.Fatalf("phase %v: colour %+v differs from other seed's %+v", phase, got, want)
		}
		matched++
	}
	if matched == 0 {
		t.Fatal("expected phases shared between seeds")
	}
}

func absDiff(a, b uint8) int {
	if a > b {
		return int(a - b)
	}
	return int(b - a)
}

func BenchmarkFoliageEvaluate(b *testing.B) {
	cfg := testConfig(b, 15000, 10)
	f := NewFoliage(rand.New(rand.NewSource(1)), cfg)
	f.Advance(components.StateFormed, 1.5)
	u := f.Uniforms(2, testView(cfg))

	b.ResetTimer()
	for n := 0; n < b.N; n++ {
		f.Evaluate(u)
	}
}

func TestFoliage_Settled(t *testing.T) {
	cfg := testConfig(t, 10, 1)
	f := NewFoliage(rand.New(rand.NewSource(1)), cfg)

	if !f.Settled(components.StateChaos, 0.01) {
		t.Error("expected fresh foliage to be settled in chaos")
	}
	if f.Settled(components.StateFormed, 0.01) {
		t.Error("expected fresh foliage not to be settled when formed")
	}

	for i := 0; i < 60*30; i++ {
		f.Advance(components.StateFormed, 1.0/60)
	}
	if !f.Settled(components.StateFormed, 0.01) {
		t.Errorf("expected foliage settled after 30s, progress %v", f.Progress())
	}
	if f.Settled(components.StateChaos, 0.01) {
		t.Error("expected formed foliage not to be settled in chaos")
	}
}
