package systems

import (
	"image/color"
	"math"
	"math/rand"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/evergreen/components"
)

func TestNewOrnamentSystem_KindTraits(t *testing.T) {
	cfg := testConfig(t, 10, 4000)
	s := NewOrnamentSystem(rand.New(rand.NewSource(1)), cfg)

	if s.Len() != 4000 {
		t.Fatalf("expected 4000 ornaments, got %d", s.Len())
	}

	allowed := map[components.Kind][]color.RGBA{
		components.KindGift:   {components.RGBA(cfg.Color("red_luxury")), components.RGBA(cfg.Color("gold"))},
		components.KindBauble: {components.RGBA(cfg.Color("gold")), components.RGBA(cfg.Color("silver"))},
		components.KindLight:  {components.RGBA(cfg.Color("gold_high"))},
	}
	weights := map[components.Kind]float64{
		components.KindGift:   0.1,
		components.KindBauble: 0.4,
		components.KindLight:  0.9,
	}

	counts := make(map[components.Kind]int)
	for i := 0; i < s.Len(); i++ {
		el, ok := s.Element(i)
		if !ok {
			t.Fatalf("slot %d: expected element", i)
		}
		counts[el.Kind]++

		if el.Weight != weights[el.Kind] {
			t.Fatalf("slot %d: %s has weight %v", i, el.Kind, el.Weight)
		}
		found := false
		for _, c := range allowed[el.Kind] {
			if el.Color == c {
				found = true
			}
		}
		if !found {
			t.Fatalf("slot %d: %s has unexpected colour %+v", i, el.Kind, el.Color)
		}
		if el.Current != el.Chaos {
			t.Fatalf("slot %d: expected ornament to start at its chaos point", i)
		}
		if math.Abs(r3.Norm(el.Axis)-1) > 1e-9 {
			t.Fatalf("slot %d: expected unit axis, got norm %v", i, r3.Norm(el.Axis))
		}
		if el.Speed < -1 || el.Speed >= 1 {
			t.Fatalf("slot %d: rotation speed %v outside [-1, 1)", i, el.Speed)
		}
	}

	// Roll thresholds: 20% gifts, 30% lights
	check := func(kind components.Kind, want float64) {
		got := float64(counts[kind]) / float64(s.Len())
		if math.Abs(got-want) > 0.03 {
			t.Errorf("expected %s share ≈ %v, got %v", kind, want, got)
		}
	}
	check(components.KindGift, 0.2)
	check(components.KindBauble, 0.5)
	check(components.KindLight, 0.3)
}

func TestOrnamentSystem_ZeroDeltaIsNoOp(t *testing.T) {
	cfg := testConfig(t, 10, 200)
	s := NewOrnamentSystem(rand.New(rand.NewSource(2)), cfg)
	s.Update(components.StateFormed, 0.5, 0.5)

	before := make([]r3.Vec, s.Len())
	for i := range before {
		el, _ := s.Element(i)
		before[i] = el.Current
	}

	for _, dt := range []float64{0, -0.1, math.NaN()} {
		s.Update(components.StateChaos, dt, 1)
		for i := range before {
			el, _ := s.Element(i)
			if el.Current != before[i] {
				t.Fatalf("dt %v: slot %d moved", dt, i)
			}
		}
	}
}

// Toggling at arbitrary times keeps every ornament on the segment between its
// chaos and target points.
func TestOrnamentSystem_StaysOnSegment(t *testing.T) {
	cfg := testConfig(t, 10, 300)
	s := NewOrnamentSystem(rand.New(rand.NewSource(3)), cfg)
	rng := rand.New(rand.NewSource(4))

	state := components.StateChaos
	elapsed := 0.0
	for frame := 0; frame < 600; frame++ {
		if rng.Float64() < 0.05 {
			state = state.Toggled()
		}
		dt := rng.Float64() * 0.1
		if frame%97 == 0 {
			dt = 5
		}
		elapsed += dt
		s.Update(state, dt, elapsed)

		for i := 0; i < s.Len(); i++ {
			el, _ := s.Element(i)
			full := r3.Norm(r3.Sub(el.Target, el.Chaos))
			split := r3.Norm(r3.Sub(el.Current, el.Chaos)) + r3.Norm(r3.Sub(el.Target, el.Current))
			if split-full > 1e-6*(1+full) {
				t.Fatalf("frame %d slot %d: current left the chaos-target segment (%v > %v)", frame, i, split, full)
			}
		}
	}
}

func TestOrnamentSystem_Convergence(t *testing.T) {
	cfg := testConfig(t, 10, 400)
	s := NewOrnamentSystem(rand.New(rand.NewSource(5)), cfg)

	elapsed := 0.0
	for frame := 0; frame < 6000; frame++ {
		elapsed += 1.0 / 60
		s.Update(components.StateFormed, 1.0/60, elapsed)
	}
	for i := 0; i < s.Len(); i++ {
		el, _ := s.Element(i)
		if d := r3.Norm(r3.Sub(el.Current, el.Target)); d > 0.01 {
			t.Fatalf("slot %d (%s): still %v from target after 100s", i, el.Kind, d)
		}
	}

	for frame := 0; frame < 6000; frame++ {
		elapsed += 1.0 / 60
		s.Update(components.StateChaos, 1.0/60, elapsed)
	}
	for i := 0; i < s.Len(); i++ {
		el, _ := s.Element(i)
		if d := r3.Norm(r3.Sub(el.Current, el.Chaos)); d > 0.01 {
			t.Fatalf("slot %d (%s): still %v from chaos after 100s", i, el.Kind, d)
		}
	}
}

func TestOrnamentSystem_LightsLeadGifts(t *testing.T) {
	cfg := testConfig(t, 10, 1000)
	s := NewOrnamentSystem(rand.New(rand.NewSource(6)), cfg)

	elapsed := 0.0
	for frame := 0; frame < 60; frame++ {
		elapsed += 1.0 / 60
		s.Update(components.StateFormed, 1.0/60, elapsed)
	}

	remaining := make(map[components.Kind][]float64)
	for i := 0; i < s.Len(); i++ {
		el, _ := s.Element(i)
		full := r3.Norm(r3.Sub(el.Target, el.Chaos))
		if full < 1e-6 {
			continue
		}
		remaining[el.Kind] = append(remaining[el.Kind], r3.Norm(r3.Sub(el.Target, el.Current))/full)
	}

	mean := func(v []float64) float64 {
		sum := 0.0
		for _, x := range v {
			sum += x
		}
		return sum / float64(len(v))
	}
	light, bauble, gift := mean(remaining[components.KindLight]), mean(remaining[components.KindBauble]), mean(remaining[components.KindGift])
	if !(light < bauble && bauble < gift) {
		t.Errorf("expected lights < baubles < gifts in remaining distance, got %v %v %v", light, bauble, gift)
	}
}

func TestOrnamentSystem_BobOnlyWhenFormed(t *testing.T) {
	cfg := testConfig(t, 10, 200)
	s := NewOrnamentSystem(rand.New(rand.NewSource(7)), cfg)

	s.Update(components.StateChaos, 1.0/60, 3.3)
	for i, inst := range s.Instances() {
		el, _ := s.Element(i)
		if inst.Position != el.Current {
			t.Fatalf("slot %d: expected no bob in chaos state", i)
		}
	}

	s.Update(components.StateFormed, 1.0/60, 3.3)
	bobbed := 0
	for i, inst := range s.Instances() {
		el, _ := s.Element(i)
		dy := inst.Position.Y - el.Current.Y
		if inst.Position.X != el.Current.X || inst.Position.Z != el.Current.Z {
			t.Fatalf("slot %d: bob must only affect Y", i)
		}
		if math.Abs(dy) > 0.05*el.Weight+1e-12 {
			t.Fatalf("slot %d: bob %v exceeds amplitude for weight %v", i, dy, el.Weight)
		}
		want := math.Sin(3.3*2+el.Chaos.X) * 0.05 * el.Weight
		if math.Abs(dy-want) > 1e-12 {
			t.Fatalf("slot %d: expected bob %v, got %v", i, want, dy)
		}
		if dy != 0 {
			bobbed++
		}
	}
	if bobbed == 0 {
		t.Error("expected some ornaments to bob while formed")
	}
}

func TestOrnamentSystem_RotationFromElapsed(t *testing.T) {
	cfg := testConfig(t, 10, 50)
	s := NewOrnamentSystem(rand.New(rand.NewSource(8)), cfg)
	s.Update(components.StateChaos, 1.0/60, 12.5)

	for i, inst := range s.Instances() {
		el, _ := s.Element(i)
		if inst.Angle != 12.5*el.Speed {
			t.Fatalf("slot %d: expected angle %v, got %v", i, 12.5*el.Speed, inst.Angle)
		}
		if inst.Scale != el.Scale || inst.Kind != el.Kind || inst.Color != el.Color {
			t.Fatalf("slot %d: instance does not carry element traits", i)
		}
	}
}

func TestOrnamentSystem_ElementOutOfRange(t *testing.T) {
	cfg := testConfig(t, 10, 5)
	s := NewOrnamentSystem(rand.New(rand.NewSource(9)), cfg)

	for _, i := range []int{-1, 5, 100} {
		if _, ok := s.Element(i); ok {
			t.Errorf("expected no element at slot %d", i)
		}
		if c := s.Components(i); c != nil {
			t.Errorf("expected no components at slot %d", i)
		}
	}
	if c := s.Components(0); len(c) != 4 {
		t.Errorf("expected 4 components for slot 0, got %d", len(c))
	}
}

func TestOrnamentInstance_Matrix(t *testing.T) {
	inst := OrnamentInstance{
		Position: r3.Vec{X: 1, Y: 2, Z: 3},
		Axis:     r3.Vec{Y: 1},
		Angle:    math.Pi / 2,
		Scale:    0.5,
	}
	m := inst.Matrix()

	if m[12] != 1 || m[13] != 2 || m[14] != 3 || m[15] != 1 {
		t.Errorf("expected translation column (1, 2, 3, 1), got %v", m[12:16])
	}

	// Quarter turn about +Y maps +X to -Z
	near := func(a float32, b float64) bool { return math.Abs(float64(a)-b) < 1e-6 }
	if !near(m[0], 0) || !near(m[1], 0) || !near(m[2], -0.5) {
		t.Errorf("expected X column (0, 0, -0.5), got %v", m[0:3])
	}
	if !near(m[4], 0) || !near(m[5], 0.5) || !near(m[6], 0) {
		t.Errorf("expected Y column (0, 0.5, 0), got %v", m[4:7])
	}

	// Zero angle is a pure scale
	inst.Angle = 0
	m = inst.Matrix()
	if !near(m[0], 0.5) || !near(m[5], 0.5) || !near(m[10], 0.5) {
		t.Errorf("expected diagonal scale 0.5, got %v %v %v", m[0], m[5], m[10])
	}
}

func BenchmarkOrnamentUpdate(b *testing.B) {
	cfg := testConfig(b, 10, 400)
	s := NewOrnamentSystem(rand.New(rand.NewSource(1)), cfg)

	b.ResetTimer()
	for n := 0; n < b.N; n++ {
		s.Update(components.StateFormed, 1.0/60, float64(n)/60)
	}
}

func TestOrnamentSystem_Remaining(t *testing.T) {
	cfg := testConfig(t, 10, 100)
	s := NewOrnamentSystem(rand.New(rand.NewSource(10)), cfg)

	// At the start every ornament sits on its chaos point
	for i, r := range s.Remaining(components.StateChaos, nil) {
		if r != 0 {
			t.Fatalf("slot %d: expected 0 remaining in chaos, got %v", i, r)
		}
	}
	for i, r := range s.Remaining(components.StateFormed, nil) {
		if math.Abs(r-1) > 1e-9 {
			t.Fatalf("slot %d: expected full path remaining towards tree, got %v", i, r)
		}
	}

	s.Update(components.StateFormed, 1, 1)
	buf := make([]float64, 0, s.Len())
	got := s.Remaining(components.StateFormed, buf)
	for i, r := range got {
		el, _ := s.Element(i)
		want := 1 - el.Weight
		if math.Abs(r-want) > 1e-9 {
			t.Fatalf("slot %d: expected %v remaining after one step, got %v", i, want, r)
		}
	}
}
