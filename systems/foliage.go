package systems

import (
	"image/color"
	"math/rand"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/tanema/gween/ease"

	"github.com/pthm-cable/evergreen/camera"
	"github.com/pthm-cable/evergreen/components"
	"github.com/pthm-cable/evergreen/config"
)

// FoliageData holds immutable per-element generation data in columnar layout.
type FoliageData struct {
	ChaosX, ChaosY, ChaosZ    []float32
	TargetX, TargetY, TargetZ []float32
	Phase                     []float32 // per-element random value in [0,1)
}

// NewFoliageData generates n elements: chaos points inside the chaos sphere,
// targets on the tree cone.
func NewFoliageData(rng *rand.Rand, n int, scene config.SceneConfig) *FoliageData {
	d := &FoliageData{
		ChaosX:  make([]float32, n),
		ChaosY:  make([]float32, n),
		ChaosZ:  make([]float32, n),
		TargetX: make([]float32, n),
		TargetY: make([]float32, n),
		TargetZ: make([]float32, n),
		Phase:   make([]float32, n),
	}
	for i := 0; i < n; i++ {
		c := RandomSpherePoint(rng, scene.ChaosRadius)
		t := TreePoint(rng, scene.TreeHeight, scene.TreeRadius, i, n)

		d.ChaosX[i], d.ChaosY[i], d.ChaosZ[i] = float32(c.X), float32(c.Y), float32(c.Z)
		d.TargetX[i], d.TargetY[i], d.TargetZ[i] = float32(t.X), float32(t.Y), float32(t.Z)
		d.Phase[i] = rng.Float32()
	}
	return d
}

// Len returns the number of elements.
func (d *FoliageData) Len() int {
	return len(d.Phase)
}

// FoliageOutput holds per-frame kernel results, one slot per element.
type FoliageOutput struct {
	X, Y, Z          []float32 // model-space position after morph and sway
	ScreenX, ScreenY []float32
	Depth            []float32
	Size             []float32 // pixels, 0 when not visible
	Color            []color.RGBA
	Visible          []bool
}

func newFoliageOutput(n int) *FoliageOutput {
	return &FoliageOutput{
		X:       make([]float32, n),
		Y:       make([]float32, n),
		Z:       make([]float32, n),
		ScreenX: make([]float32, n),
		ScreenY: make([]float32, n),
		Depth:   make([]float32, n),
		Size:    make([]float32, n),
		Color:   make([]color.RGBA, n),
		Visible: make([]bool, n),
	}
}

// Uniforms are the per-frame globals shared by every element.
type Uniforms struct {
	Progress float32
	Time     float32
	View     camera.View
}

// FoliageParams are the kernel constants.
type FoliageParams struct {
	Lead          float32
	Stagger       float32
	SwayThreshold float32
	SwayBase      float32
	SwayGain      float32
	TipThreshold  float32
	BaseSize      float32
	Attenuation   float32

	Base   colorful.Color
	Bright colorful.Color
	Tip    color.RGBA
}

// FoliageParamsFromConfig reads kernel constants from the config.
func FoliageParamsFromConfig(cfg *config.Config) FoliageParams {
	return FoliageParams{
		Lead:          cfg.Derived.Lead32,
		Stagger:       cfg.Derived.Stagger32,
		SwayThreshold: cfg.Derived.SwayThreshold32,
		SwayBase:      cfg.Derived.SwayBase32,
		SwayGain:      cfg.Derived.SwayGain32,
		TipThreshold:  cfg.Derived.TipThreshold32,
		BaseSize:      cfg.Derived.BaseSize32,
		Attenuation:   cfg.Derived.Attenuation32,
		Base:          cfg.Color("emerald"),
		Bright:        cfg.Color("emerald_bright"),
		Tip:           components.RGBA(cfg.Color("gold")),
	}
}

// Foliage drives the point cloud: one global progress scalar plus a pure
// per-element kernel. The kernel has no inter-element dependency, so disjoint
// ranges may be evaluated concurrently.
type Foliage struct {
	Data   *FoliageData
	Out    *FoliageOutput
	Params FoliageParams

	progress float32
	rate     float64
}

// NewFoliage generates the foliage dataset from the config.
func NewFoliage(rng *rand.Rand, cfg *config.Config) *Foliage {
	data := NewFoliageData(rng, cfg.Scene.FoliageCount, cfg.Scene)
	return &Foliage{
		Data:   data,
		Out:    newFoliageOutput(data.Len()),
		Params: FoliageParamsFromConfig(cfg),
		rate:   cfg.Foliage.ProgressRate,
	}
}

// Len returns the number of elements.
func (f *Foliage) Len() int {
	return f.Data.Len()
}

// Progress returns the global progress in [0,1].
func (f *Foliage) Progress() float32 {
	return f.progress
}

// Advance moves global progress towards the state's target with exponential
// smoothing. The step factor is clamped so large frames cannot overshoot.
func (f *Foliage) Advance(state components.TreeState, dt float64) {
	k := float32(clamp01f(f.rate * sanitizeDT(dt)))
	if k >= 1 {
		f.progress = state.Target()
		return
	}
	f.progress = clamp01(f.progress + (state.Target()-f.progress)*k)
}

// Settled reports whether every element's local progress lies within tol of
// the state's endpoint. The slowest element has phase 1.
func (f *Foliage) Settled(state components.TreeState, tol float32) bool {
	if state == components.StateFormed {
		return f.progress*f.Params.Lead-f.Params.Stagger >= 1-tol
	}
	return f.progress*f.Params.Lead <= tol
}

// Uniforms packs this frame's globals.
func (f *Foliage) Uniforms(elapsed float64, view camera.View) Uniforms {
	return Uniforms{Progress: f.progress, Time: float32(elapsed), View: view}
}

// Evaluate runs the kernel over every element on the calling goroutine.
func (f *Foliage) Evaluate(u Uniforms) {
	f.EvaluateRange(0, f.Len(), u)
}

// EvaluateRange runs the kernel for elements [start, end). It reads only
// immutable data and u, and writes only its own output slots.
func (f *Foliage) EvaluateRange(start, end int, u Uniforms) {
	d := f.Data
	out := f.Out
	p := &f.Params
	view := &u.View

	for i := start; i < end; i++ {
		phase := d.Phase[i]

		local := p.Local(u.Progress, phase)
		eased := ease.InOutCubic(local, 0, 1, 1)

		x := d.ChaosX[i] + (d.TargetX[i]-d.ChaosX[i])*eased
		y := d.ChaosY[i] + (d.TargetY[i]-d.ChaosY[i])*eased
		z := d.ChaosZ[i] + (d.TargetZ[i]-d.ChaosZ[i])*eased

		// Wind sway once nearly formed
		if local > p.SwayThreshold {
			sway := (y + p.SwayBase) * p.SwayGain * eased
			x += fastSin(u.Time+y) * sway
			z += fastCos(u.Time*0.8+y) * sway
		}

		out.X[i], out.Y[i], out.Z[i] = x, y, z

		sx, sy, depth, ok := view.Project(x, y, z)
		out.ScreenX[i], out.ScreenY[i], out.Depth[i] = sx, sy, depth
		out.Visible[i] = ok
		if ok {
			out.Size[i] = p.BaseSize * (1 + phase) * (p.Attenuation / depth)
		} else {
			out.Size[i] = 0
		}

		out.Color[i] = p.ColorFor(phase)
	}
}

// Local returns an element's staggered local progress for a global progress.
func (p *FoliageParams) Local(progress, phase float32) float32 {
	return clamp01(progress*p.Lead - phase*p.Stagger)
}

// ColorFor returns the element colour for a phase value: a blend from base to
// bright weighted by phase, replaced outright by the tip colour at or above the threshold.
func (p *FoliageParams) ColorFor(phase float32) color.RGBA {
	if phase >= p.TipThreshold {
		return p.Tip
	}
	return components.RGBA(p.Base.BlendRgb(p.Bright, float64(phase)))
}
