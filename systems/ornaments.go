package systems

import (
	"image/color"
	"math"
	"math/rand"

	"github.com/mlange-42/ark/ecs"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/evergreen/components"
	"github.com/pthm-cable/evergreen/config"
)

// OrnamentInstance is the per-frame transform and colour of one ornament.
type OrnamentInstance struct {
	Position r3.Vec // live position plus bob
	Axis     r3.Vec // unit rotation axis
	Angle    float64
	Scale    float64
	Color    color.RGBA
	Kind     components.Kind
}

// Matrix returns the column-major model matrix translate * rotate * scale.
func (o *OrnamentInstance) Matrix() [16]float32 {
	rot := r3.NewRotation(o.Angle, o.Axis)
	cx := r3.Scale(o.Scale, rot.Rotate(r3.Vec{X: 1}))
	cy := r3.Scale(o.Scale, rot.Rotate(r3.Vec{Y: 1}))
	cz := r3.Scale(o.Scale, rot.Rotate(r3.Vec{Z: 1}))

	return [16]float32{
		float32(cx.X), float32(cx.Y), float32(cx.Z), 0,
		float32(cy.X), float32(cy.Y), float32(cy.Z), 0,
		float32(cz.X), float32(cz.Y), float32(cz.Z), 0,
		float32(o.Position.X), float32(o.Position.Y), float32(o.Position.Z), 1,
	}
}

// OrnamentElement is a read-only copy of one ornament's state.
type OrnamentElement struct {
	Chaos, Target, Current r3.Vec
	Axis                   r3.Vec
	Speed                  float64
	components.Ornament
}

// OrnamentSystem owns the ornament entities and updates them sequentially
// on the calling goroutine.
type OrnamentSystem struct {
	world *ecs.World

	mapper *ecs.Map5[
		components.Slot,
		components.Morph,
		components.Position,
		components.Spin,
		components.Ornament,
	]
	filter *ecs.Filter5[
		components.Slot,
		components.Morph,
		components.Position,
		components.Spin,
		components.Ornament,
	]

	// Individual component mappers for lookups
	morphMap *ecs.Map[components.Morph]
	posMap   *ecs.Map[components.Position]
	spinMap  *ecs.Map[components.Spin]
	ornMap   *ecs.Map[components.Ornament]

	entities  []ecs.Entity // by slot
	instances []OrnamentInstance

	baseSpeed    float64
	bobAmplitude float64
	bobFrequency float64
}

// NewOrnamentSystem generates cfg.Scene.OrnamentCount ornaments. Kind traits
// are looked up once here and never re-branched per frame.
func NewOrnamentSystem(rng *rand.Rand, cfg *config.Config) *OrnamentSystem {
	world := ecs.NewWorld()
	n := cfg.Scene.OrnamentCount

	s := &OrnamentSystem{
		world: world,
		mapper: ecs.NewMap5[
			components.Slot,
			components.Morph,
			components.Position,
			components.Spin,
			components.Ornament,
		](world),
		filter: ecs.NewFilter5[
			components.Slot,
			components.Morph,
			components.Position,
			components.Spin,
			components.Ornament,
		](world),
		morphMap:     ecs.NewMap[components.Morph](world),
		posMap:       ecs.NewMap[components.Position](world),
		spinMap:      ecs.NewMap[components.Spin](world),
		ornMap:       ecs.NewMap[components.Ornament](world),
		entities:     make([]ecs.Entity, 0, n),
		instances:    make([]OrnamentInstance, n),
		baseSpeed:    cfg.Ornaments.BaseSpeed,
		bobAmplitude: cfg.Ornaments.BobAmplitude,
		bobFrequency: cfg.Ornaments.BobFrequency,
	}

	kinds := components.NewKindTable(cfg)
	scene := cfg.Scene
	for i := 0; i < n; i++ {
		kind := components.KindForRoll(rng.Float64(), cfg.Ornaments.GiftBelow, cfg.Ornaments.LightAbove)
		traits := kinds.Get(kind)
		col := traits.Colors[0]
		if len(traits.Colors) > 1 {
			col = traits.Colors[rng.Intn(len(traits.Colors))]
		}

		chaos := RandomSpherePoint(rng, scene.ChaosRadius)
		target := TreePoint(rng, scene.TreeHeight, scene.TreeRadius+scene.OrnamentOffset, i, n)

		axis := r3.Vec{X: rng.Float64(), Y: rng.Float64(), Z: rng.Float64()}
		if r3.Norm(axis) < 1e-9 {
			axis = r3.Vec{Y: 1}
		}

		slot := components.Slot{Index: i}
		morph := components.Morph{Chaos: chaos, Target: target}
		pos := components.Position{Current: chaos}
		spin := components.Spin{Axis: r3.Unit(axis), Speed: (rng.Float64() - 0.5) * 2}
		orn := components.Ornament{Kind: kind, Weight: traits.Weight, Scale: traits.Scale, Color: col}

		s.entities = append(s.entities, s.mapper.NewEntity(&slot, &morph, &pos, &spin, &orn))
	}

	return s
}

// Len returns the number of ornaments.
func (s *OrnamentSystem) Len() int {
	return len(s.entities)
}

// Update moves every ornament towards the state's endpoint and rebuilds the
// instance list. Heavier kinds (lower weight) converge more slowly.
func (s *OrnamentSystem) Update(state components.TreeState, dt, elapsed float64) {
	dt = sanitizeDT(dt)
	formed := state == components.StateFormed

	query := s.filter.Query()
	for query.Next() {
		slot, morph, pos, spin, orn := query.Get()

		dest := morph.Chaos
		if formed {
			dest = morph.Target
		}
		pos.Current = lerpVec(pos.Current, dest, clamp01f(orn.Weight*s.baseSpeed*dt))

		inst := &s.instances[slot.Index]
		inst.Position = pos.Current
		if formed {
			inst.Position.Y += math.Sin(elapsed*s.bobFrequency+morph.Chaos.X) * s.bobAmplitude * orn.Weight
		}
		inst.Axis = spin.Axis
		inst.Angle = elapsed * spin.Speed
		inst.Scale = orn.Scale
		inst.Color = orn.Color
		inst.Kind = orn.Kind
	}
}

// Instances returns this frame's per-ornament transforms, indexed by slot.
func (s *OrnamentSystem) Instances() []OrnamentInstance {
	return s.instances
}

// Element returns a copy of the ornament in slot i.
func (s *OrnamentSystem) Element(i int) (OrnamentElement, bool) {
	if i < 0 || i >= len(s.entities) {
		return OrnamentElement{}, false
	}
	e := s.entities[i]
	morph := s.morphMap.Get(e)
	pos := s.posMap.Get(e)
	spin := s.spinMap.Get(e)
	orn := s.ornMap.Get(e)

	return OrnamentElement{
		Chaos:    morph.Chaos,
		Target:   morph.Target,
		Current:  pos.Current,
		Axis:     spin.Axis,
		Speed:    spin.Speed,
		Ornament: *orn,
	}, true
}

// Components returns pointers to the components of the ornament in slot i,
// for reflection-based inspection.
func (s *OrnamentSystem) Components(i int) []any {
	if i < 0 || i >= len(s.entities) {
		return nil
	}
	e := s.entities[i]
	return []any{s.ornMap.Get(e), s.morphMap.Get(e), s.posMap.Get(e), s.spinMap.Get(e)}
}

// Remaining appends each ornament's distance to its destination for the given
// state, as a fraction of its full chaos-target path, in slot order.
func (s *OrnamentSystem) Remaining(state components.TreeState, dst []float64) []float64 {
	dst = dst[:0]
	for _, e := range s.entities {
		morph := s.morphMap.Get(e)
		pos := s.posMap.Get(e)

		dest := morph.Chaos
		if state == components.StateFormed {
			dest = morph.Target
		}
		full := r3.Norm(r3.Sub(morph.Target, morph.Chaos))
		if full < 1e-9 {
			dst = append(dst, 0)
			continue
		}
		dst = append(dst, r3.Norm(r3.Sub(dest, pos.Current))/full)
	}
	return dst
}
