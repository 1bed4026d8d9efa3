package renderer

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/evergreen/camera"
	"github.com/pthm-cable/evergreen/components"
	"github.com/pthm-cable/evergreen/systems"
)

// glowLayers are the halo rings from outside in, radius in units of the
// projected ornament size.
var glowLayers = []struct {
	radius float32
	alpha  float32
}{
	{5.0, 8},
	{3.0, 15},
	{1.8, 25},
	{1.0, 50},
}

// GlowRenderer draws additive halos around light ornaments.
type GlowRenderer struct{}

// NewGlowRenderer creates a new glow renderer.
func NewGlowRenderer() *GlowRenderer {
	return &GlowRenderer{}
}

// Draw renders halos in screen space. intensity in [0, 1] scales all layers.
func (r *GlowRenderer) Draw(instances []systems.OrnamentInstance, view *camera.View, intensity float32) {
	if intensity <= 0 {
		return
	}
	rl.BeginBlendMode(rl.BlendAdditive)
	for i := range instances {
		inst := &instances[i]
		if inst.Kind != components.KindLight {
			continue
		}
		sx, sy, depth, ok := view.ProjectVec(inst.Position)
		if !ok {
			continue
		}
		size := float32(inst.Scale) * view.Focal / float32(depth)
		center := rl.Vector2{X: float32(sx), Y: float32(sy)}

		for _, layer := range glowLayers {
			c := inst.Color
			c.A = uint8(layer.alpha * intensity)
			rl.DrawCircleV(center, layer.radius*size, c)
		}
	}
	rl.EndBlendMode()
}
