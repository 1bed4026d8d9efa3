package renderer

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/evergreen/systems"
)

const (
	minPointRadius = 0.5
	maxPointRadius = 24
)

// FoliageRenderer draws the evaluated foliage as additive round points.
type FoliageRenderer struct{}

// NewFoliageRenderer creates a new foliage renderer.
func NewFoliageRenderer() *FoliageRenderer {
	return &FoliageRenderer{}
}

// Draw renders every visible element at its projected position. Size is a
// point diameter in pixels.
func (r *FoliageRenderer) Draw(out *systems.FoliageOutput) {
	rl.BeginBlendMode(rl.BlendAdditive)
	for i := range out.Visible {
		if !out.Visible[i] {
			continue
		}
		radius := out.Size[i] / 2
		if radius < minPointRadius {
			radius = minPointRadius
		}
		if radius > maxPointRadius {
			radius = maxPointRadius
		}
		rl.DrawCircleV(rl.Vector2{X: out.ScreenX[i], Y: out.ScreenY[i]}, radius, out.Color[i])
	}
	rl.EndBlendMode()
}
