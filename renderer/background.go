package renderer

import (
	"image/color"
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// BackgroundRenderer clears to the scene background and lays a warm radial
// glow behind the tree.
type BackgroundRenderer struct {
	screenW, screenH float32
}

// NewBackgroundRenderer creates a new background renderer.
func NewBackgroundRenderer(screenW, screenH int32) *BackgroundRenderer {
	b := &BackgroundRenderer{}
	b.Resize(screenW, screenH)
	return b
}

// Resize updates the target size.
func (b *BackgroundRenderer) Resize(screenW, screenH int32) {
	b.screenW = float32(screenW)
	b.screenH = float32(screenH)
}

// Draw clears the frame and draws the glow centred on (x, y) in screen space.
// intensity in [0, 1] scales the glow.
func (b *BackgroundRenderer) Draw(base color.RGBA, x, y, intensity float32) {
	rl.ClearBackground(base)

	// Darker floor towards the bottom edge
	rl.DrawRectangleGradientV(0, int32(b.screenH/2), int32(b.screenW), int32(b.screenH/2),
		rl.Color{R: base.R, G: base.G, B: base.B, A: 0}, rl.Color{A: 180})

	if intensity <= 0 {
		return
	}
	maxRadius := float32(math.Hypot(float64(b.screenW), float64(b.screenH))) * 0.35

	steps := 12
	for i := steps; i >= 1; i-- {
		t := float32(i) / float32(steps)
		radius := maxRadius * t

		// Fast falloff, light concentrated near the centre
		falloff := float32(math.Pow(float64(1-t), 4.0))
		alpha := falloff * 0.08 * intensity * 255
		if alpha < 1 {
			continue
		}
		rl.DrawCircleV(rl.Vector2{X: x, Y: y}, radius, rl.Color{R: 212, G: 175, B: 55, A: uint8(alpha)})
	}
}
