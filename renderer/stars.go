package renderer

import (
	"image/color"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/evergreen/systems"
)

// StarRenderer draws the background star shell.
type StarRenderer struct{}

// NewStarRenderer creates a new star renderer.
func NewStarRenderer() *StarRenderer {
	return &StarRenderer{}
}

// Draw renders the stars inside the current 3D mode. Brightness twinkles
// slowly per star.
func (r *StarRenderer) Draw(stars *systems.StarField, c color.RGBA, elapsed float64) {
	for i, p := range stars.Points {
		a := twinkle(stars.Size[i], elapsed)
		rl.DrawPoint3D(vec3(p), rl.Color{R: c.R, G: c.G, B: c.B, A: uint8(float32(c.A) * a)})
	}
}

// twinkle maps a star's size factor and the clock to an alpha in [0.4, 1].
func twinkle(size float32, elapsed float64) float32 {
	phase := float32(elapsed)*0.5 + size*37
	s := phase - float32(int(phase))
	if s > 0.5 {
		s = 1 - s
	}
	return 0.4 + 1.2*s
}
