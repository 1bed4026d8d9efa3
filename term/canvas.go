package term

import (
	"image/color"
	"math"

	"github.com/lucasb-eyer/go-colorful"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/evergreen/game"
)

const (
	foliageGain = 0.35 // share of a point's colour added per hit
	starGain    = 0.5

	// Covers at least one pixel centre wherever the disc lands
	minOrnamentRadius = 0.75
)

// Canvas is a pixel grid with two pixels per terminal cell, stacked
// vertically. Foliage blends additively and ornaments are depth tested.
type Canvas struct {
	W, H  int
	pix   []colorful.Color
	depth []float64
}

// NewCanvas allocates a w by h pixel canvas.
func NewCanvas(w, h int) *Canvas {
	c := &Canvas{}
	c.Resize(w, h)
	return c
}

// Resize reallocates the canvas when the size changes.
func (c *Canvas) Resize(w, h int) {
	if w < 0 {
		w = 0
	}
	if h < 0 {
		h = 0
	}
	if w == c.W && h == c.H && c.pix != nil {
		return
	}
	c.W, c.H = w, h
	c.pix = make([]colorful.Color, w*h)
	c.depth = make([]float64, w*h)
}

// At returns the pixel at (x, y) clamped to displayable RGB.
func (c *Canvas) At(x, y int) colorful.Color {
	if x < 0 || y < 0 || x >= c.W || y >= c.H {
		return colorful.Color{}
	}
	return c.pix[y*c.W+x].Clamped()
}

// Clear fills the canvas with bg and resets the depth buffer.
func (c *Canvas) Clear(bg color.RGBA) {
	fill := toColorful(bg)
	for i := range c.pix {
		c.pix[i] = fill
		c.depth[i] = math.Inf(1)
	}
}

// Rasterize draws stars, foliage and ornaments of f. The frame's view must
// have been built for a W by H viewport.
func (c *Canvas) Rasterize(f *game.Frame) {
	c.Clear(f.Background)

	// Stars are not part of the tree group, so undo the view's offset
	star := toColorful(f.StarColor)
	for i, p := range f.Stars.Points {
		sx, sy, _, ok := f.View.ProjectVec(r3.Sub(p, f.Offset))
		if !ok {
			continue
		}
		c.add(int(sx), int(sy), star, starGain*float64(f.Stars.Size[i]))
	}

	out := f.Foliage
	for i := range out.Visible {
		if !out.Visible[i] {
			continue
		}
		gain := foliageGain * math.Min(1, float64(out.Size[i])/4)
		c.add(int(out.ScreenX[i]), int(out.ScreenY[i]), toColorful(out.Color[i]), gain)
	}

	for i := range f.Ornaments {
		inst := &f.Ornaments[i]
		sx, sy, depth, ok := f.View.ProjectVec(inst.Position)
		if !ok {
			continue
		}
		r := inst.Scale * float64(f.View.Focal) / depth
		c.disc(sx, sy, math.Max(r, minOrnamentRadius), depth, toColorful(inst.Color))
	}
}

// add blends col scaled by gain into one pixel.
func (c *Canvas) add(x, y int, col colorful.Color, gain float64) {
	if x < 0 || y < 0 || x >= c.W || y >= c.H {
		return
	}
	p := &c.pix[y*c.W+x]
	p.R += col.R * gain
	p.G += col.G * gain
	p.B += col.B * gain
}

// disc fills a depth-tested circle.
func (c *Canvas) disc(cx, cy, r, depth float64, col colorful.Color) {
	x0, x1 := int(math.Floor(cx-r)), int(math.Ceil(cx+r))
	y0, y1 := int(math.Floor(cy-r)), int(math.Ceil(cy+r))
	for y := y0; y <= y1; y++ {
		if y < 0 || y >= c.H {
			continue
		}
		for x := x0; x <= x1; x++ {
			if x < 0 || x >= c.W {
				continue
			}
			dx, dy := float64(x)+0.5-cx, float64(y)+0.5-cy
			if dx*dx+dy*dy > r*r {
				continue
			}
			i := y*c.W + x
			if depth >= c.depth[i] {
				continue
			}
			c.depth[i] = depth
			c.pix[i] = col
		}
	}
}

func toColorful(c color.RGBA) colorful.Color {
	return colorful.Color{R: float64(c.R) / 255, G: float64(c.G) / 255, B: float64(c.B) / 255}
}
