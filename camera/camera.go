// Package camera provides an orbit camera for viewport control and the
// pinhole projection the foliage kernel uses for size attenuation.
package camera

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/evergreen/config"
)

// worldUp is the fixed up direction of the scene.
var worldUp = r3.Vec{Y: 1}

// Orbit is a camera orbiting a target point at a clamped distance and polar angle.
// Polar is measured from +Y, azimuth from +Z towards +X. There is no pan.
type Orbit struct {
	Target r3.Vec

	Distance float64
	Polar    float64
	Azimuth  float64

	// Vertical field of view in degrees
	FovY float64
	Near float64

	// Viewport dimensions (screen size)
	ViewportW, ViewportH float64

	// Constraints
	MinDistance, MaxDistance float64
	MinPolar, MaxPolar       float64

	OrbitSpeed float64 // radians per pixel
	ZoomSpeed  float64 // distance per wheel step

	home r3.Vec
}

// New creates a camera whose eye starts at (0, height, distance) looking at the origin.
func New(cfg config.CameraConfig, viewportW, viewportH float64) *Orbit {
	c := &Orbit{
		FovY:        cfg.FovY,
		Near:        cfg.Near,
		ViewportW:   viewportW,
		ViewportH:   viewportH,
		MinDistance: cfg.MinDistance,
		MaxDistance: cfg.MaxDistance,
		MinPolar:    cfg.MinPolar,
		MaxPolar:    cfg.MaxPolar,
		OrbitSpeed:  cfg.OrbitSpeed,
		ZoomSpeed:   cfg.ZoomSpeed,
		home:        r3.Vec{Y: cfg.Height, Z: cfg.Distance},
	}
	if c.Near <= 0 {
		c.Near = 0.1
	}
	c.Reset()
	return c
}

// Reset returns the camera to its starting eye position.
func (c *Orbit) Reset() {
	c.Target = r3.Vec{}
	c.Distance = r3.Norm(c.home)
	if c.Distance > 0 {
		c.Polar = math.Acos(c.home.Y / c.Distance)
	}
	c.Azimuth = math.Atan2(c.home.X, c.home.Z)
}

// Position returns the eye position in world coordinates.
func (c *Orbit) Position() r3.Vec {
	sinP, cosP := math.Sincos(c.Polar)
	sinA, cosA := math.Sincos(c.Azimuth)
	return r3.Add(c.Target, r3.Scale(c.Distance, r3.Vec{
		X: sinP * sinA,
		Y: cosP,
		Z: sinP * cosA,
	}))
}

// Rotate orbits the camera by a mouse drag given in screen pixels.
func (c *Orbit) Rotate(dx, dy float64) {
	c.Azimuth -= dx * c.OrbitSpeed
	c.Polar = clamp(c.Polar-dy*c.OrbitSpeed, c.MinPolar, c.MaxPolar)
}

// ZoomBy moves the camera towards the target by steps wheel notches.
func (c *Orbit) ZoomBy(steps float64) {
	c.Distance = clamp(c.Distance-steps*c.ZoomSpeed, c.MinDistance, c.MaxDistance)
}

// Resize updates viewport dimensions.
func (c *Orbit) Resize(viewportW, viewportH float64) {
	c.ViewportW = viewportW
	c.ViewportH = viewportH
}

// View returns the projection for the current frame. offset is the model
// translation applied to every point before projecting.
func (c *Orbit) View(offset r3.Vec) View {
	eye := c.Position()
	fwd := r3.Unit(r3.Sub(c.Target, eye))
	right := r3.Cross(fwd, worldUp)
	if r3.Norm(right) < 1e-9 {
		right = r3.Vec{X: 1}
	}
	right = r3.Unit(right)
	up := r3.Cross(right, fwd)

	halfH := c.ViewportH / 2
	focal := halfH / math.Tan(c.FovY*math.Pi/360)

	return View{
		EyeX: float32(eye.X), EyeY: float32(eye.Y), EyeZ: float32(eye.Z),
		RightX: float32(right.X), RightY: float32(right.Y), RightZ: float32(right.Z),
		UpX: float32(up.X), UpY: float32(up.Y), UpZ: float32(up.Z),
		FwdX: float32(fwd.X), FwdY: float32(fwd.Y), FwdZ: float32(fwd.Z),
		OffX: float32(offset.X), OffY: float32(offset.Y), OffZ: float32(offset.Z),
		Focal: float32(focal),
		HalfW: float32(c.ViewportW / 2),
		HalfH: float32(halfH),
		Near:  float32(c.Near),
	}
}

// View is a flattened camera basis for projecting many points per frame.
// It is a plain value so workers can share it without synchronisation.
type View struct {
	EyeX, EyeY, EyeZ       float32
	RightX, RightY, RightZ float32
	UpX, UpY, UpZ          float32
	FwdX, FwdY, FwdZ       float32
	OffX, OffY, OffZ       float32

	Focal        float32 // pixels per unit at depth 1
	HalfW, HalfH float32
	Near         float32
}

// Project maps a model-space point to screen pixels. depth is the camera-space
// distance along the view direction; ok is false for points at or behind the near plane.
func (v *View) Project(x, y, z float32) (sx, sy, depth float32, ok bool) {
	dx := x + v.OffX - v.EyeX
	dy := y + v.OffY - v.EyeY
	dz := z + v.OffZ - v.EyeZ

	depth = dx*v.FwdX + dy*v.FwdY + dz*v.FwdZ
	if depth <= v.Near {
		return 0, 0, depth, false
	}
	cx := dx*v.RightX + dy*v.RightY + dz*v.RightZ
	cy := dx*v.UpX + dy*v.UpY + dz*v.UpZ

	inv := v.Focal / depth
	sx = v.HalfW + cx*inv
	sy = v.HalfH - cy*inv
	return sx, sy, depth, true
}

// ProjectVec is Project for r3 vectors.
func (v *View) ProjectVec(p r3.Vec) (sx, sy, depth float64, ok bool) {
	x, y, d, ok := v.Project(float32(p.X), float32(p.Y), float32(p.Z))
	return float64(x), float64(y), float64(d), ok
}

// clamp restricts a value to a range.
func clamp(x, min, max float64) float64 {
	if x < min {
		return min
	}
	if x > max {
		return max
	}
	return x
}
