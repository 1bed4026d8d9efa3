package game

// Input is one frame of user intent, gathered by a surface.
type Input struct {
	Toggle      bool
	Quit        bool
	ResetCamera bool

	// Camera drag in pixels and wheel steps
	OrbitDX, OrbitDY float64
	Zoom             float64

	// New viewport size, 0 when unchanged
	Width, Height int
}

// HandleInput applies one frame of input to the scene.
func (g *Game) HandleInput(in Input) {
	// Window resize propagation
	if in.Width > 0 && in.Height > 0 {
		g.camera.Resize(float64(in.Width), float64(in.Height))
	}

	if in.Toggle {
		g.Toggle()
	}

	// Camera controls
	if in.ResetCamera {
		g.camera.Reset()
	}
	if in.OrbitDX != 0 || in.OrbitDY != 0 {
		g.camera.Rotate(in.OrbitDX, in.OrbitDY)
	}
	if in.Zoom != 0 {
		g.camera.ZoomBy(in.Zoom)
	}
}
