// Package renderer is the raylib surface: it opens the window, turns mouse
// and keyboard into game input and draws each frame.
package renderer

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/evergreen/components"
	"github.com/pthm-cable/evergreen/config"
	"github.com/pthm-cable/evergreen/game"
	"github.com/pthm-cable/evergreen/inspector"
	"github.com/pthm-cable/evergreen/systems"
	"github.com/pthm-cable/evergreen/ui"
)

const subtitle = "A LUXURY INTERACTIVE EXPERIENCE"

// Window is a game.Surface backed by a raylib window.
type Window struct {
	cfg  *config.Config
	game *game.Game

	width, height int32
	resized       bool
	pendingToggle bool // HUD button press, delivered with the next input

	background *BackgroundRenderer
	foliage    *FoliageRenderer
	ornaments  *OrnamentRenderer
	stars      *StarRenderer
	glow       *GlowRenderer

	hud       *ui.HUD
	perfPanel *ui.PerfPanel
	controls  *ui.ControlsPanel
	overlays  *ui.OverlayRegistry
	inspector *inspector.Inspector
}

// NewWindow opens the raylib window. g supplies the scene for inspection and
// perf display.
func NewWindow(cfg *config.Config, g *game.Game) *Window {
	rl.SetConfigFlags(rl.FlagWindowResizable | rl.FlagMsaa4xHint)
	rl.InitWindow(int32(cfg.Screen.Width), int32(cfg.Screen.Height), cfg.Screen.Title)
	rl.SetTargetFPS(int32(cfg.Screen.TargetFPS))

	w := &Window{
		cfg:       cfg,
		game:      g,
		width:     int32(rl.GetScreenWidth()),
		height:    int32(rl.GetScreenHeight()),
		resized:   true,
		foliage:   NewFoliageRenderer(),
		ornaments: NewOrnamentRenderer(),
		stars:     NewStarRenderer(),
		glow:      NewGlowRenderer(),
		hud:       ui.NewHUD(),
		controls:  ui.NewControlsPanel(360, 140, 260),
		overlays:  ui.NewOverlayRegistry(),
		inspector: inspector.NewInspector(),
	}
	w.background = NewBackgroundRenderer(w.width, w.height)
	w.perfPanel = ui.NewPerfPanel(w.width-304, 220)
	w.ornaments.Init()
	return w
}

// ShouldClose reports whether the window was closed.
func (w *Window) ShouldClose() bool {
	return rl.WindowShouldClose()
}

// FrameTime returns the duration of the last frame in seconds.
func (w *Window) FrameTime() float32 {
	return rl.GetFrameTime()
}

// Input gathers one frame of user intent.
func (w *Window) Input() game.Input {
	var in game.Input

	if rl.IsWindowResized() {
		w.width = int32(rl.GetScreenWidth())
		w.height = int32(rl.GetScreenHeight())
		w.background.Resize(w.width, w.height)
		w.perfPanel.SetPosition(w.width-304, 220)
		w.resized = true
	}
	if w.resized {
		in.Width, in.Height = int(w.width), int(w.height)
		w.resized = false
	}

	in.Toggle = w.pendingToggle || rl.IsKeyPressed(rl.KeySpace)
	w.pendingToggle = false
	in.ResetCamera = rl.IsKeyPressed(rl.KeyR)
	in.Quit = rl.IsKeyPressed(rl.KeyQ)

	if rl.IsKeyPressed(rl.KeyF1) {
		w.controls.Toggle()
	}
	w.overlays.HandleKeys()

	// Clicks on the HUD button never orbit or pick
	mouse := rl.GetMousePosition()
	overButton := w.overlays.IsEnabled(ui.OverlayHUD) &&
		rl.CheckCollisionPointRec(mouse, ui.ButtonBounds(w.width, w.height))

	if !overButton {
		if w.overlays.IsEnabled(ui.OverlayInspector) {
			f := w.game.Frame()
			w.inspector.HandleInput(mouse.X, mouse.Y, len(f.Ornaments), f.Ornaments, &f.View)
		}
		if rl.IsMouseButtonDown(rl.MouseButtonLeft) {
			d := rl.GetMouseDelta()
			in.OrbitDX, in.OrbitDY = float64(d.X), float64(d.Y)
		}
	}
	in.Zoom = float64(rl.GetMouseWheelMove())

	return in
}

// Draw renders one frame.
func (w *Window) Draw(f *game.Frame) {
	rl.BeginDrawing()

	// Background glow sits behind the tree centre and brightens as it forms
	cx, cy, _, ok := f.View.ProjectVec(r3.Vec{Y: w.cfg.Scene.TreeHeight / 2})
	if !ok {
		cx, cy = float64(w.width)/2, float64(w.height)/2
	}
	w.background.Draw(f.Background, float32(cx), float32(cy), f.Progress)

	cam := rl.Camera3D{
		Position:   vec3(f.Eye),
		Target:     vec3(f.Target),
		Up:         rl.Vector3{Y: 1},
		Fovy:       float32(f.FovY),
		Projection: rl.CameraPerspective,
	}

	if w.overlays.IsEnabled(ui.OverlayStars) {
		rl.BeginMode3D(cam)
		w.stars.Draw(f.Stars, f.StarColor, f.Elapsed)
		rl.EndMode3D()
	}

	if w.overlays.IsEnabled(ui.OverlayFoliage) {
		w.foliage.Draw(f.Foliage)
	}

	rl.BeginMode3D(cam)
	if w.overlays.IsEnabled(ui.OverlayOrnaments) {
		w.ornaments.Draw(f.Ornaments, f.Offset)
	}
	if w.overlays.IsEnabled(ui.OverlayTargets) {
		w.ornaments.DrawPaths(w.game.Ornaments(), f.Offset)
	}
	if w.overlays.IsEnabled(ui.OverlayInspector) {
		w.inspector.DrawSelectionHighlight(w.game.Ornaments(), vec3(f.Offset))
	}
	rl.EndMode3D()

	if w.overlays.IsEnabled(ui.OverlayOrnaments) {
		w.glow.Draw(f.Ornaments, &f.View, 0.3+0.7*f.Progress)
	}

	w.drawUI(f)

	rl.EndDrawing()
}

// drawUI renders the HUD and debug panels.
func (w *Window) drawUI(f *game.Frame) {
	w.hud.Update(f.State, rl.GetFrameTime())

	if w.overlays.IsEnabled(ui.OverlayHUD) {
		pressed := w.hud.Draw(ui.HUDData{
			Title:          w.cfg.Screen.Title,
			Subtitle:       subtitle,
			State:          f.State,
			Progress:       f.Progress,
			Elapsed:        f.Elapsed,
			FPS:            int32(rl.GetFPS()),
			FoliageCount:   len(f.Foliage.Visible),
			VisibleFoliage: countVisible(f.Foliage),
			OrnamentCount:  len(f.Ornaments),
			ScreenWidth:    w.width,
			ScreenHeight:   w.height,
		})
		if pressed {
			w.pendingToggle = true
		}
		w.hud.DrawControls(w.height, controlsLegend(f.State))
	}

	if w.overlays.IsEnabled(ui.OverlayPerf) {
		w.perfPanel.Draw(w.game.Perf())
	}
	if w.overlays.IsEnabled(ui.OverlayInspector) {
		if i, ok := w.inspector.Selected(); ok {
			w.inspector.Draw(w.game.Ornaments().Components(i))
		}
	}
	w.controls.Draw(w.overlays)
}

// Close unloads GPU resources and closes the window.
func (w *Window) Close() {
	w.ornaments.Unload()
	rl.CloseWindow()
}

func controlsLegend(state components.TreeState) string {
	action := "assemble"
	if state == components.StateFormed {
		action = "disperse"
	}
	return fmt.Sprintf("Space: %s | Drag: orbit | Wheel: zoom | R: reset | F1: controls | Q: quit", action)
}

func countVisible(out *systems.FoliageOutput) int {
	n := 0
	for _, v := range out.Visible {
		if v {
			n++
		}
	}
	return n
}
