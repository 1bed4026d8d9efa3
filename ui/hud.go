package ui

import (
	"fmt"
	"time"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"

	"github.com/pthm-cable/evergreen/components"
	"github.com/pthm-cable/evergreen/telemetry"
)

const (
	buttonWidth  = 220
	buttonHeight = 44
	glowDuration = 0.5 // seconds
	cornerSize   = 160
)

// HUDData holds all the data needed to render the main HUD.
type HUDData struct {
	Title          string
	Subtitle       string
	State          components.TreeState
	Progress       float32
	Elapsed        float64
	FPS            int32
	FoliageCount   int
	VisibleFoliage int
	OrnamentCount  int
	ScreenWidth    int32
	ScreenHeight   int32
}

// HUD renders the title, the state toggle button and the scene panel.
type HUD struct {
	renderer *Renderer
	scene    SectionDescriptor

	// Button glow fades out after every state change
	glow      *gween.Tween
	glowValue float32
	last      components.TreeState
	seen      bool
}

// NewHUD creates a new HUD renderer.
func NewHUD() *HUD {
	return &HUD{
		renderer: NewRenderer(),
		scene:    sceneSection(),
	}
}

// sceneSection describes the scene panel fields over HUDData.
func sceneSection() SectionDescriptor {
	return SectionDescriptor{
		ID:    "scene",
		Title: "Scene",
		Fields: []FieldDescriptor{
			{ID: "state", Label: "State", Widget: WidgetText, TextGetter: func(d any) string {
				return d.(*HUDData).State.String()
			}},
			{ID: "progress", Label: "Progress", Widget: WidgetBar, Getter: func(d any) float32 {
				return d.(*HUDData).Progress
			}},
			{ID: "elapsed", Label: "Elapsed", Widget: WidgetText, Format: "%.1fs", Getter: func(d any) float32 {
				return float32(d.(*HUDData).Elapsed)
			}},
			{ID: "fps", Label: "FPS", Widget: WidgetText, Format: "%.0f", Getter: func(d any) float32 {
				return float32(d.(*HUDData).FPS)
			}},
			{ID: "foliage", Label: "Foliage", Widget: WidgetText, TextGetter: func(d any) string {
				data := d.(*HUDData)
				return fmt.Sprintf("%d / %d", data.VisibleFoliage, data.FoliageCount)
			}},
			{ID: "ornaments", Label: "Ornaments", Widget: WidgetText, TextGetter: func(d any) string {
				return fmt.Sprintf("%d", d.(*HUDData).OrnamentCount)
			}},
		},
	}
}

// Update advances the button glow. A state change restarts it.
func (h *HUD) Update(state components.TreeState, dt float32) {
	if h.seen && state != h.last {
		h.glow = gween.New(1, 0, glowDuration, ease.OutQuad)
	}
	h.last, h.seen = state, true

	if h.glow == nil {
		return
	}
	v, done := h.glow.Update(dt)
	h.glowValue = v
	if done {
		h.glow = nil
		h.glowValue = 0
	}
}

// ButtonBounds returns the toggle button rectangle for a screen size.
func ButtonBounds(screenWidth, screenHeight int32) rl.Rectangle {
	return rl.Rectangle{
		X:      float32(screenWidth-buttonWidth) / 2,
		Y:      float32(screenHeight) - 110,
		Width:  buttonWidth,
		Height: buttonHeight,
	}
}

// Draw renders the HUD and reports whether the toggle button was pressed.
func (h *HUD) Draw(data HUDData) bool {
	t := h.renderer.Theme
	w, ht := data.ScreenWidth, data.ScreenHeight

	h.drawCorners(w, ht)

	// Title block
	titleWidth := rl.MeasureText(data.Title, t.TitleFontSize)
	rl.DrawText(data.Title, (w-titleWidth)/2, 36, t.TitleFontSize, t.AccentBright)
	rl.DrawRectangle(w/2-48, 36+t.TitleFontSize+12, 96, 2, t.AccentBright)
	subWidth := rl.MeasureText(data.Subtitle, t.HeaderFontSize)
	rl.DrawText(data.Subtitle, (w-subWidth)/2, 36+t.TitleFontSize+24, t.HeaderFontSize, t.Accent)

	// Toggle button
	bounds := ButtonBounds(w, ht)
	if h.glowValue > 0 {
		pad := 12 * h.glowValue
		glowRect := rl.Rectangle{X: bounds.X - pad, Y: bounds.Y - pad, Width: bounds.Width + 2*pad, Height: bounds.Height + 2*pad}
		rl.DrawRectangleRec(glowRect, rl.Fade(t.AccentBright, 0.35*h.glowValue))
	}
	label := "ASSEMBLE"
	if data.State == components.StateFormed {
		label = "DISPERSE"
	}
	pressed := gui.Button(bounds, label)

	// Status line
	status := fmt.Sprintf("STATUS: %s", data.State)
	statusWidth := rl.MeasureText(status, t.FontSize)
	statusColor := lerpColor(rl.Fade(t.Accent, 0.6), rl.White, h.glowValue)
	rl.DrawText(status, (w-statusWidth)/2, int32(bounds.Y+bounds.Height)+14, t.FontSize, statusColor)

	// Scene panel
	panelW := int32(240)
	x, y := w-panelW-24, int32(24)
	h.renderer.DrawPanel(x, y, panelW, h.renderer.SectionHeight(h.scene, &data)+t.Padding*2)
	h.renderer.DrawSection(x+t.Padding, y+t.Padding, h.scene, &data, panelW-t.Padding*2)

	return pressed
}

// drawCorners draws the four decorative corner brackets.
func (h *HUD) drawCorners(w, ht int32) {
	c := rl.Fade(h.renderer.Theme.Accent, 0.3)
	const m, s, th = 16, cornerSize, 2

	rl.DrawRectangle(m, m, s, th, c)
	rl.DrawRectangle(m, m, th, s, c)
	rl.DrawRectangle(w-m-s, m, s, th, c)
	rl.DrawRectangle(w-m-th, m, th, s, c)
	rl.DrawRectangle(m, ht-m-th, s, th, c)
	rl.DrawRectangle(m, ht-m-s, th, s, c)
	rl.DrawRectangle(w-m-s, ht-m-th, s, th, c)
	rl.DrawRectangle(w-m-th, ht-m-s, th, s, c)
}

// DrawControls renders the control legend at the bottom of the screen.
func (h *HUD) DrawControls(screenHeight int32, controls string) {
	rl.DrawText(controls, 24, screenHeight-40, 12, rl.Gray)
}

// PerfPanel renders the per-phase frame timing panel.
type PerfPanel struct {
	renderer *Renderer
	x, y     int32
}

// NewPerfPanel creates a new performance panel.
func NewPerfPanel(x, y int32) *PerfPanel {
	return &PerfPanel{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
	}
}

// SetPosition updates the panel position.
func (p *PerfPanel) SetPosition(x, y int32) {
	p.x = x
	p.y = y
}

// Draw renders the performance panel.
func (p *PerfPanel) Draw(stats telemetry.PerfStats) {
	phases := telemetry.Phases()
	height := int32(len(phases))*14 + 64
	p.renderer.DrawPanel(p.x, p.y, 280, height)

	x := p.x + p.renderer.Theme.Padding
	y := p.y + p.renderer.Theme.Padding

	rl.DrawText("Frame Performance", x, y, 16, rl.White)
	y += 20

	rl.DrawText(fmt.Sprintf("Step: %s  FPS: %.0f", stats.AvgStepDuration.Round(time.Microsecond), stats.FPS), x, y, 14, p.renderer.Theme.AccentBright)
	y += 18

	for _, name := range phases {
		avg := stats.PhaseAvg[name]
		pct := stats.PhasePct[name]

		color := rl.LightGray
		if pct > 50 {
			color = rl.Red
		} else if pct > 25 {
			color = rl.Orange
		}

		rl.DrawText(
			fmt.Sprintf("%-18s %8s %5.1f%%", name, avg.Round(time.Microsecond), pct),
			x, y, 12, color,
		)
		y += 14
	}
}

// lerpColor interpolates between two colors.
func lerpColor(a, b rl.Color, t float32) rl.Color {
	return rl.Color{
		R: uint8(float32(a.R) + (float32(b.R)-float32(a.R))*t),
		G: uint8(float32(a.G) + (float32(b.G)-float32(a.G))*t),
		B: uint8(float32(a.B) + (float32(b.B)-float32(a.B))*t),
		A: uint8(float32(a.A) + (float32(b.A)-float32(a.A))*t),
	}
}
