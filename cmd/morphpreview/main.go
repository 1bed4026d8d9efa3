// Morph timing preview tool - interactive curves with sliders.
//
// Usage: go run ./cmd/morphpreview [-config path]
package main

import (
	"flag"
	"fmt"
	"image/color"
	"strings"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/evergreen/components"
	"github.com/pthm-cable/evergreen/config"
)

const (
	windowWidth  = 1100
	windowHeight = 760
	plotWidth    = 620
	plotHeight   = 300
	panelWidth   = windowWidth - plotWidth - 60

	samples  = 200
	duration = 15.0 // seconds plotted after a toggle
	stepDT   = 1.0 / 60
)

var (
	bgColor   = color.RGBA{R: 2, G: 2, B: 5, A: 255}
	gridColor = color.RGBA{R: 40, G: 40, B: 48, A: 255}
	textColor = color.RGBA{R: 200, G: 200, B: 200, A: 255}
	dimColor  = color.RGBA{R: 130, G: 130, B: 140, A: 255}
)

// slider describes one parameter row in the panel.
type slider struct {
	label    string
	min, max float32
	format   string
	value    *float32
}

func main() {
	configPath := flag.String("config", "", "Config YAML file (empty = use defaults)")
	flag.Parse()

	config.MustInit(*configPath)
	cfg := config.Cfg()
	defaults := paramsFromConfig(cfg)
	params := defaults

	rl.InitWindow(windowWidth, windowHeight, "Morph Timing Preview")
	defer rl.CloseWindow()
	rl.SetTargetFPS(30)

	sliders := []slider{
		{"Progress rate (per second)", 0.1, 5, "%.2f", &params.ProgressRate},
		{"Lead (progress multiplier)", 1, 2, "%.2f", &params.Lead},
		{"Stagger (max phase delay)", 0, 0.8, "%.2f", &params.Stagger},
		{"Tip threshold (phase)", 0.5, 1, "%.2f", &params.TipThreshold},
		{"Ornament base speed", 0.1, 20, "%.1f", &params.BaseSpeed},
	}

	for !rl.WindowShouldClose() {
		kernel := params.kernel(cfg)
		progress := progressCurve(params.ProgressRate, duration, stepDT, samples)

		rl.BeginDrawing()
		rl.ClearBackground(bgColor)

		// Local progress against global progress, one curve per phase
		top := plotRect(20, 20)
		drawAxes(top, "global progress", "eased local")
		for _, phase := range previewPhases {
			drawCurve(top, localCurve(&kernel, phase, samples), kernel.ColorFor(phase))
		}

		// Global progress and per-kind ornament remaining over time
		bottom := plotRect(20, 60+plotHeight)
		drawAxes(bottom, fmt.Sprintf("seconds after toggle (0-%.0f)", duration), "progress / remaining")
		drawCurve(bottom, progress, components.RGBA(cfg.Color("emerald_bright")))
		legendY := int32(bottom.Y) + 8
		for _, name := range []string{config.KindGift, config.KindBauble, config.KindLight} {
			kind := cfg.Derived.Kinds[name]
			speed := float32(kind.Weight) * params.BaseSpeed
			col := components.RGBA(kind.Colors[0])
			drawCurve(bottom, remainingCurve(speed, duration, stepDT, samples), col)

			settle := settleTime(progressCurve(speed, duration, stepDT, samples), duration, 0.99)
			rl.DrawText(fmt.Sprintf("%s: %s", kind.Name, formatSettle(settle)), int32(bottom.X+bottom.Width)-150, legendY, 14, col)
			legendY += 18
		}

		// Settle summary: the slowest element has phase 1
		foliageSettle := settleTime(progress, duration, (1+kernel.Stagger-0.01)/kernel.Lead)
		rl.DrawText(fmt.Sprintf("Foliage settles: %s", formatSettle(foliageSettle)), 20, windowHeight-30, 16, textColor)

		// Parameter panel
		panelX := float32(plotWidth + 50)
		panelY := float32(20)
		rl.DrawText("Morph Parameters", int32(panelX), int32(panelY), 20, textColor)
		panelY += 35

		for _, s := range sliders {
			rl.DrawText(s.label, int32(panelX), int32(panelY), 14, dimColor)
			panelY += 18
			*s.value = gui.SliderBar(
				rl.Rectangle{X: panelX, Y: panelY, Width: float32(panelWidth - 80), Height: 20},
				fmt.Sprintf("%g", s.min), fmt.Sprintf("%g", s.max),
				*s.value, s.min, s.max,
			)
			rl.DrawText(fmt.Sprintf(s.format, *s.value), int32(panelX+float32(panelWidth-70)), int32(panelY+2), 16, textColor)
			panelY += 35
		}

		if gui.Button(rl.Rectangle{X: panelX, Y: panelY, Width: 120, Height: 30}, "Reset All") {
			params = defaults
		}
		panelY += 50

		// Output YAML
		rl.DrawText("YAML Config:", int32(panelX), int32(panelY), 16, textColor)
		panelY += 25
		for _, line := range yamlLines(params) {
			rl.DrawText(line, int32(panelX), int32(panelY), 14, dimColor)
			panelY += 16
		}

		rl.DrawText("Press C to copy YAML to clipboard", int32(panelX), int32(windowHeight-30), 12, dimColor)
		if rl.IsKeyPressed(rl.KeyC) {
			rl.SetClipboardText(yamlText(params))
		}

		rl.EndDrawing()
	}
}

func plotRect(x, y float32) rl.Rectangle {
	return rl.Rectangle{X: x, Y: y, Width: plotWidth, Height: plotHeight}
}

func drawAxes(r rl.Rectangle, xLabel, yLabel string) {
	rl.DrawRectangleLinesEx(r, 1, gridColor)
	for i := 1; i < 4; i++ {
		y := r.Y + r.Height*float32(i)/4
		rl.DrawLine(int32(r.X), int32(y), int32(r.X+r.Width), int32(y), gridColor)
	}
	rl.DrawText(xLabel, int32(r.X), int32(r.Y+r.Height)+4, 12, dimColor)
	rl.DrawText(yLabel, int32(r.X)+4, int32(r.Y)+4, 12, dimColor)
}

// drawCurve plots values in [0,1] across the rectangle.
func drawCurve(r rl.Rectangle, values []float32, c color.RGBA) {
	n := len(values)
	for i := 1; i < n; i++ {
		x0 := r.X + r.Width*float32(i-1)/float32(n-1)
		x1 := r.X + r.Width*float32(i)/float32(n-1)
		y0 := r.Y + r.Height*(1-values[i-1])
		y1 := r.Y + r.Height*(1-values[i])
		rl.DrawLineEx(rl.Vector2{X: x0, Y: y0}, rl.Vector2{X: x1, Y: y1}, 2, c)
	}
}

func formatSettle(t float32) string {
	if t < 0 {
		return fmt.Sprintf("> %.0fs", duration)
	}
	return fmt.Sprintf("%.2fs", t)
}

func yamlLines(m MorphParams) []string {
	return []string{
		"foliage:",
		fmt.Sprintf("  progress_rate: %.2f", m.ProgressRate),
		fmt.Sprintf("  lead: %.2f", m.Lead),
		fmt.Sprintf("  stagger: %.2f", m.Stagger),
		fmt.Sprintf("  tip_threshold: %.2f", m.TipThreshold),
		"ornaments:",
		fmt.Sprintf("  base_speed: %.1f", m.BaseSpeed),
	}
}

func yamlText(m MorphParams) string {
	return strings.Join(yamlLines(m), "\n")
}
