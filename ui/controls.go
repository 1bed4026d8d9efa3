package ui

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// ControlsPanel renders the overlay toggles and key bindings.
type ControlsPanel struct {
	renderer *Renderer
	x, y     int32
	width    int32
	visible  bool
}

// NewControlsPanel creates a new controls panel.
func NewControlsPanel(x, y, width int32) *ControlsPanel {
	return &ControlsPanel{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
		width:    width,
	}
}

// SetPosition updates the panel position.
func (c *ControlsPanel) SetPosition(x, y int32) {
	c.x = x
	c.y = y
}

// Toggle switches panel visibility.
func (c *ControlsPanel) Toggle() bool {
	c.visible = !c.visible
	return c.visible
}

// Draw renders the controls panel.
func (c *ControlsPanel) Draw(overlays *OverlayRegistry) {
	if !c.visible {
		return
	}

	r := c.renderer
	padding := r.Theme.Padding
	lineHeight := r.Theme.LineHeight

	categories := overlays.Categories()
	totalItems := len(keyBindings) + 1
	for _, cat := range categories {
		totalItems += len(overlays.ByCategory(cat)) + 1
	}
	panelHeight := int32(totalItems)*lineHeight + padding*3 + lineHeight

	r.DrawPanel(c.x, c.y, c.width, panelHeight)

	y := c.y + padding
	rl.DrawText("Controls", c.x+padding, y, 16, rl.White)
	y += lineHeight + 4

	for _, category := range categories {
		rl.DrawText(categoryLabel(category), c.x+padding, y, r.Theme.HeaderFontSize, r.Theme.SectionHeader)
		y += lineHeight

		for _, desc := range overlays.ByCategory(category) {
			c.drawToggle(c.x+padding, y, desc, overlays.IsEnabled(desc.ID), c.width-padding*2)
			y += lineHeight
		}
		y += 4
	}

	rl.DrawText("Keys", c.x+padding, y, r.Theme.HeaderFontSize, r.Theme.SectionHeader)
	y += lineHeight
	for _, kb := range keyBindings {
		c.drawBinding(c.x+padding, y, kb[0], kb[1], c.width-padding*2)
		y += lineHeight
	}
}

// keyBindings are the fixed scene controls, label then key.
var keyBindings = [][2]string{
	{"Assemble / disperse", "Space"},
	{"Orbit", "Drag"},
	{"Zoom", "Wheel"},
	{"Reset camera", "R"},
	{"Select ornament", "[ ]"},
	{"Controls", "F1"},
}

func (c *ControlsPanel) drawToggle(x, y int32, desc OverlayDescriptor, enabled bool, width int32) {
	r := c.renderer

	statusColor := rl.Color{R: 80, G: 80, B: 80, A: 255}
	if enabled {
		statusColor = r.Theme.Accent
	}
	rl.DrawRectangle(x, y+2, 8, 8, statusColor)

	nameColor := r.Theme.LabelColor
	if enabled {
		nameColor = rl.White
	}
	rl.DrawText(desc.Name, x+14, y, r.Theme.FontSize, nameColor)

	if desc.KeyLabel != "" {
		c.drawKey(x, y, desc.KeyLabel, width)
	}
}

func (c *ControlsPanel) drawBinding(x, y int32, label, key string, width int32) {
	rl.DrawText(label, x+14, y, c.renderer.Theme.FontSize, c.renderer.Theme.LabelColor)
	c.drawKey(x, y, key, width)
}

// drawKey draws a right-aligned key label.
func (c *ControlsPanel) drawKey(x, y int32, key string, width int32) {
	keyText := fmt.Sprintf("[%s]", key)
	keyWidth := rl.MeasureText(keyText, c.renderer.Theme.FontSize)
	rl.DrawText(keyText, x+width-keyWidth, y, c.renderer.Theme.FontSize, rl.Color{R: 150, G: 150, B: 150, A: 255})
}

// categoryLabel returns a display label for a category.
func categoryLabel(cat string) string {
	switch cat {
	case "scene":
		return "Scene"
	case "debug":
		return "Debug"
	default:
		return cat
	}
}
