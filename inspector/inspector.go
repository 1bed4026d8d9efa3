// Package inspector draws a reflection-driven panel for the components of
// one selected ornament.
package inspector

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/evergreen/camera"
	"github.com/pthm-cable/evergreen/systems"
)

// Panel dimensions
const (
	PanelWidth   = 320
	PanelPadding = 10
	HeaderHeight = 30
	lineHeight   = 18
	pickRadius   = 24 // pixels
)

// Panel colors
var (
	ColorPanelBg     = rl.Color{R: 2, G: 2, B: 5, A: 230}
	ColorPanelHeader = rl.Color{R: 0, G: 66, B: 37, A: 255}
	ColorPanelBorder = rl.Color{R: 212, G: 175, B: 55, A: 160}
	ColorHeaderText  = rl.Color{R: 255, G: 215, B: 0, A: 255}
	ColorSection     = rl.Color{R: 30, G: 30, B: 40, A: 255}
	ColorSectionText = rl.Color{R: 200, G: 200, B: 220, A: 255}
	ColorHighlight   = rl.Color{R: 255, G: 215, B: 0, A: 255}
)

// Inspector tracks the selected ornament slot.
type Inspector struct {
	selected    int
	hasSelected bool
	panelX      int32
	panelY      int32
}

// NewInspector creates an inspector whose panel sits at the left edge below
// the title area.
func NewInspector() *Inspector {
	return &Inspector{panelX: 24, panelY: 140}
}

// HandleInput selects by click or cycles the selection with [ and ].
// It reports whether the click was consumed.
func (ins *Inspector) HandleInput(mouseX, mouseY float32, count int, ornaments []systems.OrnamentInstance, view *camera.View) bool {
	if count == 0 {
		ins.Deselect()
		return false
	}

	if rl.IsKeyPressed(rl.KeyRightBracket) {
		ins.Select((ins.selected + 1) % count)
	}
	if rl.IsKeyPressed(rl.KeyLeftBracket) {
		ins.Select((ins.selected - 1 + count) % count)
	}
	if rl.IsMouseButtonPressed(rl.MouseButtonRight) {
		ins.Deselect()
		return false
	}
	if !rl.IsMouseButtonPressed(rl.MouseButtonLeft) {
		return false
	}

	if i, ok := Pick(mouseX, mouseY, ornaments, view); ok {
		ins.Select(i)
		return true
	}
	return false
}

// Pick returns the ornament nearest the camera whose projection lies within
// pickRadius pixels of (mouseX, mouseY).
func Pick(mouseX, mouseY float32, ornaments []systems.OrnamentInstance, view *camera.View) (int, bool) {
	best, bestDepth := -1, 0.0
	for i := range ornaments {
		sx, sy, depth, ok := view.ProjectVec(ornaments[i].Position)
		if !ok {
			continue
		}
		dx, dy := sx-float64(mouseX), sy-float64(mouseY)
		if dx*dx+dy*dy > pickRadius*pickRadius {
			continue
		}
		if best < 0 || depth < bestDepth {
			best, bestDepth = i, depth
		}
	}
	return best, best >= 0
}

// Select marks slot i as selected.
func (ins *Inspector) Select(i int) {
	ins.selected = i
	ins.hasSelected = true
}

// Deselect clears the current selection.
func (ins *Inspector) Deselect() {
	ins.hasSelected = false
}

// Selected returns the currently selected slot.
func (ins *Inspector) Selected() (int, bool) {
	return ins.selected, ins.hasSelected
}

// Draw renders one section per component of the selected ornament.
func (ins *Inspector) Draw(comps []any) {
	if !ins.hasSelected {
		return
	}
	if comps == nil {
		ins.Deselect()
		return
	}

	sections := make([][]Field, len(comps))
	height := int32(HeaderHeight + PanelPadding*2)
	for i, c := range comps {
		sections[i] = ExtractFields(c)
		height += 22 + int32(len(sections[i]))*lineHeight
	}

	rl.DrawRectangle(ins.panelX, ins.panelY, PanelWidth, height, ColorPanelBg)
	rl.DrawRectangleLinesEx(
		rl.Rectangle{X: float32(ins.panelX), Y: float32(ins.panelY), Width: PanelWidth, Height: float32(height)},
		1,
		ColorPanelBorder,
	)

	rl.DrawRectangle(ins.panelX, ins.panelY, PanelWidth, HeaderHeight, ColorPanelHeader)
	rl.DrawText(fmt.Sprintf("ORNAMENT #%d", ins.selected), ins.panelX+PanelPadding, ins.panelY+7, 16, ColorHeaderText)

	x := ins.panelX + PanelPadding
	y := ins.panelY + HeaderHeight + PanelPadding
	for i, c := range comps {
		ins.drawSectionHeader(x, y, ComponentName(c))
		y += 22
		for _, f := range sections[i] {
			y += DrawField(x, y, f)
		}
	}
}

// drawSectionHeader renders a section title.
func (ins *Inspector) drawSectionHeader(x, y int32, title string) {
	rl.DrawRectangle(x-2, y-2, PanelWidth-2*PanelPadding+4, 18, ColorSection)
	rl.DrawText(title, x+2, y, 14, ColorSectionText)
}

// DrawSelectionHighlight draws a wire sphere around the selected ornament and
// its path. Call it inside a 3D mode block; offset is the scene translation.
func (ins *Inspector) DrawSelectionHighlight(ornaments *systems.OrnamentSystem, offset rl.Vector3) {
	if !ins.hasSelected {
		return
	}
	el, ok := ornaments.Element(ins.selected)
	if !ok {
		ins.Deselect()
		return
	}
	inst := ornaments.Instances()[ins.selected]

	at := func(x, y, z float64) rl.Vector3 {
		return rl.Vector3{X: float32(x) + offset.X, Y: float32(y) + offset.Y, Z: float32(z) + offset.Z}
	}
	pos := at(inst.Position.X, inst.Position.Y, inst.Position.Z)
	rl.DrawSphereWires(pos, float32(inst.Scale)*1.4, 8, 8, ColorHighlight)
	rl.DrawLine3D(at(el.Chaos.X, el.Chaos.Y, el.Chaos.Z), at(el.Target.X, el.Target.Y, el.Target.Z), rl.Fade(ColorHighlight, 0.5))
}
