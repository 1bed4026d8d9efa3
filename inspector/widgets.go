package inspector

import (
	"fmt"
	"image/color"

	rl "github.com/gen2brain/raylib-go/raylib"
	"gonum.org/v1/gonum/spatial/r3"
)

// Widget colors
var (
	ColorBarBg    = rl.Color{R: 40, G: 40, B: 40, A: 255}
	ColorBarFill  = rl.Color{R: 0, G: 107, B: 60, A: 255}
	ColorBarLow   = rl.Color{R: 128, G: 0, B: 32, A: 255}
	ColorText     = rl.Color{R: 220, G: 220, B: 220, A: 255}
	ColorTextDim  = rl.Color{R: 150, G: 150, B: 150, A: 255}
	ColorBoolOn   = rl.Color{R: 212, G: 175, B: 55, A: 255}
	ColorBoolOff  = rl.Color{R: 80, G: 80, B: 80, A: 255}
	ColorVecAxisX = rl.Color{R: 220, G: 90, B: 90, A: 255}
	ColorVecAxisY = rl.Color{R: 90, G: 200, B: 90, A: 255}
	ColorVecAxisZ = rl.Color{R: 90, G: 130, B: 230, A: 255}
)

// DrawLabel renders a text value.
func DrawLabel(x, y int32, name string, value interface{}, options map[string]string) int32 {
	text := FormatValue(value, options["fmt"])
	rl.DrawText(fmt.Sprintf("%s: %s", name, text), x, y, 14, ColorText)
	return 18
}

// DrawBar renders a horizontal progress bar.
func DrawBar(x, y int32, name string, value float32, options map[string]string) int32 {
	maxVal := GetMax(options)
	ratio := value / maxVal
	if ratio > 1 {
		ratio = 1
	}
	if ratio < 0 {
		ratio = 0
	}

	barWidth := int32(120)
	barHeight := int32(14)

	rl.DrawText(name, x, y, 14, ColorTextDim)

	barX := x + 80
	rl.DrawRectangle(barX, y, barWidth, barHeight, ColorBarBg)

	fillWidth := int32(float32(barWidth) * ratio)
	rl.DrawRectangle(barX, y, fillWidth, barHeight, lerpColor(ColorBarLow, ColorBarFill, ratio))

	rl.DrawText(fmt.Sprintf("%.2f", value), barX+barWidth+5, y, 14, ColorTextDim)

	return 18
}

// DrawVec renders a vector as coloured components.
func DrawVec(x, y int32, name string, v r3.Vec) int32 {
	rl.DrawText(name, x, y, 14, ColorTextDim)

	cx := x + 80
	for i, c := range []struct {
		val   float64
		color rl.Color
	}{{v.X, ColorVecAxisX}, {v.Y, ColorVecAxisY}, {v.Z, ColorVecAxisZ}} {
		rl.DrawText(fmt.Sprintf("%6.2f", c.val), cx+int32(i)*66, y, 14, c.color)
	}
	return 18
}

// DrawColor renders a swatch with its hex value.
func DrawColor(x, y int32, name string, c color.RGBA) int32 {
	rl.DrawText(name, x, y, 14, ColorTextDim)

	swatchX := x + 80
	rl.DrawRectangle(swatchX, y, 14, 14, rl.Color{R: c.R, G: c.G, B: c.B, A: 255})
	rl.DrawRectangleLines(swatchX, y, 14, 14, ColorTextDim)
	rl.DrawText(FormatValue(c, ""), swatchX+20, y, 14, ColorText)
	return 18
}

// DrawBool renders an on/off indicator.
func DrawBool(x, y int32, name string, value bool) int32 {
	rl.DrawText(name, x, y, 14, ColorTextDim)

	indicatorX := x + 80
	indicatorSize := int32(14)

	color := ColorBoolOff
	text := "OFF"
	if value {
		color = ColorBoolOn
		text = "ON"
	}

	rl.DrawRectangle(indicatorX, y, indicatorSize, indicatorSize, color)
	rl.DrawText(text, indicatorX+indicatorSize+5, y, 14, color)

	return 18
}

// DrawField renders a field using its widget type.
func DrawField(x, y int32, field Field) int32 {
	switch field.Widget {
	case WidgetBar:
		if v, ok := GetFloatValue(field.Value); ok {
			return DrawBar(x, y, field.Name, v, field.Options)
		}

	case WidgetVec:
		if v, ok := field.Value.(r3.Vec); ok {
			return DrawVec(x, y, field.Name, v)
		}

	case WidgetColor:
		if c, ok := field.Value.(color.RGBA); ok {
			return DrawColor(x, y, field.Name, c)
		}

	case WidgetBool:
		if v, ok := field.Value.(bool); ok {
			return DrawBool(x, y, field.Name, v)
		}
	}
	return DrawLabel(x, y, field.Name, field.Value, field.Options)
}

// lerpColor interpolates between two colors.
func lerpColor(a, b rl.Color, t float32) rl.Color {
	return rl.Color{
		R: uint8(float32(a.R) + (float32(b.R)-float32(a.R))*t),
		G: uint8(float32(a.G) + (float32(b.G)-float32(a.G))*t),
		B: uint8(float32(a.B) + (float32(b.B)-float32(a.B))*t),
		A: 255,
	}
}
