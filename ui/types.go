// Package ui provides a descriptor-driven HUD for the raylib window.
// Panels are described by field descriptors over a data value, so the
// layout can change alongside the scene without touching draw code.
package ui

import rl "github.com/gen2brain/raylib-go/raylib"

// WidgetType specifies how a field should be rendered.
type WidgetType int

const (
	WidgetText        WidgetType = iota // Plain text with format string
	WidgetBar                           // Progress bar [0, 1]
	WidgetColorSwatch                   // Color preview square
	WidgetSection                       // Section header
	WidgetSpacer                        // Vertical spacing
)

// FieldDescriptor defines how to display a single piece of data.
type FieldDescriptor struct {
	ID          string             // Unique identifier for the field
	Label       string             // Display label
	Widget      WidgetType         // How to render
	Format      string             // Printf format for text (e.g., "%.2f")
	Visible     func(any) bool     // Optional visibility check (nil = always visible)
	Getter      func(any) float32  // Value extractor (for numeric fields)
	TextGetter  func(any) string   // Value extractor (for text fields)
	ColorGetter func(any) rl.Color // Color extractor (for color swatches)
}

// SectionDescriptor defines a group of fields with a header.
type SectionDescriptor struct {
	ID      string
	Title   string
	Fields  []FieldDescriptor
	Visible func(any) bool
}

// Theme holds UI styling constants.
type Theme struct {
	PanelBg       rl.Color
	PanelBorder   rl.Color
	SectionHeader rl.Color
	LabelColor    rl.Color
	ValueColor    rl.Color
	Accent        rl.Color
	AccentBright  rl.Color
	BarBg         rl.Color
	BarFill       rl.Color

	Padding        int32
	LineHeight     int32
	LabelWidth     int32
	BarHeight      int32
	FontSize       int32
	HeaderFontSize int32
	TitleFontSize  int32
}

// DefaultTheme returns the gold-on-midnight theme.
func DefaultTheme() Theme {
	return Theme{
		PanelBg:        rl.Color{R: 2, G: 2, B: 5, A: 210},
		PanelBorder:    rl.Color{R: 212, G: 175, B: 55, A: 120},
		SectionHeader:  rl.Color{R: 212, G: 175, B: 55, A: 255},
		LabelColor:     rl.Color{R: 192, G: 192, B: 192, A: 255},
		ValueColor:     rl.White,
		Accent:         rl.Color{R: 212, G: 175, B: 55, A: 255},
		AccentBright:   rl.Color{R: 255, G: 215, B: 0, A: 255},
		BarBg:          rl.Color{R: 30, G: 30, B: 36, A: 255},
		BarFill:        rl.Color{R: 0, G: 107, B: 60, A: 255},
		Padding:        10,
		LineHeight:     16,
		LabelWidth:     90,
		BarHeight:      12,
		FontSize:       12,
		HeaderFontSize: 14,
		TitleFontSize:  36,
	}
}
