package ui

import (
	rl "github.com/gen2brain/raylib-go/raylib"
)

// OverlayID uniquely identifies a toggleable layer.
type OverlayID string

// Standard overlay IDs.
const (
	OverlayStars     OverlayID = "stars"
	OverlayFoliage   OverlayID = "foliage"
	OverlayOrnaments OverlayID = "ornaments"
	OverlayHUD       OverlayID = "hud"
	OverlayPerf      OverlayID = "perf"
	OverlayInspector OverlayID = "inspector"
	OverlayTargets   OverlayID = "targets"
)

// OverlayDescriptor defines a layer that can be toggled.
type OverlayDescriptor struct {
	ID          OverlayID
	Name        string
	Description string
	Key         int32  // Keyboard key to toggle (0 = no key)
	KeyLabel    string // Key label for display (e.g., "S", "V")
	Category    string // Grouping (e.g., "scene", "debug")
	Default     bool   // Enabled at startup
}

// OverlayRegistry manages overlay state and metadata.
type OverlayRegistry struct {
	descriptors []OverlayDescriptor
	byID        map[OverlayID]OverlayDescriptor
	enabled     map[OverlayID]bool
}

// NewOverlayRegistry creates a registry with default overlays.
func NewOverlayRegistry() *OverlayRegistry {
	reg := &OverlayRegistry{
		byID:    make(map[OverlayID]OverlayDescriptor),
		enabled: make(map[OverlayID]bool),
	}
	reg.registerDefaults()
	return reg
}

func (r *OverlayRegistry) registerDefaults() {
	// Scene layers
	r.Register(OverlayDescriptor{
		ID:          OverlayStars,
		Name:        "Stars",
		Description: "Background star shell",
		Key:         rl.KeyOne,
		KeyLabel:    "1",
		Category:    "scene",
		Default:     true,
	})
	r.Register(OverlayDescriptor{
		ID:          OverlayFoliage,
		Name:        "Foliage",
		Description: "Needle particles",
		Key:         rl.KeyTwo,
		KeyLabel:    "2",
		Category:    "scene",
		Default:     true,
	})
	r.Register(OverlayDescriptor{
		ID:          OverlayOrnaments,
		Name:        "Ornaments",
		Description: "Gifts, baubles and lights",
		Key:         rl.KeyThree,
		KeyLabel:    "3",
		Category:    "scene",
		Default:     true,
	})
	r.Register(OverlayDescriptor{
		ID:          OverlayHUD,
		Name:        "HUD",
		Description: "Title, status and toggle button",
		Key:         rl.KeyH,
		KeyLabel:    "H",
		Category:    "scene",
		Default:     true,
	})

	// Debug layers
	r.Register(OverlayDescriptor{
		ID:          OverlayPerf,
		Name:        "Performance",
		Description: "Per-phase frame timing",
		Key:         rl.KeyP,
		KeyLabel:    "P",
		Category:    "debug",
	})
	r.Register(OverlayDescriptor{
		ID:          OverlayInspector,
		Name:        "Inspector",
		Description: "Component fields of the selected ornament",
		Key:         rl.KeyI,
		KeyLabel:    "I",
		Category:    "debug",
	})
	r.Register(OverlayDescriptor{
		ID:          OverlayTargets,
		Name:        "Targets",
		Description: "Ornament chaos and tree endpoints",
		Key:         rl.KeyT,
		KeyLabel:    "T",
		Category:    "debug",
	})
}

// Register adds an overlay to the registry.
func (r *OverlayRegistry) Register(desc OverlayDescriptor) {
	r.descriptors = append(r.descriptors, desc)
	r.byID[desc.ID] = desc
	r.enabled[desc.ID] = desc.Default
}

// Toggle switches an overlay on/off.
func (r *OverlayRegistry) Toggle(id OverlayID) bool {
	if _, ok := r.byID[id]; !ok {
		return false
	}
	r.enabled[id] = !r.enabled[id]
	return r.enabled[id]
}

// IsEnabled returns whether an overlay is active.
func (r *OverlayRegistry) IsEnabled(id OverlayID) bool {
	return r.enabled[id]
}

// ByCategory returns overlays filtered by category.
func (r *OverlayRegistry) ByCategory(category string) []OverlayDescriptor {
	var result []OverlayDescriptor
	for _, desc := range r.descriptors {
		if desc.Category == category {
			result = append(result, desc)
		}
	}
	return result
}

// Categories returns all unique categories in order.
func (r *OverlayRegistry) Categories() []string {
	seen := make(map[string]bool)
	var cats []string
	for _, desc := range r.descriptors {
		if !seen[desc.Category] {
			seen[desc.Category] = true
			cats = append(cats, desc.Category)
		}
	}
	return cats
}

// HandleKeys toggles every overlay whose key was pressed this frame.
func (r *OverlayRegistry) HandleKeys() {
	for _, desc := range r.descriptors {
		if desc.Key != 0 && rl.IsKeyPressed(desc.Key) {
			r.Toggle(desc.ID)
		}
	}
}
