// Package components defines ECS components and shared value types for the scene.
package components

import (
	"image/color"

	"github.com/lucasb-eyer/go-colorful"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/evergreen/config"
)

// Kind identifies an ornament variant.
type Kind uint8

const (
	KindBauble Kind = iota
	KindGift
	KindLight
	numKinds
)

// String returns the kind's config name.
func (k Kind) String() string {
	switch k {
	case KindGift:
		return config.KindGift
	case KindLight:
		return config.KindLight
	default:
		return config.KindBauble
	}
}

// Slot is the ornament's index in per-frame instance output.
type Slot struct {
	Index int `inspect:"label"`
}

// Morph holds the fixed endpoints of an ornament's interpolation path.
type Morph struct {
	Chaos  r3.Vec `inspect:"vec"`
	Target r3.Vec `inspect:"vec"`
}

// Position is the live interpolated position. It always lies on the Morph segment.
type Position struct {
	Current r3.Vec `inspect:"vec"`
}

// Spin is continuous self-rotation about a fixed unit axis.
type Spin struct {
	Axis  r3.Vec  `inspect:"vec"`
	Speed float64 `inspect:"label,fmt:%.2f"` // radians per second
}

// Ornament holds the categorical attributes fixed at generation.
type Ornament struct {
	Kind   Kind       `inspect:"label"`
	Weight float64    `inspect:"bar,max:1"` // interpolation speed multiplier, higher is faster
	Scale  float64    `inspect:"label,fmt:%.2f"`
	Color  color.RGBA `inspect:"color"`
}

// KindTraits holds the static attributes looked up once per ornament at generation.
type KindTraits struct {
	Weight float64
	Scale  float64
	Colors []color.RGBA
}

// KindTable maps every Kind to its traits.
type KindTable [numKinds]KindTraits

// NewKindTable resolves the configured kinds.
func NewKindTable(cfg *config.Config) KindTable {
	var t KindTable
	for k := Kind(0); k < numKinds; k++ {
		src := cfg.Derived.Kinds[k.String()]
		traits := KindTraits{Weight: src.Weight, Scale: src.Scale}
		for _, c := range src.Colors {
			traits.Colors = append(traits.Colors, RGBA(c))
		}
		t[k] = traits
	}
	return t
}

// Get returns the traits for a kind.
func (t *KindTable) Get(k Kind) *KindTraits {
	return &t[k]
}

// KindForRoll classifies a uniform roll: below giftBelow is a gift, above
// lightAbove is a light, anything else is a bauble.
func KindForRoll(roll, giftBelow, lightAbove float64) Kind {
	switch {
	case roll < giftBelow:
		return KindGift
	case roll > lightAbove:
		return KindLight
	default:
		return KindBauble
	}
}

// RGBA converts a colorful colour to an opaque 8-bit colour.
func RGBA(c colorful.Color) color.RGBA {
	r, g, b := c.Clamped().RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 255}
}
