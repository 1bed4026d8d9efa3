// Package main provides CMA-ES tuning of the chaos/formed morph timing.
package main

import (
	"github.com/pthm-cable/evergreen/config"
)

// ParamSpec defines a single optimizable parameter.
type ParamSpec struct {
	Name    string  // Human-readable name
	Path    string  // Config path for logging
	Min     float64 // Lower bound
	Max     float64 // Upper bound
	Default float64 // Default value
}

// ParamVector holds the set of all optimizable parameters.
type ParamVector struct {
	Specs []ParamSpec
}

// NewParamVector creates the standard set of optimizable parameters.
func NewParamVector() *ParamVector {
	return &ParamVector{
		Specs: []ParamSpec{
			// Foliage
			{Name: "progress_rate", Path: "foliage.progress_rate", Min: 0.2, Max: 3.0, Default: 0.8},
			{Name: "lead", Path: "foliage.lead", Min: 1.0, Max: 1.6, Default: 1.2},
			{Name: "stagger", Path: "foliage.stagger", Min: 0.05, Max: 0.4, Default: 0.2},
			// Ornaments
			{Name: "base_speed", Path: "ornaments.base_speed", Min: 0.2, Max: 20.0, Default: 1.0},
		},
	}
}

// Dim returns the number of parameters.
func (pv *ParamVector) Dim() int {
	return len(pv.Specs)
}

// DefaultVector returns the default parameter values as a slice.
func (pv *ParamVector) DefaultVector() []float64 {
	v := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		v[i] = spec.Default
	}
	return v
}

// Normalize converts raw parameter values to [0,1] range.
func (pv *ParamVector) Normalize(raw []float64) []float64 {
	normalized := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		normalized[i] = (raw[i] - spec.Min) / (spec.Max - spec.Min)
	}
	return normalized
}

// Denormalize converts [0,1] values back to raw parameter values.
func (pv *ParamVector) Denormalize(normalized []float64) []float64 {
	raw := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		raw[i] = spec.Min + normalized[i]*(spec.Max-spec.Min)
	}
	return raw
}

// Clamp ensures all values are within bounds.
func (pv *ParamVector) Clamp(v []float64) []float64 {
	clamped := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		val := v[i]
		if val < spec.Min {
			val = spec.Min
		}
		if val > spec.Max {
			val = spec.Max
		}
		clamped[i] = val
	}
	return clamped
}

// ApplyToConfig applies parameter values to a Config and recomputes its
// derived values. Order must match Specs order.
func (pv *ParamVector) ApplyToConfig(cfg *config.Config, values []float64) error {
	clamped := pv.Clamp(values)

	cfg.Foliage.ProgressRate = clamped[0]
	cfg.Foliage.Lead = clamped[1]
	cfg.Foliage.Stagger = clamped[2]
	cfg.Ornaments.BaseSpeed = clamped[3]

	return cfg.Refresh()
}

// ExtractFromConfig extracts current parameter values from a Config.
func (pv *ParamVector) ExtractFromConfig(cfg *config.Config) []float64 {
	return []float64{
		cfg.Foliage.ProgressRate,
		cfg.Foliage.Lead,
		cfg.Foliage.Stagger,
		cfg.Ornaments.BaseSpeed,
	}
}
