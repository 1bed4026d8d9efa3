package main

import (
	"github.com/tanema/gween/ease"

	"github.com/pthm-cable/evergreen/config"
	"github.com/pthm-cable/evergreen/systems"
)

// previewPhases are the foliage phases plotted as separate curves.
var previewPhases = []float32{0, 0.25, 0.5, 0.75, 1}

// MorphParams holds the slider-controlled morph parameters.
type MorphParams struct {
	ProgressRate float32
	Lead         float32
	Stagger      float32
	TipThreshold float32
	BaseSpeed    float32
}

// paramsFromConfig reads the slider values from a config.
func paramsFromConfig(cfg *config.Config) MorphParams {
	return MorphParams{
		ProgressRate: float32(cfg.Foliage.ProgressRate),
		Lead:         float32(cfg.Foliage.Lead),
		Stagger:      float32(cfg.Foliage.Stagger),
		TipThreshold: float32(cfg.Foliage.TipThreshold),
		BaseSpeed:    float32(cfg.Ornaments.BaseSpeed),
	}
}

// kernel returns foliage kernel params with the slider values applied.
func (m MorphParams) kernel(cfg *config.Config) systems.FoliageParams {
	p := systems.FoliageParamsFromConfig(cfg)
	p.Lead = m.Lead
	p.Stagger = m.Stagger
	p.TipThreshold = m.TipThreshold
	return p
}

// localCurve samples eased local progress against global progress in [0,1].
func localCurve(p *systems.FoliageParams, phase float32, samples int) []float32 {
	out := make([]float32, samples)
	for i := range out {
		g := float32(i) / float32(samples-1)
		out[i] = ease.InOutCubic(p.Local(g, phase), 0, 1, 1)
	}
	return out
}

// progressCurve samples global progress over duration seconds after a toggle
// to FORMED, stepping at dt the way the scene does.
func progressCurve(rate, duration, dt float32, samples int) []float32 {
	return approachCurve(rate, duration, dt, samples, func(v float32) float32 { return v })
}

// remainingCurve samples an ornament's remaining path fraction over duration
// seconds for the given effective speed (weight times base speed).
func remainingCurve(speed, duration, dt float32, samples int) []float32 {
	return approachCurve(speed, duration, dt, samples, func(v float32) float32 { return 1 - v })
}

// approachCurve steps v towards 1 with factor min(1, rate*dt) and samples it
// evenly over duration.
func approachCurve(rate, duration, dt float32, samples int, f func(float32) float32) []float32 {
	out := make([]float32, samples)
	k := rate * dt
	if k > 1 {
		k = 1
	}
	var v, t float32
	for i := range out {
		until := duration * float32(i) / float32(samples-1)
		for t+dt <= until {
			v += (1 - v) * k
			t += dt
		}
		out[i] = f(v)
	}
	return out
}

// settleTime returns the first time a curve sampled over duration reaches
// at least target, or -1.
func settleTime(curve []float32, duration, target float32) float32 {
	for i, v := range curve {
		if v >= target {
			return duration * float32(i) / float32(len(curve)-1)
		}
	}
	return -1
}
