package telemetry

import (
	"log/slog"
	"math"
	"sort"
)

// WindowStats holds aggregated statistics for a time window.
type WindowStats struct {
	WindowStart float64 `csv:"-"`
	WindowEnd   float64 `csv:"window_end"` // elapsed seconds
	Frames      int     `csv:"frames"`
	FPS         float64 `csv:"fps"`

	// Scene state at window end
	State    string  `csv:"state"`
	Progress float64 `csv:"progress"`
	Toggles  int     `csv:"toggles"`

	// Foliage
	VisibleFoliage int `csv:"visible_foliage"`

	// Ornament distance to destination, as a fraction of the full path
	RemainingMean float64 `csv:"remaining_mean"`
	RemainingP50  float64 `csv:"remaining_p50"`
	RemainingP90  float64 `csv:"remaining_p90"`
	RemainingMax  float64 `csv:"remaining_max"`
	Settled       float64 `csv:"settled"` // fraction within SettledThreshold
}

// SettledThreshold is the remaining path fraction below which an ornament counts as settled.
const SettledThreshold = 0.01

// Percentile calculates the p-th percentile of a sorted slice.
// p should be in [0, 1]. Returns 0 if slice is empty.
func Percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if p <= 0 {
		return sorted[0]
	}
	if p >= 1 {
		return sorted[n-1]
	}

	// Linear interpolation
	idx := p * float64(n-1)
	lo := int(idx)
	hi := lo + 1
	if hi >= n {
		return sorted[n-1]
	}

	frac := idx - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}

// Distribution summarises a set of samples.
type Distribution struct {
	Mean, Std     float64
	P10, P50, P90 float64
	Max           float64
}

// ComputeDistribution calculates mean, std, percentiles and max. values is not modified.
func ComputeDistribution(values []float64) Distribution {
	n := len(values)
	if n == 0 {
		return Distribution{}
	}

	var sum float64
	for _, v := range values {
		sum += v
	}
	mean := sum / float64(n)

	var sqDiffSum float64
	for _, v := range values {
		d := v - mean
		sqDiffSum += d * d
	}

	sorted := make([]float64, n)
	copy(sorted, values)
	sort.Float64s(sorted)

	return Distribution{
		Mean: mean,
		Std:  math.Sqrt(sqDiffSum / float64(n)),
		P10:  Percentile(sorted, 0.10),
		P50:  Percentile(sorted, 0.50),
		P90:  Percentile(sorted, 0.90),
		Max:  sorted[n-1],
	}
}

// SettledFraction returns the fraction of values below SettledThreshold.
func SettledFraction(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	settled := 0
	for _, v := range values {
		if v < SettledThreshold {
			settled++
		}
	}
	return float64(settled) / float64(len(values))
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Float64("window_start", s.WindowStart),
		slog.Float64("window_end", s.WindowEnd),
		slog.Int("frames", s.Frames),
		slog.Float64("fps", s.FPS),
		slog.String("state", s.State),
		slog.Float64("progress", s.Progress),
		slog.Int("toggles", s.Toggles),
		slog.Int("visible_foliage", s.VisibleFoliage),
		slog.Float64("remaining_mean", s.RemainingMean),
		slog.Float64("remaining_p50", s.RemainingP50),
		slog.Float64("remaining_p90", s.RemainingP90),
		slog.Float64("remaining_max", s.RemainingMax),
		slog.Float64("settled", s.Settled),
	)
}

// LogStats logs the window stats using slog.
func (s WindowStats) LogStats() {
	slog.Info("stats",
		"window_end", s.WindowEnd,
		"frames", s.Frames,
		"fps", s.FPS,
		"state", s.State,
		"progress", s.Progress,
		"toggles", s.Toggles,
		"visible_foliage", s.VisibleFoliage,
		"remaining_mean", s.RemainingMean,
		"remaining_p90", s.RemainingP90,
		"settled", s.Settled,
	)
}
