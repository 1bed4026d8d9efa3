package telemetry

// Sample is the scene state the collector reads when a window closes.
type Sample struct {
	State          string
	Progress       float64
	VisibleFoliage int
	// Remaining holds each ornament's distance to its destination as a
	// fraction of its full path.
	Remaining []float64
}

// Collector accumulates frame and toggle counts within time windows and
// produces WindowStats.
type Collector struct {
	windowDurationSec float64

	// Current window tracking
	windowStart float64

	// Event counters for current window
	frames  int
	toggles int
}

// NewCollector creates a new stats collector.
// windowDurationSec: how long each stats window lasts in elapsed scene seconds.
func NewCollector(windowDurationSec float64) *Collector {
	if windowDurationSec <= 0 {
		windowDurationSec = 1
	}
	return &Collector{windowDurationSec: windowDurationSec}
}

// RecordFrame records one stepped frame.
func (c *Collector) RecordFrame() {
	c.frames++
}

// RecordToggle records a state toggle.
func (c *Collector) RecordToggle() {
	c.toggles++
}

// ShouldFlush returns true if enough time has passed to flush the window.
func (c *Collector) ShouldFlush(elapsed float64) bool {
	return elapsed-c.windowStart >= c.windowDurationSec
}

// Flush produces a WindowStats and resets counters for the next window.
func (c *Collector) Flush(elapsed float64, s Sample) WindowStats {
	dist := ComputeDistribution(s.Remaining)

	var fps float64
	if span := elapsed - c.windowStart; span > 0 {
		fps = float64(c.frames) / span
	}

	stats := WindowStats{
		WindowStart: c.windowStart,
		WindowEnd:   elapsed,
		Frames:      c.frames,
		FPS:         fps,

		State:    s.State,
		Progress: s.Progress,
		Toggles:  c.toggles,

		VisibleFoliage: s.VisibleFoliage,

		RemainingMean: dist.Mean,
		RemainingP50:  dist.P50,
		RemainingP90:  dist.P90,
		RemainingMax:  dist.Max,
		Settled:       SettledFraction(s.Remaining),
	}

	// Reset for next window
	c.windowStart = elapsed
	c.frames = 0
	c.toggles = 0

	return stats
}

// WindowDuration returns the window length in seconds.
func (c *Collector) WindowDuration() float64 {
	return c.windowDurationSec
}
