package telemetry

import (
	"math"
	"testing"
)

func TestCollector_Window(t *testing.T) {
	c := NewCollector(2)

	elapsed := 0.0
	for !c.ShouldFlush(elapsed) {
		c.RecordFrame()
		elapsed += 0.5
	}
	c.RecordToggle()

	stats := c.Flush(elapsed, Sample{
		State:          "FORMED",
		Progress:       0.4,
		VisibleFoliage: 1200,
		Remaining:      []float64{0, 0.5, 1},
	})

	if stats.Frames != 4 || stats.Toggles != 1 {
		t.Errorf("expected 4 frames and 1 toggle, got %d and %d", stats.Frames, stats.Toggles)
	}
	if math.Abs(stats.FPS-2) > 1e-9 {
		t.Errorf("expected 2 fps over a 2s window, got %v", stats.FPS)
	}
	if stats.RemainingMean != 0.5 || stats.RemainingMax != 1 {
		t.Errorf("unexpected remaining distribution: %+v", stats)
	}
	if math.Abs(stats.Settled-1.0/3) > 1e-9 {
		t.Errorf("expected a third settled, got %v", stats.Settled)
	}

	// Counters reset and the next window starts at the flush time
	if c.ShouldFlush(elapsed + 1) {
		t.Error("expected new window to start at the flush time")
	}
	next := c.Flush(elapsed+2, Sample{})
	if next.Frames != 0 || next.Toggles != 0 || next.WindowStart != elapsed {
		t.Errorf("expected reset counters, got %+v", next)
	}
}

func TestNewCollector_InvalidWindow(t *testing.T) {
	c := NewCollector(0)
	if c.WindowDuration() != 1 {
		t.Errorf("expected fallback window of 1s, got %v", c.WindowDuration())
	}
}
