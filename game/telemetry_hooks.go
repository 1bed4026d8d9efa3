package game

import (
	"log/slog"

	"github.com/pthm-cable/evergreen/telemetry"
)

// flushTelemetry checks if the stats window should be flushed and handles bookmarks.
func (g *Game) flushTelemetry() {
	if !g.collector.ShouldFlush(g.elapsed) {
		return
	}

	state := g.controller.State()
	g.remaining = g.ornaments.Remaining(state, g.remaining)

	stats := g.collector.Flush(g.elapsed, telemetry.Sample{
		State:          state.String(),
		Progress:       float64(g.foliage.Progress()),
		VisibleFoliage: g.visibleFoliage(),
		Remaining:      g.remaining,
	})
	perfStats := g.perfCollector.Stats()

	// Log stats if enabled (console output)
	if g.logStats {
		stats.LogStats()
		perfStats.LogStats()
	}

	// Write to CSV if output manager is enabled
	if g.outputManager != nil {
		if err := g.outputManager.WriteTelemetry(stats); err != nil {
			slog.Error("failed to write telemetry", "error", err)
		}
		if err := g.outputManager.WritePerf(perfStats, stats.WindowEnd); err != nil {
			slog.Error("failed to write perf", "error", err)
		}
	}

	// Check for bookmarks
	for _, bm := range g.bookmarkDetector.Check(stats) {
		if g.logStats {
			bm.LogBookmark()
		}
		if g.outputManager != nil {
			if err := g.outputManager.WriteBookmark(bm); err != nil {
				slog.Error("failed to write bookmark", "error", err)
			}
		}
	}
}

// visibleFoliage counts elements in front of the camera this frame.
func (g *Game) visibleFoliage() int {
	n := 0
	for _, v := range g.foliage.Out.Visible {
		if v {
			n++
		}
	}
	return n
}
