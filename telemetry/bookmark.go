package telemetry

import (
	"fmt"
	"log/slog"

	"github.com/pthm-cable/evergreen/components"
)

// BookmarkType identifies the type of bookmark.
type BookmarkType string

const (
	BookmarkFormed    BookmarkType = "formed"
	BookmarkDispersed BookmarkType = "dispersed"
	BookmarkFrameDrop BookmarkType = "frame_drop"
)

// Bookmark represents an automatically triggered bookmark.
type Bookmark struct {
	Type        BookmarkType `csv:"type"`
	Elapsed     float64      `csv:"elapsed"`
	Description string       `csv:"description"`
}

// LogBookmark logs the bookmark using slog.
func (b Bookmark) LogBookmark() {
	slog.Info("bookmark",
		"type", string(b.Type),
		"elapsed", b.Elapsed,
		"description", b.Description,
	)
}

// BookmarkDetector detects milestones in the scene: a transition completing
// and sudden frame rate drops.
type BookmarkDetector struct {
	// Rolling history (circular buffer)
	history     []WindowStats
	historySize int
	historyIdx  int
	historyFull bool
	last        WindowStats
}

// NewBookmarkDetector creates a detector with the given history size.
func NewBookmarkDetector(historySize int) *BookmarkDetector {
	if historySize < 3 {
		historySize = 3 // minimum for a rolling frame rate average
	}
	return &BookmarkDetector{
		history:     make([]WindowStats, historySize),
		historySize: historySize,
	}
}

// Check analyzes the latest stats and returns any triggered bookmarks.
func (bd *BookmarkDetector) Check(stats WindowStats) []Bookmark {
	var bookmarks []Bookmark

	if bd.historyFull || bd.historyIdx > 0 {
		if b := bd.checkSettled(stats); b != nil {
			bookmarks = append(bookmarks, *b)
		}

		// Frame drop: fps < half the rolling average
		if b := bd.checkFrameDrop(stats); b != nil {
			bookmarks = append(bookmarks, *b)
		}
	}

	bd.addToHistory(stats)
	bd.last = stats

	return bookmarks
}

func (bd *BookmarkDetector) addToHistory(stats WindowStats) {
	bd.history[bd.historyIdx] = stats
	bd.historyIdx = (bd.historyIdx + 1) % bd.historySize
	if bd.historyIdx == 0 {
		bd.historyFull = true
	}
}

func (bd *BookmarkDetector) getHistory() []WindowStats {
	if bd.historyFull {
		return bd.history
	}
	return bd.history[:bd.historyIdx]
}

// isSettled reports whether the scene has finished moving towards its state.
func isSettled(s WindowStats) bool {
	if s.Settled < 0.99 {
		return false
	}
	if s.State == components.StateFormed.String() {
		return s.Progress >= 0.99
	}
	return s.Progress <= 0.01
}

// checkSettled fires once when a window first reaches the settled condition
// for its state.
func (bd *BookmarkDetector) checkSettled(stats WindowStats) *Bookmark {
	if !isSettled(stats) {
		return nil
	}
	if isSettled(bd.last) && bd.last.State == stats.State {
		return nil
	}

	typ := BookmarkDispersed
	if stats.State == components.StateFormed.String() {
		typ = BookmarkFormed
	}
	return &Bookmark{
		Type:        typ,
		Elapsed:     stats.WindowEnd,
		Description: fmt.Sprintf("%s settled: progress %.3f, %.0f%% of ornaments settled", stats.State, stats.Progress, stats.Settled*100),
	}
}

func (bd *BookmarkDetector) checkFrameDrop(stats WindowStats) *Bookmark {
	history := bd.getHistory()
	if len(history) < 3 {
		return nil
	}

	var totalFPS float64
	for _, h := range history {
		totalFPS += h.FPS
	}
	avgFPS := totalFPS / float64(len(history))
	if avgFPS == 0 {
		return nil
	}

	if stats.FPS < avgFPS*0.5 {
		return &Bookmark{
			Type:        BookmarkFrameDrop,
			Elapsed:     stats.WindowEnd,
			Description: fmt.Sprintf("Frame rate %.1f is %.0f%% of average (%.1f)", stats.FPS, stats.FPS/avgFPS*100, avgFPS),
		}
	}

	return nil
}
