package telemetry

import (
	"testing"
)

func hasBookmark(bookmarks []Bookmark, typ BookmarkType) bool {
	for _, bm := range bookmarks {
		if bm.Type == typ {
			return true
		}
	}
	return false
}

func TestBookmarkDetector_FormedOnce(t *testing.T) {
	bd := NewBookmarkDetector(10)

	// Settled in chaos from the start: no milestone without prior movement
	for i := 0; i < 3; i++ {
		got := bd.Check(WindowStats{WindowEnd: float64(i), State: "CHAOS", Progress: 0, Settled: 1, FPS: 60})
		if len(got) != 0 {
			t.Fatalf("window %d: expected no bookmarks, got %+v", i, got)
		}
	}

	// Toggle and move
	bd.Check(WindowStats{WindowEnd: 3, State: "FORMED", Progress: 0.5, Settled: 0.1, FPS: 60})
	bd.Check(WindowStats{WindowEnd: 4, State: "FORMED", Progress: 0.95, Settled: 0.7, FPS: 60})

	got := bd.Check(WindowStats{WindowEnd: 5, State: "FORMED", Progress: 0.995, Settled: 1, FPS: 60})
	if !hasBookmark(got, BookmarkFormed) {
		t.Fatalf("expected formed bookmark, got %+v", got)
	}

	// Staying settled does not fire again
	got = bd.Check(WindowStats{WindowEnd: 6, State: "FORMED", Progress: 0.999, Settled: 1, FPS: 60})
	if hasBookmark(got, BookmarkFormed) {
		t.Error("expected formed bookmark to fire once")
	}
}

func TestBookmarkDetector_Dispersed(t *testing.T) {
	bd := NewBookmarkDetector(10)

	bd.Check(WindowStats{WindowEnd: 1, State: "FORMED", Progress: 1, Settled: 1, FPS: 60})
	bd.Check(WindowStats{WindowEnd: 2, State: "CHAOS", Progress: 0.3, Settled: 0.2, FPS: 60})

	got := bd.Check(WindowStats{WindowEnd: 3, State: "CHAOS", Progress: 0.001, Settled: 0.995, FPS: 60})
	if !hasBookmark(got, BookmarkDispersed) {
		t.Errorf("expected dispersed bookmark, got %+v", got)
	}
}

func TestBookmarkDetector_FrameDrop(t *testing.T) {
	bd := NewBookmarkDetector(10)

	for i := 0; i < 5; i++ {
		bd.Check(WindowStats{WindowEnd: float64(i), State: "CHAOS", FPS: 60})
	}

	got := bd.Check(WindowStats{WindowEnd: 5, State: "CHAOS", FPS: 20})
	if !hasBookmark(got, BookmarkFrameDrop) {
		t.Errorf("expected frame_drop bookmark, got %+v", got)
	}

	got = bd.Check(WindowStats{WindowEnd: 6, State: "CHAOS", FPS: 55})
	if hasBookmark(got, BookmarkFrameDrop) {
		t.Error("expected no frame_drop at near-average fps")
	}
}
