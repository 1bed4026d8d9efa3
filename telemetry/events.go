// Package telemetry provides frame timing, windowed scene statistics,
// milestone bookmarks and CSV output.
package telemetry

import "log/slog"

// EventType identifies telemetry events.
type EventType string

const (
	EventToggle EventType = "toggle"
)

// Event is a single state change, written as one row of state.csv.
type Event struct {
	Type     EventType `csv:"type"`
	Frame    int64     `csv:"frame"`
	Elapsed  float64   `csv:"elapsed"`
	From     string    `csv:"from"`
	To       string    `csv:"to"`
	Progress float64   `csv:"progress"` // foliage progress at the moment of the toggle
}

// NewToggleEvent creates a toggle event.
func NewToggleEvent(frame int64, elapsed float64, from, to string, progress float64) Event {
	return Event{
		Type:     EventToggle,
		Frame:    frame,
		Elapsed:  elapsed,
		From:     from,
		To:       to,
		Progress: progress,
	}
}

// LogEvent logs the event using slog.
func (e Event) LogEvent() {
	slog.Info("state toggled",
		"from", e.From,
		"to", e.To,
		"frame", e.Frame,
		"elapsed", e.Elapsed,
		"progress", e.Progress,
	)
}
