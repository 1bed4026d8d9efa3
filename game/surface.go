package game

import (
	"log/slog"

	"github.com/pthm-cable/evergreen/telemetry"
)

// Surface is a rendering collaborator: it owns a window or terminal, reports
// input and frame time, and draws frames.
type Surface interface {
	ShouldClose() bool
	FrameTime() float32
	Input() Input
	Draw(f *Frame)
	Close()
}

// Run drives the frame loop on s until it closes, the user quits, or
// maxFrames frames have been drawn (0 = unlimited).
func (g *Game) Run(s Surface, maxFrames int) {
	drawn := 0
	for !s.ShouldClose() {
		in := s.Input()
		if in.Quit {
			slog.Info("quit requested", "frame", g.frame)
			return
		}
		g.HandleInput(in)

		g.perfCollector.StartStep()
		g.update(float64(s.FrameTime()))
		g.perfCollector.StartPhase(telemetry.PhaseDraw)
		s.Draw(&g.out)
		g.perfCollector.EndStep()
		g.perfCollector.RecordFrame()
		g.flushTelemetry()

		drawn++
		if maxFrames > 0 && drawn >= maxFrames {
			slog.Info("max frames reached", "frame", g.frame)
			return
		}
	}
}
