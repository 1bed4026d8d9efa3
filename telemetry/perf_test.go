package telemetry

import (
	"testing"
	"time"
)

func TestPerfCollector_BasicTiming(t *testing.T) {
	pc := NewPerfCollector(10)

	// Simulate a few steps
	for i := 0; i < 5; i++ {
		pc.StartStep()
		pc.StartPhase(PhaseFoliageEval)
		time.Sleep(100 * time.Microsecond)
		pc.StartPhase(PhaseOrnaments)
		time.Sleep(200 * time.Microsecond)
		pc.EndStep()
	}

	stats := pc.Stats()

	// Verify we got timing data
	if stats.AvgStepDuration <= 0 {
		t.Error("expected positive average step duration")
	}

	// Verify phases are tracked
	if len(stats.PhaseAvg) == 0 {
		t.Error("expected phase averages to be populated")
	}

	if _, ok := stats.PhaseAvg[PhaseFoliageEval]; !ok {
		t.Error("expected foliage_eval phase to be tracked")
	}

	if _, ok := stats.PhaseAvg[PhaseOrnaments]; !ok {
		t.Error("expected ornaments phase to be tracked")
	}
}

func TestPerfCollector_RollingWindow(t *testing.T) {
	pc := NewPerfCollector(5) // Small window

	// Fill window completely
	for i := 0; i < 10; i++ {
		pc.StartStep()
		pc.StartPhase(PhaseFoliageEval)
		pc.EndStep()
	}

	stats := pc.Stats()

	// Should have data
	if stats.AvgStepDuration <= 0 {
		t.Error("expected positive average step duration after window filled")
	}

	if stats.StepsPerSecond <= 0 {
		t.Error("expected positive steps per second")
	}
}

func TestPerfCollector_PhasePercentages(t *testing.T) {
	pc := NewPerfCollector(10)

	// Simulate with uneven phase durations
	for i := 0; i < 5; i++ {
		pc.StartStep()
		pc.StartPhase("fast")
		time.Sleep(10 * time.Microsecond)
		pc.StartPhase("slow")
		time.Sleep(100 * time.Microsecond)
		pc.EndStep()
	}

	stats := pc.Stats()

	fastPct := stats.PhasePct["fast"]
	slowPct := stats.PhasePct["slow"]

	// Slow phase should take more % than fast
	if slowPct <= fastPct {
		t.Errorf("expected slow phase (%v%%) > fast phase (%v%%)", slowPct, fastPct)
	}
}

func TestPerfCollector_EmptyStats(t *testing.T) {
	pc := NewPerfCollector(10)

	stats := pc.Stats()

	// Empty collector should return zero values without panicking
	if stats.AvgStepDuration != 0 {
		t.Error("expected zero avg step duration for empty collector")
	}

	if stats.PhaseAvg == nil {
		t.Error("expected non-nil PhaseAvg map")
	}

	if stats.PhasePct == nil {
		t.Error("expected non-nil PhasePct map")
	}
}

func TestPerfCollector_FrameTiming(t *testing.T) {
	pc := NewPerfCollector(10)

	// First call establishes baseline
	pc.RecordFrame()
	time.Sleep(16 * time.Millisecond) // ~60fps frame time
	// Second call measures duration
	pc.RecordFrame()

	stats := pc.Stats()

	if stats.FrameDuration < 15*time.Millisecond {
		t.Errorf("expected frame duration >= 15ms, got %v", stats.FrameDuration)
	}

	if stats.FPS <= 0 {
		t.Error("expected positive FPS")
	}

	// With 16ms frames, expect ~60 FPS (allow range 40-80)
	if stats.FPS < 40 || stats.FPS > 80 {
		t.Errorf("expected FPS between 40-80 with 16ms frame time, got %v", stats.FPS)
	}
}

func TestPhases_FrameOrder(t *testing.T) {
	want := []string{PhaseFoliageProgress, PhaseFoliageEval, PhaseOrnaments, PhaseTelemetry, PhaseDraw}
	got := Phases()
	if len(got) != len(want) {
		t.Fatalf("expected %d phases, got %v", len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("phase %d: expected %q, got %q", i, want[i], got[i])
		}
	}

	// Callers get a copy
	got[0] = "mutated"
	if Phases()[0] != PhaseFoliageProgress {
		t.Error("expected Phases to return an independent slice")
	}
}

func TestPerfStats_ToCSVIncludesDraw(t *testing.T) {
	pc := NewPerfCollector(10)
	for i := 0; i < 3; i++ {
		pc.StartStep()
		pc.StartPhase(PhaseFoliageEval)
		time.Sleep(50 * time.Microsecond)
		pc.StartPhase(PhaseDraw)
		time.Sleep(2 * time.Millisecond)
		pc.EndStep()
	}

	row := pc.Stats().ToCSV(2.5)
	if row.WindowEnd != 2.5 {
		t.Errorf("expected window end 2.5, got %v", row.WindowEnd)
	}
	if row.DrawPct <= 0 {
		t.Fatalf("expected a draw percentage, got %v", row.DrawPct)
	}
	if row.DrawPct <= row.FoliageEvalPct {
		t.Errorf("expected draw (%v%%) to dominate foliage eval (%v%%)", row.DrawPct, row.FoliageEvalPct)
	}
	if row.OrnamentsPct != 0 || row.TelemetryPct != 0 {
		t.Errorf("expected untimed phases at zero, got %v and %v", row.OrnamentsPct, row.TelemetryPct)
	}
}
