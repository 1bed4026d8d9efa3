// Package game composes the scene: it owns the state controller, both morph
// engines, the camera and telemetry, and steps them once per frame.
package game

import (
	"fmt"
	"image/color"
	"log/slog"
	"math"
	"math/rand"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/evergreen/camera"
	"github.com/pthm-cable/evergreen/components"
	"github.com/pthm-cable/evergreen/config"
	"github.com/pthm-cable/evergreen/systems"
	"github.com/pthm-cable/evergreen/telemetry"
)

// Frame is everything a surface needs to draw one frame. It is owned by the
// Game and overwritten by the next Step.
type Frame struct {
	Index    int64
	State    components.TreeState
	Elapsed  float64
	Progress float32

	// Camera
	View   camera.View
	Eye    r3.Vec
	Target r3.Vec
	FovY   float64
	Offset r3.Vec // model translation of the tree group

	Foliage    *systems.FoliageOutput
	Ornaments  []systems.OrnamentInstance
	Stars      *systems.StarField
	Background color.RGBA
	StarColor  color.RGBA
}

// Game holds the complete scene state.
type Game struct {
	cfg *config.Config
	rng *rand.Rand

	controller Controller
	foliage    *systems.Foliage
	ornaments  *systems.OrnamentSystem
	stars      *systems.StarField
	camera     *camera.Orbit
	parallel   *parallelState
	offset     r3.Vec

	// Clock
	elapsed float64
	frame   int64

	// Telemetry
	perfCollector    *telemetry.PerfCollector
	collector        *telemetry.Collector
	bookmarkDetector *telemetry.BookmarkDetector
	outputManager    *telemetry.OutputManager
	logStats         bool
	remaining        []float64 // scratch for window samples

	out    Frame
	closed bool
}

// New generates the scene. All randomness comes from opts.Seed, so two games
// with the same seed and config are identical.
func New(opts Options) (*Game, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Cfg()
	}

	statsWindow := cfg.Telemetry.StatsWindow
	if opts.StatsWindowSec > 0 {
		statsWindow = opts.StatsWindowSec
	}
	workers := cfg.Workers.Count
	if opts.Workers > 0 {
		workers = opts.Workers
	}

	rng := rand.New(rand.NewSource(opts.Seed))

	g := &Game{
		cfg:              cfg,
		rng:              rng,
		camera:           camera.New(cfg.Camera, float64(cfg.Screen.Width), float64(cfg.Screen.Height)),
		offset:           r3.Vec{Y: cfg.Scene.OffsetY},
		perfCollector:    telemetry.NewPerfCollector(cfg.Telemetry.PerfWindow),
		collector:        telemetry.NewCollector(statsWindow),
		bookmarkDetector: telemetry.NewBookmarkDetector(10),
		logStats:         opts.LogStats,
	}

	// Generation order is fixed: foliage, ornaments, stars
	g.foliage = systems.NewFoliage(rng, cfg)
	g.ornaments = systems.NewOrnamentSystem(rng, cfg)
	g.stars = systems.NewStarField(rng, cfg.Scene)
	g.parallel = newParallelState(g.foliage, workers, cfg.Workers.ParallelThreshold)
	g.remaining = make([]float64, 0, g.ornaments.Len())

	om, err := telemetry.NewOutputManager(opts.OutputDir)
	if err != nil {
		return nil, fmt.Errorf("creating output manager: %w", err)
	}
	if err := om.WriteConfig(cfg); err != nil {
		om.Close()
		return nil, fmt.Errorf("writing config snapshot: %w", err)
	}
	g.outputManager = om

	slog.Info("scene generated",
		"seed", opts.Seed,
		"foliage", g.foliage.Len(),
		"ornaments", g.ornaments.Len(),
		"stars", g.stars.Len(),
		"workers", g.parallel.numWorkers,
		"output_dir", om.Dir(),
	)

	// Evaluate once so the first frame is drawable before any Step
	g.update(0)
	return g, nil
}

// State returns the current scene state.
func (g *Game) State() components.TreeState {
	return g.controller.State()
}

// Toggle flips the scene state and records the event.
func (g *Game) Toggle() components.TreeState {
	from := g.controller.State()
	to := g.controller.Toggle()

	event := telemetry.NewToggleEvent(g.frame, g.elapsed, from.String(), to.String(), float64(g.foliage.Progress()))
	event.LogEvent()
	g.collector.RecordToggle()
	if err := g.outputManager.WriteEvent(event); err != nil {
		slog.Error("failed to write state event", "error", err)
	}
	return to
}

// Step advances the scene by dt seconds. Negative, NaN or infinite dt leaves
// every element where it is.
func (g *Game) Step(dt float64) {
	g.perfCollector.StartStep()
	g.update(dt)
	g.perfCollector.EndStep()
	g.flushTelemetry()
}

// update advances both engines and rebuilds the frame.
func (g *Game) update(dt float64) {
	if !(dt > 0) || math.IsInf(dt, 1) {
		dt = 0
	}
	g.elapsed += dt
	state := g.controller.State()

	g.perfCollector.StartPhase(telemetry.PhaseFoliageProgress)
	g.foliage.Advance(state, dt)

	g.perfCollector.StartPhase(telemetry.PhaseFoliageEval)
	view := g.camera.View(g.offset)
	g.parallel.evaluate(g.foliage.Uniforms(g.elapsed, view))

	g.perfCollector.StartPhase(telemetry.PhaseOrnaments)
	g.ornaments.Update(state, dt, g.elapsed)

	g.perfCollector.StartPhase(telemetry.PhaseTelemetry)
	if dt > 0 {
		g.frame++
		g.collector.RecordFrame()
	}

	g.out = Frame{
		Index:      g.frame,
		State:      state,
		Elapsed:    g.elapsed,
		Progress:   g.foliage.Progress(),
		View:       view,
		Eye:        g.camera.Position(),
		Target:     g.camera.Target,
		FovY:       g.camera.FovY,
		Offset:     g.offset,
		Foliage:    g.foliage.Out,
		Ornaments:  g.ornaments.Instances(),
		Stars:      g.stars,
		Background: components.RGBA(g.cfg.Color("background")),
		StarColor:  components.RGBA(g.cfg.Color("star")),
	}
}

// Frame returns the latest frame.
func (g *Game) Frame() *Frame {
	return &g.out
}

// Camera returns the orbit camera.
func (g *Game) Camera() *camera.Orbit {
	return g.camera
}

// Foliage returns the foliage engine.
func (g *Game) Foliage() *systems.Foliage {
	return g.foliage
}

// Ornaments returns the ornament engine.
func (g *Game) Ornaments() *systems.OrnamentSystem {
	return g.ornaments
}

// Elapsed returns scene time in seconds.
func (g *Game) Elapsed() float64 {
	return g.elapsed
}

// FrameCount returns the number of frames stepped with a positive dt.
func (g *Game) FrameCount() int64 {
	return g.frame
}

// Perf returns the current performance stats.
func (g *Game) Perf() telemetry.PerfStats {
	return g.perfCollector.Stats()
}

// Close stops the worker pool and flushes output files. It is safe to call twice.
func (g *Game) Close() error {
	if g.closed {
		return nil
	}
	g.closed = true
	g.parallel.stopWorkers()
	if err := g.outputManager.Close(); err != nil {
		return fmt.Errorf("closing output: %w", err)
	}
	return nil
}
