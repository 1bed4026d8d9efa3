package main

import (
	"context"
	"flag"
	"io"
	"log/slog"
	"math"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/pthm-cable/evergreen/config"
	"github.com/pthm-cable/evergreen/game"
	"github.com/pthm-cable/evergreen/renderer"
	"github.com/pthm-cable/evergreen/term"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	headless := flag.Bool("headless", false, "Run without a window or terminal")
	terminal := flag.Bool("term", false, "Render in the terminal instead of a window")
	logStats := flag.Bool("log-stats", false, "Output stats via slog")
	statsWindow := flag.Float64("stats-window", 0, "Stats window size in seconds (0 = use config)")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs and config snapshot")
	seed := flag.Int64("seed", 0, "RNG seed (0 = time-based)")
	maxFrames := flag.Int("max-frames", 0, "Stop after N frames (0 = unlimited)")
	toggleEvery := flag.Float64("toggle-every", 0, "Headless: toggle the scene state every N seconds (0 = never)")
	workers := flag.Int("workers", 0, "Foliage worker goroutines (0 = use config)")

	flag.Parse()

	// Initialize config before anything else
	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()

	rngSeed := *seed
	if rngSeed == 0 {
		rngSeed = time.Now().UnixNano()
	}

	// JSON logs to stdout, except in the terminal where they would draw over the scene
	var logOut io.Writer = os.Stdout
	if *terminal && !*headless {
		logOut = io.Discard
		if *outputDir != "" {
			if err := os.MkdirAll(*outputDir, 0o755); err != nil {
				slog.Error("failed to create output directory", "error", err)
				os.Exit(1)
			}
			f, err := os.Create(filepath.Join(*outputDir, "run.log"))
			if err != nil {
				slog.Error("failed to create log file", "error", err)
				os.Exit(1)
			}
			defer f.Close()
			logOut = f
		}
	}
	slog.SetDefault(slog.New(slog.NewJSONHandler(logOut, nil)))

	opts := game.Options{
		Config:         cfg,
		Seed:           rngSeed,
		LogStats:       *logStats,
		StatsWindowSec: *statsWindow,
		OutputDir:      *outputDir,
		Workers:        *workers,
	}

	g, err := game.New(opts)
	if err != nil {
		slog.Error("failed to create scene", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := g.Close(); err != nil {
			slog.Error("failed to close scene", "error", err)
		}
	}()

	switch {
	case *headless:
		runHeadless(g, cfg, *maxFrames, *toggleEvery)
	case *terminal:
		scr, err := term.New(cfg)
		if err != nil {
			slog.Error("failed to open terminal", "error", err)
			g.Close()
			os.Exit(1)
		}
		defer scr.Close()
		slog.Info("starting terminal", "seed", rngSeed)
		g.Run(scr, *maxFrames)
	default:
		win := renderer.NewWindow(cfg, g)
		defer win.Close()
		slog.Info("starting window", "seed", rngSeed)
		g.Run(win, *maxFrames)
	}
	slog.Info("shutdown", "frames", g.FrameCount(), "elapsed", g.Elapsed())
}

// runHeadless steps the scene at a fixed rate until interrupted or maxFrames
// is reached, optionally toggling every toggleEvery seconds of scene time.
func runHeadless(g *game.Game, cfg *config.Config, maxFrames int, toggleEvery float64) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fps := cfg.Screen.TargetFPS
	if fps <= 0 {
		fps = 60
	}
	dt := 1.0 / float64(fps)

	slog.Info("starting headless",
		"dt", dt,
		"max_frames", maxFrames,
		"toggle_every", toggleEvery,
	)

	toggles := 0
	for ctx.Err() == nil {
		if toggleEvery > 0 {
			// Toggle once per elapsed period, on the frame that crosses it
			due := int(math.Floor(g.Elapsed() / toggleEvery))
			for toggles < due {
				g.Toggle()
				toggles++
			}
		}
		g.Step(dt)

		if maxFrames > 0 && int(g.FrameCount()) >= maxFrames {
			slog.Info("max frames reached", "frame", g.FrameCount())
			return
		}
	}
	slog.Info("interrupted", "frame", g.FrameCount())
}
