// Package main provides CMA-ES tuning of morph timing, searching for foliage
// and ornament parameters that settle both transitions in a target time.
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"time"

	"github.com/gocarina/gocsv"
	"gonum.org/v1/gonum/optimize"

	"github.com/pthm-cable/evergreen/config"
)

// evalRecord is one row of the evaluation log.
type evalRecord struct {
	Eval         int     `csv:"eval"`
	Fitness      float64 `csv:"fitness"`
	FormSec      float64 `csv:"form_sec"`
	DisperseSec  float64 `csv:"disperse_sec"`
	ProgressRate float64 `csv:"progress_rate"`
	Lead         float64 `csv:"lead"`
	Stagger      float64 `csv:"stagger"`
	BaseSpeed    float64 `csv:"base_speed"`
}

// formatDuration formats a duration as HH:MM:SS or MM:SS for shorter durations.
func formatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	h := d / time.Hour
	d -= h * time.Hour
	m := d / time.Minute
	d -= m * time.Minute
	s := d / time.Second

	if h > 0 {
		return fmt.Sprintf("%dh%02dm%02ds", h, m, s)
	}
	return fmt.Sprintf("%dm%02ds", m, s)
}

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Base config YAML file (empty = use defaults)")
	targetSec := flag.Float64("target", 3.0, "Target settle time in seconds for each transition")
	maxSec := flag.Float64("max-sec", 60.0, "Simulated seconds before a transition counts as unsettled")
	seeds := flag.Int("seeds", 3, "Number of seeds per evaluation")
	foliage := flag.Int("foliage", 2000, "Foliage count per evaluation scene")
	ornaments := flag.Int("ornaments", 200, "Ornament count per evaluation scene")
	maxEvals := flag.Int("max-evals", 200, "Maximum number of evaluations")
	population := flag.Int("population", 0, "CMA-ES population size (0 = auto)")
	outputDir := flag.String("output", "", "Output directory for results")
	flag.Parse()

	if *outputDir == "" {
		log.Fatal("--output is required")
	}
	if err := os.MkdirAll(*outputDir, 0755); err != nil {
		log.Fatalf("failed to create output directory: %v", err)
	}

	// Scene generation logs once per seed; keep only warnings
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn})))

	// Load base config, shrunk for evaluation speed
	if err := config.Init(*configPath); err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	baseCfg := config.Cfg().Clone()
	baseCfg.Scene.FoliageCount = *foliage
	baseCfg.Scene.OrnamentCount = *ornaments
	baseCfg.Scene.StarCount = 0
	if err := baseCfg.Refresh(); err != nil {
		log.Fatalf("invalid evaluation config: %v", err)
	}

	params := NewParamVector()

	evalSeeds := make([]int64, *seeds)
	for i := range evalSeeds {
		evalSeeds[i] = int64(i*1000 + 42)
	}

	evaluator := NewFitnessEvaluator(params, evalSeeds, baseCfg, *targetSec, *maxSec)

	// Start from the loaded config rather than DefaultVector
	dim := params.Dim()
	initX := params.Normalize(params.Clamp(params.ExtractFromConfig(config.Cfg())))

	settings := &optimize.Settings{
		FuncEvaluations: *maxEvals,
		Concurrent:      0, // Seeds already run in parallel
	}

	popSize := *population
	if popSize == 0 {
		// Auto-size: 4 + floor(3*ln(n))
		popSize = 4 + int(3.0*math.Log(float64(dim)))
	}

	method := &optimize.CmaEsChol{
		InitStepSize: 0.3,
		Population:   popSize,
	}

	logPath := filepath.Join(*outputDir, "optimize_log.csv")
	logFile, err := os.Create(logPath)
	if err != nil {
		log.Fatalf("failed to create log file: %v", err)
	}
	defer logFile.Close()

	evalCount := 0
	bestFitness := math.Inf(1)
	var bestParams []float64
	startTime := time.Now()

	problem := optimize.Problem{
		Func: func(x []float64) float64 {
			// The values actually used are the clamped ones
			clamped := params.Clamp(params.Denormalize(x))
			fitness := evaluator.Evaluate(clamped)
			evalCount++

			if fitness < bestFitness {
				bestFitness = fitness
				bestParams = clamped
			}

			form, disperse := evaluator.LastTimes()
			if err := writeEval(logFile, evalCount == 1, evalRecord{
				Eval:         evalCount,
				Fitness:      fitness,
				FormSec:      form,
				DisperseSec:  disperse,
				ProgressRate: clamped[0],
				Lead:         clamped[1],
				Stagger:      clamped[2],
				BaseSpeed:    clamped[3],
			}); err != nil {
				log.Printf("failed to write eval log: %v", err)
			}

			elapsed := time.Since(startTime)
			avgPerEval := elapsed / time.Duration(evalCount)
			remaining := time.Duration(*maxEvals-evalCount) * avgPerEval

			fmt.Printf("Eval %d/%d: form=%.2fs disperse=%.2fs fitness=%.3f (best=%.3f) | elapsed: %s, ETA: %s\n",
				evalCount, *maxEvals, form, disperse, fitness, bestFitness,
				formatDuration(elapsed), formatDuration(remaining))

			return fitness
		},
	}

	fmt.Printf("Starting CMA-ES optimization with %d parameters, population=%d, max_evals=%d\n",
		dim, popSize, *maxEvals)
	fmt.Printf("Seeds per evaluation: %d, target: %.1fs, cap: %.1fs\n", *seeds, *targetSec, *maxSec)

	result, err := optimize.Minimize(problem, initX, settings, method)
	if err != nil {
		log.Printf("optimization ended: %v", err)
	}

	// Use best params found (may be from any evaluation, not just final)
	if bestParams == nil && result != nil {
		bestParams = params.Clamp(params.Denormalize(result.X))
	}
	if bestParams == nil {
		log.Fatal("no evaluations completed")
	}

	totalTime := time.Since(startTime)
	fmt.Printf("\nOptimization complete after %d evaluations in %s\n", evalCount, formatDuration(totalTime))
	fmt.Printf("Best fitness: %.4f\n", bestFitness)

	fmt.Println("\nBest parameters:")
	for i, spec := range params.Specs {
		fmt.Printf("  %s: %.6f\n", spec.Path, bestParams[i])
	}

	// Save the full config, not the shrunk evaluation scene
	bestCfg := config.Cfg().Clone()
	if err := params.ApplyToConfig(bestCfg, bestParams); err != nil {
		log.Fatalf("best parameters rejected: %v", err)
	}

	configOutPath := filepath.Join(*outputDir, "best_config.yaml")
	if err := bestCfg.WriteYAML(configOutPath); err != nil {
		log.Printf("failed to write best config: %v", err)
	} else {
		fmt.Printf("\nBest config saved to: %s\n", configOutPath)
	}
}

// writeEval appends one record, with a header on the first call.
func writeEval(w io.Writer, header bool, rec evalRecord) error {
	records := []evalRecord{rec}
	if header {
		return gocsv.Marshal(records, w)
	}
	return gocsv.MarshalWithoutHeaders(records, w)
}
