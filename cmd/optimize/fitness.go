package main

import (
	"math"
	"sync"

	"github.com/pthm-cable/evergreen/components"
	"github.com/pthm-cable/evergreen/config"
	"github.com/pthm-cable/evergreen/game"
	"github.com/pthm-cable/evergreen/telemetry"
)

const (
	stepDT = 1.0 / 60

	// Local progress tolerance for foliage, and the ornament share that must
	// be within telemetry.SettledThreshold of its destination.
	foliageTolerance = 0.01
	ornamentSettled  = 0.99

	// Added per transition that never settles before the cap.
	unsettledPenalty = 100.0
)

// FitnessEvaluator runs headless scenes and scores how close each morph
// comes to settling in the target time.
type FitnessEvaluator struct {
	params     *ParamVector
	seeds      []int64
	baseConfig *config.Config
	targetSec  float64
	maxSec     float64

	mu            sync.Mutex
	lastForm      float64 // mean form time from the most recent Evaluate call
	lastDisp      float64
	lastUnsettled int // transitions that hit the cap in the most recent Evaluate call
}

// NewFitnessEvaluator creates a new evaluator.
func NewFitnessEvaluator(params *ParamVector, seeds []int64, baseCfg *config.Config, targetSec, maxSec float64) *FitnessEvaluator {
	return &FitnessEvaluator{
		params:     params,
		seeds:      seeds,
		baseConfig: baseCfg,
		targetSec:  targetSec,
		maxSec:     maxSec,
	}
}

// LastTimes returns the mean form and disperse times from the most recent evaluation.
func (fe *FitnessEvaluator) LastTimes() (form, disperse float64) {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.lastForm, fe.lastDisp
}

// LastUnsettled returns how many transitions, over all seeds, never settled
// before the cap in the most recent evaluation.
func (fe *FitnessEvaluator) LastUnsettled() int {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.lastUnsettled
}

// transition holds settle times for one state change. A time equal to the
// cap means the group never settled.
type transition struct {
	foliage   float64
	ornaments float64
}

// runResult holds the results from a single seed.
type runResult struct {
	form     transition
	disperse transition
	err      error
}

// times lists every group's settle time for both transitions.
func (r runResult) times() []float64 {
	return []float64{r.form.foliage, r.form.ornaments, r.disperse.foliage, r.disperse.ornaments}
}

// Evaluate computes fitness for a parameter vector (lower = better).
func (fe *FitnessEvaluator) Evaluate(x []float64) float64 {
	cfg := fe.baseConfig.Clone()
	if err := fe.params.ApplyToConfig(cfg, x); err != nil {
		return math.Inf(1)
	}

	// Seeds share the config read-only
	results := make([]runResult, len(fe.seeds))
	var wg sync.WaitGroup
	for i, seed := range fe.seeds {
		wg.Add(1)
		go func(idx int, s int64) {
			defer wg.Done()
			results[idx] = fe.runScene(cfg, s)
		}(i, seed)
	}
	wg.Wait()

	var total, form, disp float64
	unsettled := 0
	for _, r := range results {
		if r.err != nil {
			return math.Inf(1)
		}
		total += fe.computeFitness(r)
		for _, t := range r.times() {
			if t >= fe.maxSec {
				unsettled++
			}
		}
		form += math.Max(r.form.foliage, r.form.ornaments)
		disp += math.Max(r.disperse.foliage, r.disperse.ornaments)
	}

	n := float64(len(fe.seeds))
	fe.mu.Lock()
	fe.lastForm = form / n
	fe.lastDisp = disp / n
	fe.lastUnsettled = unsettled
	fe.mu.Unlock()

	return total / n
}

// runScene assembles then disperses one scene and times both.
func (fe *FitnessEvaluator) runScene(cfg *config.Config, seed int64) runResult {
	g, err := game.New(game.Options{Config: cfg, Seed: seed, Workers: 1})
	if err != nil {
		return runResult{err: err}
	}
	defer g.Close()

	var r runResult
	g.Toggle()
	r.form = fe.settle(g, components.StateFormed)
	g.Toggle()
	r.disperse = fe.settle(g, components.StateChaos)
	return r
}

// settle steps g until both groups have settled towards state or the cap is hit.
func (fe *FitnessEvaluator) settle(g *game.Game, state components.TreeState) transition {
	tr := transition{foliage: fe.maxSec, ornaments: fe.maxSec}
	var remaining []float64
	foliageDone, ornamentsDone := false, false

	for t := stepDT; t <= fe.maxSec; t += stepDT {
		g.Step(stepDT)

		if !foliageDone && g.Foliage().Settled(state, foliageTolerance) {
			tr.foliage, foliageDone = t, true
		}
		if !ornamentsDone {
			remaining = g.Ornaments().Remaining(state, remaining)
			if telemetry.SettledFraction(remaining) >= ornamentSettled {
				tr.ornaments, ornamentsDone = t, true
			}
		}
		if foliageDone && ornamentsDone {
			break
		}
	}
	return tr
}

// computeFitness sums squared deviations from the target time for every
// group and transition, plus a flat penalty for each that never settled.
func (fe *FitnessEvaluator) computeFitness(r runResult) float64 {
	var f float64
	for _, t := range r.times() {
		d := t - fe.targetSec
		f += d * d
		if t >= fe.maxSec {
			f += unsettledPenalty
		}
	}
	return f
}
