package main

import (
	"io"
	"log/slog"
	"math"
	"sync"

	"github.com/pthm-cable/antfarm/config"
	"github.com/pthm-cable/antfarm/engine"
	"github.com/pthm-cable/antfarm/strategy"
	"github.com/pthm-cable/antfarm/world"
)

// FitnessEvaluator runs headless foraging simulations and computes fitness.
type FitnessEvaluator struct {
	params     *ParamVector
	envName    string
	width      int
	height     int
	ants       int
	maxSteps   int
	seeds      []int64
	baseConfig *config.Config

	mu          sync.Mutex
	lastQuality float64 // quality from most recent Evaluate call
}

// NewFitnessEvaluator creates a new evaluator.
func NewFitnessEvaluator(params *ParamVector, envName string, width, height, ants, maxSteps int, seeds []int64, baseCfg *config.Config) *FitnessEvaluator {
	return &FitnessEvaluator{
		params:     params,
		envName:    envName,
		width:      width,
		height:     height,
		ants:       ants,
		maxSteps:   maxSteps,
		seeds:      seeds,
		baseConfig: baseCfg,
	}
}

// LastQuality returns the quality score from the most recent evaluation.
func (fe *FitnessEvaluator) LastQuality() float64 {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.lastQuality
}

// runResult holds the results from a single simulation run.
type runResult struct {
	collected int
	foodTotal int
	steps     int
}

// Evaluate computes fitness for a parameter vector (lower = better).
// Fitness is the negated collection fraction with a speed bonus: collecting
// everything dominates, finishing in fewer steps breaks ties.
func (fe *FitnessEvaluator) Evaluate(x []float64) float64 {
	// Run all seeds in parallel. Each run owns its world and engine.
	results := make([]runResult, len(fe.seeds))
	var wg sync.WaitGroup

	for i, seed := range fe.seeds {
		wg.Add(1)
		go func(idx int, s int64) {
			defer wg.Done()
			results[idx] = fe.runSimulation(x, s)
		}(i, seed)
	}
	wg.Wait()

	var totalFitness, totalQuality float64
	for _, r := range results {
		totalFitness += fe.computeFitness(r)
		totalQuality += fe.computeQuality(r)
	}

	n := float64(len(fe.seeds))
	fe.mu.Lock()
	fe.lastQuality = totalQuality / n
	fe.mu.Unlock()

	return totalFitness / n
}

// runSimulation executes a single headless run. The run ends when all food is
// collected or the step cap is hit, whichever comes first.
func (fe *FitnessEvaluator) runSimulation(x []float64, seed int64) runResult {
	// Fresh config copy with this vector's parameters applied
	cfg := fe.copyConfig()
	fe.params.ApplyToConfig(cfg, x)

	env, err := world.Generate(fe.envName, fe.width, fe.height, seed, cfg.Generator)
	if err != nil {
		// Generation only fails on bad dimensions, which the driver validates
		return runResult{steps: fe.maxSteps}
	}

	eng, err := engine.New(env, cfg, engine.Options{
		AntCount:          fe.ants,
		Strategy:          strategy.NewRandom(uint64(seed), cfg.Strategy),
		MaxSteps:          fe.maxSteps,
		PheromonesEnabled: true,
		StopWhenExhausted: true,
		Logger:            slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	if err != nil {
		return runResult{steps: fe.maxSteps}
	}

	for !eng.Terminated() {
		if _, err := eng.Step(); err != nil {
			break
		}
	}

	return runResult{
		collected: eng.Collected(),
		foodTotal: env.Food.Initial(),
		steps:     eng.StepCount(),
	}
}

// copyConfig creates a copy of the base config for one evaluation.
func (fe *FitnessEvaluator) copyConfig() *config.Config {
	cfg, _ := config.Load("")
	*cfg = *fe.baseConfig
	return cfg
}

// computeFitness calculates the scalar fitness (lower = better).
// Formula: -(collectedFraction × (1.0 + 0.2 × quality))
// Collection dominates; the speed quality adds up to 20% bonus to
// differentiate configs that collect the same amount.
func (fe *FitnessEvaluator) computeFitness(r runResult) float64 {
	if r.foodTotal == 0 {
		return 0
	}
	frac := float64(r.collected) / float64(r.foodTotal)
	return -(frac * (1.0 + 0.2*fe.computeQuality(r)))
}

// computeQuality scores completion speed in [0, 1]. Runs that never finish
// score zero; faster completion scores higher.
func (fe *FitnessEvaluator) computeQuality(r runResult) float64 {
	if r.foodTotal == 0 || r.collected < r.foodTotal || fe.maxSteps == 0 {
		return 0
	}
	return clamp01(1.0 - float64(r.steps)/float64(fe.maxSteps))
}

// clamp01 clamps x to [0, 1].
func clamp01(x float64) float64 {
	return math.Min(1, math.Max(0, x))
}
