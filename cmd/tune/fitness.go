package main

import (
	"math"
	"sync"

	"gonum.org/v1/gonum/stat"

	"github.com/50thycal/ant-farm/config"
	"github.com/50thycal/ant-farm/game"
	"github.com/50thycal/ant-farm/telemetry"
)

// FitnessEvaluator runs headless forager colonies and scores them.
type FitnessEvaluator struct {
	params      *ParamVector
	maxTicks    int32
	seeds       []int64
	baseConfig  *config.Config
	statsWindow float64

	mu          sync.Mutex
	lastQuality float64 // quality from most recent Evaluate call
}

// NewFitnessEvaluator creates a new evaluator.
func NewFitnessEvaluator(params *ParamVector, maxTicks int32, seeds []int64, baseCfg *config.Config) *FitnessEvaluator {
	return &FitnessEvaluator{
		params:      params,
		maxTicks:    maxTicks,
		seeds:       seeds,
		baseConfig:  baseCfg,
		statsWindow: 10.0,
	}
}

// LastQuality returns the quality score from the most recent evaluation.
func (fe *FitnessEvaluator) LastQuality() float64 {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.lastQuality
}

// Growth weights: eaten food counts once, every spawned ant five times,
// and excavation a little.
const (
	growthWeightEaten   = 1.0
	growthWeightSpawned = 5.0
	growthWeightDigs    = 0.05
)

// runResult holds the results from a single simulation run.
type runResult struct {
	windows []telemetry.WindowStats
	growth  float64
}

// Evaluate computes fitness for a raw parameter vector (lower = better).
// Seeds run in parallel, each on its own config copy.
func (fe *FitnessEvaluator) Evaluate(x []float64) float64 {
	fitness := make([]float64, len(fe.seeds))
	quality := make([]float64, len(fe.seeds))
	var wg sync.WaitGroup

	for i, seed := range fe.seeds {
		wg.Add(1)
		go func(idx int, s int64) {
			defer wg.Done()
			r := fe.runSimulation(x, s)
			quality[idx] = computeQuality(r.windows)
			fitness[idx] = computeFitness(r.growth, quality[idx])
		}(i, seed)
	}
	wg.Wait()

	fe.mu.Lock()
	fe.lastQuality = stat.Mean(quality, nil)
	fe.mu.Unlock()

	return stat.Mean(fitness, nil)
}

// runSimulation executes one forager run for maxTicks.
func (fe *FitnessEvaluator) runSimulation(x []float64, seed int64) *runResult {
	cfg := copyConfig(fe.baseConfig)
	cfg.World.Profile = "forager"
	fe.params.ApplyToConfig(cfg, x)

	result := &runResult{}
	s, err := game.NewSession(cfg, game.Options{
		Seed:           seed,
		StatsWindowSec: fe.statsWindow,
		StatsCallback: func(ws telemetry.WindowStats) {
			result.windows = append(result.windows, ws)
		},
	})
	if err != nil {
		return result
	}
	defer s.Close()

	dt := float32(cfg.Physics.DT)
	for s.Tick() < fe.maxTicks {
		s.Step(dt)
	}

	for _, w := range result.windows {
		result.growth += growthWeightEaten*float64(w.FoodEaten) +
			growthWeightSpawned*float64(w.Spawned) +
			growthWeightDigs*float64(w.Digs)
	}
	return result
}

// computeFitness combines growth with up to a 20% quality bonus.
func computeFitness(growth, quality float64) float64 {
	return -(growth * (1.0 + 0.2*quality))
}

// Quality component weights.
const (
	qualityWeightHunger    = 0.4
	qualityWeightCarry     = 0.3
	qualityWeightStability = 0.3

	qualityWarmupWindows = 2 // skip first N windows
)

// computeQuality scores colony health in [0, 1]: median hunger near 0.4,
// a minority of ants holding material, and a steady ant count.
func computeQuality(windows []telemetry.WindowStats) float64 {
	if len(windows) <= qualityWarmupWindows {
		return 0
	}
	valid := windows[qualityWarmupWindows:]

	var hungerSum, carrySum float64
	counts := make([]float64, 0, len(valid))
	for _, w := range valid {
		if w.Ants == 0 {
			continue
		}
		hungerSum += math.Exp(-math.Pow((w.HungerP50-0.4)/0.2, 2))
		carrySum += 1 - math.Min(1, 2*float64(w.Carrying)/float64(w.Ants))
		counts = append(counts, float64(w.Ants))
	}
	if len(counts) == 0 {
		return 0
	}
	n := float64(len(counts))

	stability := 0.0
	if len(counts) >= 2 {
		mean, std := stat.MeanStdDev(counts, nil)
		if mean > 0 {
			c := std / mean
			stability = math.Exp(-c * c)
		}
	}

	q := qualityWeightHunger*hungerSum/n +
		qualityWeightCarry*carrySum/n +
		qualityWeightStability*stability
	return math.Max(0, math.Min(1, q))
}
