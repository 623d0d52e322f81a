package replay

import (
	"math/rand"

	"github.com/rork/affective-core/go-core/internal/affect"
	"github.com/rork/affective-core/go-core/internal/reflective"
)

// #region types

// ReplayConfig bundles everything a deterministic replay run needs.
type ReplayConfig struct {
	Dynamics affect.Dynamics
	DT       float64
	Seed     int64
}

// DefaultReplayConfig returns the standard pipeline configuration.
func DefaultReplayConfig() ReplayConfig {
	return ReplayConfig{
		Dynamics: affect.DefaultDynamics(),
		DT:       0.1,
		Seed:     1,
	}
}

// Result captures the outcome of replaying one tick through the full
// affect → reflect → meta-model pipeline.
type Result struct {
	TurnID string
	Field  affect.Field
	Regime affect.RegimeResult
	Energy float64

	Commentary string
	Metrics    reflective.Metrics
}

// Summary provides aggregate stats from a replay run.
type Summary struct {
	TotalTicks   int
	RegimeCounts map[affect.Regime]int
	FinalField   affect.Field
	FinalMetrics reflective.Metrics
	MeanEnergy   float64
}

// #endregion types

// #region replay

// Replay drives recorded ticks through the pipeline, one tick per
// interaction: simulator step, reflective monitor, meta-model update,
// then both coherence evaluations. Entirely in-memory and, with the
// seeded RNG from config, fully deterministic.
func Replay(initial affect.Field, ticks []FixtureTick, cfg ReplayConfig) []Result {
	sim := affect.NewSimulator(cfg.Dynamics)
	engine := reflective.NewEngine(rand.New(rand.NewSource(cfg.Seed)))

	current := initial
	results := make([]Result, 0, len(ticks))

	for _, tick := range ticks {
		prev := current
		current = sim.Step(current, tick.ExternalInput, tick.MetaFeedback, tick.Intrinsic, cfg.DT)

		snap := engine.Monitor(current, tick.CognitiveLoad, tick.Attention, tick.Predictions)
		engine.UpdateMetaModel(current.V-prev.V, tick.BehaviorPattern, tick.FeedbackScore)
		engine.EvaluateSelfCoherence()
		engine.EvaluateNarrativeContinuity()

		results = append(results, Result{
			TurnID:     tick.TurnID,
			Field:      current,
			Regime:     affect.Classify(current),
			Energy:     sim.Energy(current),
			Commentary: snap.Commentary,
			Metrics:    engine.ReflectiveMetrics(),
		})
	}

	return results
}

// Summarize computes aggregate stats from replay results.
func Summarize(results []Result) Summary {
	s := Summary{
		TotalTicks:   len(results),
		RegimeCounts: make(map[affect.Regime]int),
	}
	if len(results) == 0 {
		return s
	}

	var energySum float64
	for _, r := range results {
		s.RegimeCounts[r.Regime.Regime]++
		energySum += r.Energy
	}
	last := results[len(results)-1]
	s.FinalField = last.Field
	s.FinalMetrics = last.Metrics
	s.MeanEnergy = energySum / float64(len(results))
	return s
}

// #endregion replay
