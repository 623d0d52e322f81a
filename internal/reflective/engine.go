package reflective

import (
	"math/rand"
	"strings"
	"time"

	"github.com/rork/affective-core/go-core/internal/affect"
)

// #region constants
const (
	historyCapacity = 100 // bounded snapshot ring
	densityWindow   = 10  // snapshots considered for introspective density
	metricWindow    = 10  // snapshots considered for coherence metrics

	// NominalCommentary is the default commentary when no threshold
	// fires. Introspective density counts snapshots that say more.
	NominalCommentary = "internal state nominal"
)

// #endregion constants

// #region engine
// Engine is the reflective self-model: it ingests affective fields per
// tick, keeps a bounded history, maintains the meta-model, and derives
// coherence metrics from the history. All methods expect a single
// calling context; hosts running across goroutines serialize access
// themselves.
type Engine struct {
	history *snapshotRing
	meta    MetaModel
	rng     *rand.Rand
	ticks   int // total Monitor calls, gates metric recomputation

	selfCoherence        float64
	narrativeContinuity  float64
	introspectiveDensity float64
	coherenceTick        int
	continuityTick       int
}

// NewEngine creates an engine. rng drives the identity-vector jitter
// in UpdateMetaModel; pass a seeded source for reproducible drift, or
// nil for a time-seeded one.
func NewEngine(rng *rand.Rand) *Engine {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Engine{
		history:             newSnapshotRing(historyCapacity),
		meta:                NewMetaModel(),
		rng:                 rng,
		selfCoherence:       1,
		narrativeContinuity: 1,
	}
}

// #endregion engine

// #region monitor
// Monitor ingests one tick of state, derives commentary from fixed
// ordered threshold checks, appends the snapshot to the history ring,
// and refreshes introspective density. Never errors.
func (e *Engine) Monitor(f affect.Field, cognitiveLoad float64, attention []string, predictions map[string]float64) Snapshot {
	snap := Snapshot{
		Timestamp:     time.Now(),
		Affect:        f,
		CognitiveLoad: clamp01(cognitiveLoad),
		Attention:     append([]string(nil), attention...),
		Predictions:   clonePredictions(predictions),
		Commentary:    buildCommentary(f, cognitiveLoad, attention),
	}

	e.history.push(snap)
	e.ticks++
	e.refreshIntrospectiveDensity()
	return snap
}

// buildCommentary checks thresholds in a fixed order and joins every
// matched phrase with "; ".
func buildCommentary(f affect.Field, load float64, attention []string) string {
	var parts []string
	if f.V > 0.5 {
		parts = append(parts, "valence is elevated; mood positive")
	}
	if f.V < -0.3 {
		parts = append(parts, "valence trending negative")
	}
	if f.U > 0.7 {
		parts = append(parts, "uncertainty is high")
	}
	if load > 0.7 {
		parts = append(parts, "cognitive load elevated")
	}
	if len(attention) > 5 {
		parts = append(parts, "attention is spread thin")
	}
	if f.M > 0.7 {
		parts = append(parts, "motivation is strong")
	}
	if len(parts) == 0 {
		return NominalCommentary
	}
	return strings.Join(parts, "; ")
}

// refreshIntrospectiveDensity recomputes the fraction of the last 10
// snapshots whose commentary is not the nominal default.
func (e *Engine) refreshIntrospectiveDensity() {
	recent := e.history.last(densityWindow)
	if len(recent) == 0 {
		e.introspectiveDensity = 0
		return
	}
	active := 0
	for _, s := range recent {
		if s.Commentary != NominalCommentary {
			active++
		}
	}
	e.introspectiveDensity = float64(active) / float64(len(recent))
}

// #endregion monitor

// #region getters
// ReflectiveMetrics returns the current headline metric values without
// recomputation.
func (e *Engine) ReflectiveMetrics() Metrics {
	return Metrics{
		SelfCoherence:        e.selfCoherence,
		NarrativeContinuity:  e.narrativeContinuity,
		IntrospectiveDensity: e.introspectiveDensity,
	}
}

// Meta returns a copy of the meta-model.
func (e *Engine) Meta() MetaModel {
	out := e.meta
	out.StyleSignature = make(map[string]float64, len(e.meta.StyleSignature))
	for k, v := range e.meta.StyleSignature {
		out.StyleSignature[k] = v
	}
	return out
}

// RecentSnapshots returns up to n most recent snapshots, oldest first.
func (e *Engine) RecentSnapshots(n int) []Snapshot {
	return e.history.last(n)
}

// HistoryLen returns the number of snapshots currently retained.
func (e *Engine) HistoryLen() int {
	return e.history.len()
}

// #endregion getters

// #region helpers
func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clonePredictions(in map[string]float64) map[string]float64 {
	if in == nil {
		return nil
	}
	out := make(map[string]float64, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

// #endregion helpers
