package reflective

import (
	"fmt"
	"strings"
)

// #region self-coherence
const (
	// selfCoherenceDecay keeps 99% of the prior value per evaluation.
	// Deliberately slow so a single volatile turn cannot move the
	// score; the filter needs sustained change to drift.
	selfCoherenceDecay = 0.99

	stabilityWeight = 0.6
	attentionWeight = 0.4
)

// EvaluateSelfCoherence scores how steady the recent inner state has
// been: affective stability between consecutive snapshots combined
// with attention-set consistency, smoothed into the running value.
// Needs at least 3 snapshots; otherwise the cached value is returned
// unchanged. The filter advances at most once per Monitor tick, so
// repeated evaluation between ticks is idempotent.
func (e *Engine) EvaluateSelfCoherence() float64 {
	recent := e.history.last(metricWindow)
	if len(recent) < 3 || e.coherenceTick == e.ticks {
		return e.selfCoherence
	}
	e.coherenceTick = e.ticks

	var deltaSum float64
	for i := 1; i < len(recent); i++ {
		deltaSum += abs(recent[i].Affect.V-recent[i-1].Affect.V) +
			abs(recent[i].Affect.A-recent[i-1].Affect.A)
	}
	stability := 1 - clamp01(deltaSum/float64(len(recent)-1))

	var overlapSum float64
	for i := 1; i < len(recent); i++ {
		overlapSum += attentionOverlap(recent[i-1].Attention, recent[i].Attention)
	}
	attentionConsistency := overlapSum / float64(len(recent)-1)

	combined := stabilityWeight*stability + attentionWeight*attentionConsistency
	e.selfCoherence = clamp01(selfCoherenceDecay*e.selfCoherence + (1-selfCoherenceDecay)*combined)
	return e.selfCoherence
}

// attentionOverlap is the Jaccard overlap of two attention sets. Two
// empty sets count as fully consistent.
func attentionOverlap(a, b []string) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 1
	}
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	set := make(map[string]struct{}, len(a))
	for _, t := range a {
		set[t] = struct{}{}
	}
	union := make(map[string]struct{}, len(a)+len(b))
	for _, t := range a {
		union[t] = struct{}{}
	}
	inter := 0
	for _, t := range b {
		if _, ok := set[t]; ok {
			inter++
		}
		union[t] = struct{}{}
	}
	return float64(inter) / float64(len(union))
}

// #endregion self-coherence

// #region narrative-continuity
const narrativeDecay = 0.95

// commentaryThemes buckets non-default commentary by substring match.
var commentaryThemes = []string{"uncertainty", "valence", "load", "motivation", "attention"}

// EvaluateNarrativeContinuity scores whether recent commentary forms a
// recognizable thread: the ratio of distinct themes to commentary
// count, doubled and capped, smoothed into the running value. Needs at
// least 3 snapshots and 2 non-default commentaries in the window;
// otherwise the cached value is returned unchanged.
func (e *Engine) EvaluateNarrativeContinuity() float64 {
	recent := e.history.last(metricWindow)
	if len(recent) < 3 || e.continuityTick == e.ticks {
		return e.narrativeContinuity
	}
	e.continuityTick = e.ticks

	var commentaries []string
	for _, s := range recent {
		if s.Commentary != NominalCommentary {
			commentaries = append(commentaries, s.Commentary)
		}
	}
	if len(commentaries) < 2 {
		return e.narrativeContinuity
	}

	themes := make(map[string]struct{})
	for _, c := range commentaries {
		for _, theme := range commentaryThemes {
			if strings.Contains(c, theme) {
				themes[theme] = struct{}{}
			}
		}
	}

	ratio := clamp01(float64(len(themes)) / float64(len(commentaries)))
	score := clamp01(ratio * 2)
	e.narrativeContinuity = clamp01(narrativeDecay*e.narrativeContinuity + (1-narrativeDecay)*score)
	return e.narrativeContinuity
}

// #endregion narrative-continuity

// #region meta-reflection
// GenerateMetaReflection renders a deterministic textual summary of
// the headline metrics plus conditional remarks.
func (e *Engine) GenerateMetaReflection() string {
	var b strings.Builder
	fmt.Fprintf(&b, "self-coherence %.3f, narrative continuity %.3f, introspective density %.3f",
		e.selfCoherence, e.narrativeContinuity, e.introspectiveDensity)

	if e.selfCoherence < 0.5 {
		b.WriteString("; inner state shows signs of fragmentation")
	}
	if e.narrativeContinuity > 0.7 {
		b.WriteString("; a strong narrative thread runs through recent reflection")
	}
	if e.introspectiveDensity > 0.4 {
		b.WriteString("; introspective activity is high")
	}
	return b.String()
}

// #endregion meta-reflection
