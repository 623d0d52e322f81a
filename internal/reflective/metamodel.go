package reflective

// #region constants
const (
	learningRate       = 0.05
	identityNoiseSpan  = 0.005 // jitter amplitude on identity updates
	arousalDecay       = 0.99
	uncertaintyDecay   = 0.98
	motivationStep     = 0.001
	coherenceWindow    = 5 // snapshot pairs feeding temporal coherence
)

// #endregion constants

// #region update
// UpdateMetaModel drifts the persona representation toward the latest
// observed behavior. affectiveDelta is the signed valence shift of the
// turn, behaviorPattern names the style entry to reinforce, and
// feedbackScore in [0, 1] weights both. The identity vector moves by
// delta*score*learningRate per component with a small multiplicative
// jitter from the engine's RNG; the style entry is an EMA toward the
// score; the baseline drifts with fixed decay factors. Everything is
// clamped to its domain. Never errors.
func (e *Engine) UpdateMetaModel(affectiveDelta float64, behaviorPattern string, feedbackScore float64) {
	// 1. Identity vector perturbation with jitter.
	for i := range e.meta.IdentityVector {
		noise := (e.rng.Float64()*2 - 1) * identityNoiseSpan
		delta := affectiveDelta * feedbackScore * learningRate * (1 + noise)
		e.meta.IdentityVector[i] = clamp(e.meta.IdentityVector[i]+delta, -1, 1)
	}

	// 2. Style signature EMA toward the feedback score.
	if behaviorPattern != "" {
		prev := e.meta.StyleSignature[behaviorPattern]
		e.meta.StyleSignature[behaviorPattern] = clamp01(prev*(1-learningRate) + feedbackScore*learningRate)
	}

	// 3. Emotional baseline drift.
	b := &e.meta.EmotionalBaseline
	b.V = clamp(b.V+learningRate*(affectiveDelta-b.V), -1, 1)
	b.A = clamp01(b.A * arousalDecay)
	b.U = clamp01(b.U * uncertaintyDecay)
	b.M = clamp01(b.M + motivationStep)

	// 4. Temporal coherence over the recent history.
	e.meta.TemporalCoherence = e.temporalCoherence()
}

// temporalCoherence is the mean pairwise affective continuity over the
// last few snapshots: 1 - (|dV| + |dA|)/2 per consecutive pair.
func (e *Engine) temporalCoherence() float64 {
	recent := e.history.last(coherenceWindow)
	if len(recent) < 2 {
		return e.meta.TemporalCoherence
	}
	var sum float64
	for i := 1; i < len(recent); i++ {
		dv := abs(recent[i].Affect.V - recent[i-1].Affect.V)
		da := abs(recent[i].Affect.A - recent[i-1].Affect.A)
		sum += 1 - (dv+da)/2
	}
	return clamp01(sum / float64(len(recent)-1))
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

// #endregion update

// #region reset
// ReinitializeMeta replaces the meta-model with a neutral one. The
// only way the meta-model ever resets.
func (e *Engine) ReinitializeMeta() {
	e.meta = NewMetaModel()
}

// #endregion reset
