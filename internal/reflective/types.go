package reflective

import (
	"time"

	"github.com/rork/affective-core/go-core/internal/affect"
)

// #region snapshot
// Snapshot is one reflective tick: the observed affective field plus
// the cognitive context it arrived with and the commentary derived
// from it. Snapshots hold independent copies, never aliased state.
type Snapshot struct {
	Timestamp     time.Time
	Affect        affect.Field
	CognitiveLoad float64
	Attention     []string
	Predictions   map[string]float64
	Commentary    string
}

// #endregion snapshot

// #region meta-model
// IdentityDim is the length of the identity vector.
const IdentityDim = 128

// MotivationalDim is the length of the motivational profile vector.
const MotivationalDim = 16

// MetaModel is the slowly drifting representation of the agent's
// persona. It is mutated in place by UpdateMetaModel and survives
// until explicit reinitialization.
type MetaModel struct {
	IdentityVector      [IdentityDim]float64
	StyleSignature      map[string]float64
	EmotionalBaseline   affect.Field
	MotivationalProfile [MotivationalDim]float64
	TemporalCoherence   float64
}

// NewMetaModel returns a neutral meta-model: zero identity vector,
// empty style signature, mid-range baseline.
func NewMetaModel() MetaModel {
	return MetaModel{
		StyleSignature: make(map[string]float64),
		EmotionalBaseline: affect.Field{
			A:         0.3,
			U:         0.3,
			M:         0.5,
			Timestamp: time.Now(),
		},
		TemporalCoherence: 1,
	}
}

// #endregion meta-model

// #region metrics
// Metrics bundles the three headline reflective scores.
type Metrics struct {
	SelfCoherence        float64
	NarrativeContinuity  float64
	IntrospectiveDensity float64
}

// #endregion metrics
