package replay

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/rork/affective-core/go-core/internal/affect"
)

// #region fixture-types

// Fixture is the top-level JSON structure for a replay fixture.
type Fixture struct {
	Description string        `json:"description"`
	Start       FixtureField  `json:"start"`
	DT          float64       `json:"dt"`
	Seed        int64         `json:"seed"`
	Ticks       []FixtureTick `json:"ticks"`
}

// FixtureField is the JSON-serializable affective field.
type FixtureField struct {
	V float64 `json:"valence"`
	A float64 `json:"arousal"`
	U float64 `json:"uncertainty"`
	M float64 `json:"motivation"`
}

// FixtureTick mirrors one recorded tick with JSON tags.
type FixtureTick struct {
	TurnID          string             `json:"turn_id"`
	ExternalInput   float64            `json:"external_input"`
	MetaFeedback    float64            `json:"meta_feedback"`
	Intrinsic       float64            `json:"intrinsic_stimulus"`
	CognitiveLoad   float64            `json:"cognitive_load"`
	Attention       []string           `json:"attention"`
	Predictions     map[string]float64 `json:"predictions"`
	BehaviorPattern string             `json:"behavior_pattern"`
	FeedbackScore   float64            `json:"feedback_score"`
}

// #endregion fixture-types

// #region fixture-io

// LoadFixture reads and parses a JSON fixture file.
func LoadFixture(path string) (*Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fixture %s: %w", path, err)
	}
	var f Fixture
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse fixture %s: %w", path, err)
	}
	if f.DT <= 0 {
		f.DT = 0.1
	}
	return &f, nil
}

// SaveFixture writes a fixture as indented JSON.
func SaveFixture(path string, f *Fixture) error {
	data, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal fixture: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write fixture %s: %w", path, err)
	}
	return nil
}

// StartField converts the serialized start state to a domain field.
func (f *Fixture) StartField() affect.Field {
	return affect.Field{V: f.Start.V, A: f.Start.A, U: f.Start.U, M: f.Start.M}
}

// #endregion fixture-io
