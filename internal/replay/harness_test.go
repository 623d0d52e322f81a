package replay

import (
	"path/filepath"
	"testing"

	"github.com/rork/affective-core/go-core/internal/affect"
)

func sampleTicks() []FixtureTick {
	return []FixtureTick{
		{TurnID: "t1", ExternalInput: 0.8, Intrinsic: 0.3, CognitiveLoad: 0.2, Attention: []string{"greeting"}, BehaviorPattern: "warm", FeedbackScore: 0.7},
		{TurnID: "t2", ExternalInput: -0.5, MetaFeedback: 0.2, CognitiveLoad: 0.8, Attention: []string{"greeting", "task"}, BehaviorPattern: "warm", FeedbackScore: 0.4},
		{TurnID: "t3", ExternalInput: 0.1, Intrinsic: 0.6, CognitiveLoad: 0.5, Attention: []string{"task"}, BehaviorPattern: "focused", FeedbackScore: 0.9},
		{TurnID: "t4", ExternalInput: 0.4, CognitiveLoad: 0.3, Attention: []string{"task"}, FeedbackScore: 0.5},
	}
}

func TestReplayDeterministic(t *testing.T) {
	cfg := DefaultReplayConfig()
	initial := affect.Field{V: 0.1, A: 0.2, U: 0.3, M: 0.4}

	a := Replay(initial, sampleTicks(), cfg)
	b := Replay(initial, sampleTicks(), cfg)

	if len(a) != len(b) || len(a) != 4 {
		t.Fatalf("expected 4 results in both runs, got %d and %d", len(a), len(b))
	}
	for i := range a {
		if a[i].Field.V != b[i].Field.V || a[i].Field.A != b[i].Field.A ||
			a[i].Field.U != b[i].Field.U || a[i].Field.M != b[i].Field.M {
			t.Fatalf("fields diverge at tick %d", i)
		}
		if a[i].Metrics != b[i].Metrics {
			t.Fatalf("metrics diverge at tick %d: %+v vs %+v", i, a[i].Metrics, b[i].Metrics)
		}
		if a[i].Regime != b[i].Regime {
			t.Fatalf("regimes diverge at tick %d", i)
		}
	}
}

func TestReplayResultsInDomain(t *testing.T) {
	results := Replay(affect.Field{}, sampleTicks(), DefaultReplayConfig())
	for _, r := range results {
		f := r.Field
		if f.V < -1 || f.V > 1 || f.A < 0 || f.A > 1 || f.U < 0 || f.U > 1 || f.M < 0 || f.M > 1 {
			t.Fatalf("tick %s left domain: %+v", r.TurnID, f)
		}
		if r.Energy < 0 {
			t.Fatalf("tick %s has negative energy %g", r.TurnID, r.Energy)
		}
	}
}

func TestSummarize(t *testing.T) {
	results := Replay(affect.Field{}, sampleTicks(), DefaultReplayConfig())
	s := Summarize(results)

	if s.TotalTicks != 4 {
		t.Fatalf("expected 4 ticks, got %d", s.TotalTicks)
	}
	total := 0
	for _, n := range s.RegimeCounts {
		total += n
	}
	if total != 4 {
		t.Fatalf("regime counts should cover every tick, got %d", total)
	}
	if s.FinalField != results[3].Field {
		t.Fatal("final field should match last result")
	}
}

func TestSummarizeEmpty(t *testing.T) {
	s := Summarize(nil)
	if s.TotalTicks != 0 || s.MeanEnergy != 0 {
		t.Fatalf("unexpected summary for empty results: %+v", s)
	}
}

func TestFixtureRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fixture.json")
	f := &Fixture{
		Description: "smoke run",
		Start:       FixtureField{V: 0.2, M: 0.5},
		DT:          0.05,
		Seed:        7,
		Ticks:       sampleTicks(),
	}
	if err := SaveFixture(path, f); err != nil {
		t.Fatalf("SaveFixture: %v", err)
	}

	got, err := LoadFixture(path)
	if err != nil {
		t.Fatalf("LoadFixture: %v", err)
	}
	if got.Description != "smoke run" || got.DT != 0.05 || got.Seed != 7 {
		t.Fatalf("header mismatch: %+v", got)
	}
	if len(got.Ticks) != 4 || got.Ticks[2].BehaviorPattern != "focused" {
		t.Fatalf("ticks mismatch: %+v", got.Ticks)
	}
	start := got.StartField()
	if start.V != 0.2 || start.M != 0.5 {
		t.Fatalf("start field mismatch: %+v", start)
	}
}

func TestLoadFixtureDefaultsDT(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fixture.json")
	if err := SaveFixture(path, &Fixture{Ticks: sampleTicks()}); err != nil {
		t.Fatalf("SaveFixture: %v", err)
	}
	got, err := LoadFixture(path)
	if err != nil {
		t.Fatalf("LoadFixture: %v", err)
	}
	if got.DT != 0.1 {
		t.Fatalf("expected default dt 0.1, got %g", got.DT)
	}
}

func TestLoadFixtureMissing(t *testing.T) {
	if _, err := LoadFixture(filepath.Join(t.TempDir(), "absent.json")); err == nil {
		t.Fatal("expected error for missing fixture")
	}
}
