package journal

import (
	"path/filepath"
	"testing"
	"time"
)

func tempJournal(t *testing.T) *Journal {
	t.Helper()
	j, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { j.Close() })
	return j
}

func TestRecordAndReadTicks(t *testing.T) {
	j := tempJournal(t)

	base := time.Now().UTC()
	for i := 0; i < 3; i++ {
		err := j.RecordTick(TickRecord{
			TickID:        "tick-" + string(rune('a'+i)),
			Valence:       0.5,
			Arousal:       0.2,
			Uncertainty:   0.1,
			Motivation:    0.7,
			Regime:        "calm-stability",
			CognitiveLoad: 0.3,
			Commentary:    "internal state nominal",
			CreatedAt:     base.Add(time.Duration(i) * time.Second),
		})
		if err != nil {
			t.Fatalf("RecordTick: %v", err)
		}
	}

	ticks, err := j.RecentTicks(2)
	if err != nil {
		t.Fatalf("RecentTicks: %v", err)
	}
	if len(ticks) != 2 {
		t.Fatalf("expected 2 ticks, got %d", len(ticks))
	}
	if ticks[0].TickID != "tick-c" {
		t.Fatalf("expected newest first, got %s", ticks[0].TickID)
	}
	if ticks[0].Regime != "calm-stability" || ticks[0].Valence != 0.5 {
		t.Fatalf("round trip mismatch: %+v", ticks[0])
	}
}

func TestMetaVersionRoundTrip(t *testing.T) {
	j := tempJournal(t)

	var vec [128]float64
	vec[0] = 0.25
	vec[127] = -0.75

	v := MetaVersion{
		VersionID:         "meta-1",
		IdentityVector:    vec,
		StyleSignature:    map[string]float64{"concise": 0.4},
		BaselineV:         0.1,
		BaselineA:         0.3,
		BaselineU:         0.2,
		BaselineM:         0.6,
		TemporalCoherence: 0.95,
	}
	if err := j.RecordMeta(v); err != nil {
		t.Fatalf("RecordMeta: %v", err)
	}

	got, err := j.LatestMeta()
	if err != nil {
		t.Fatalf("LatestMeta: %v", err)
	}
	if got == nil {
		t.Fatal("expected a meta version")
	}
	if got.IdentityVector[0] != 0.25 || got.IdentityVector[127] != -0.75 {
		t.Fatalf("identity vector mismatch: %g %g", got.IdentityVector[0], got.IdentityVector[127])
	}
	if got.StyleSignature["concise"] != 0.4 {
		t.Fatalf("style mismatch: %v", got.StyleSignature)
	}
	if got.ParentID != "" {
		t.Fatalf("expected empty parent, got %q", got.ParentID)
	}
}

func TestLatestMetaEmpty(t *testing.T) {
	j := tempJournal(t)
	got, err := j.LatestMeta()
	if err != nil {
		t.Fatalf("LatestMeta: %v", err)
	}
	if got != nil {
		t.Fatalf("expected nil for empty table, got %+v", got)
	}
}

func TestMetaParentLink(t *testing.T) {
	j := tempJournal(t)
	base := time.Now().UTC()

	if err := j.RecordMeta(MetaVersion{VersionID: "m1", CreatedAt: base}); err != nil {
		t.Fatalf("RecordMeta m1: %v", err)
	}
	if err := j.RecordMeta(MetaVersion{VersionID: "m2", ParentID: "m1", CreatedAt: base.Add(time.Second)}); err != nil {
		t.Fatalf("RecordMeta m2: %v", err)
	}

	got, err := j.LatestMeta()
	if err != nil {
		t.Fatalf("LatestMeta: %v", err)
	}
	if got.VersionID != "m2" || got.ParentID != "m1" {
		t.Fatalf("expected m2 with parent m1, got %+v", got)
	}
}

func TestTaskLogHistory(t *testing.T) {
	j := tempJournal(t)

	entries := []TaskEntry{
		{TaskID: "t1", TaskType: "consolidation", Status: "completed", DurationMs: 12, Cycle: 1},
		{TaskID: "t2", TaskType: "indexing", Status: "failed", DurationMs: 3, Cycle: 1, Reason: "index locked"},
	}
	for _, e := range entries {
		if err := j.LogTask(e); err != nil {
			t.Fatalf("LogTask: %v", err)
		}
	}

	hist, err := j.TaskHistory(10)
	if err != nil {
		t.Fatalf("TaskHistory: %v", err)
	}
	if len(hist) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(hist))
	}
	if hist[0].TaskID != "t2" || hist[0].Reason != "index locked" {
		t.Fatalf("expected newest first with reason, got %+v", hist[0])
	}
	if hist[1].Reason != "" {
		t.Fatalf("expected empty reason, got %q", hist[1].Reason)
	}
}

func TestVectorEncoding(t *testing.T) {
	var v [128]float64
	v[3] = 1.5
	v[64] = -2.25

	out := decodeVector(encodeVector(v))
	if out != v {
		t.Fatal("vector encode/decode not symmetric")
	}
}
