package journal

import (
	"database/sql"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"math"
	"time"

	_ "modernc.org/sqlite"

	"github.com/rork/affective-core/go-core/internal/reflective"
)

// #region schema
const schema = `
CREATE TABLE IF NOT EXISTS tick_snapshots (
	tick_id       TEXT PRIMARY KEY,
	valence       REAL NOT NULL,
	arousal       REAL NOT NULL,
	uncertainty   REAL NOT NULL,
	motivation    REAL NOT NULL,
	regime        TEXT NOT NULL,
	cognitive_load REAL NOT NULL,
	commentary    TEXT NOT NULL,
	self_coherence REAL NOT NULL,
	narrative_continuity REAL NOT NULL,
	introspective_density REAL NOT NULL,
	created_at    TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS meta_versions (
	version_id     TEXT PRIMARY KEY,
	parent_id      TEXT,
	identity_vector BLOB NOT NULL,
	style_json     TEXT NOT NULL,
	baseline_v     REAL NOT NULL,
	baseline_a     REAL NOT NULL,
	baseline_u     REAL NOT NULL,
	baseline_m     REAL NOT NULL,
	temporal_coherence REAL NOT NULL,
	created_at     TEXT NOT NULL,
	FOREIGN KEY (parent_id) REFERENCES meta_versions(version_id)
);

CREATE TABLE IF NOT EXISTS maintenance_log (
	id           INTEGER PRIMARY KEY AUTOINCREMENT,
	task_id      TEXT NOT NULL,
	task_type    TEXT NOT NULL,
	status       TEXT NOT NULL,
	duration_ms  INTEGER NOT NULL,
	cycle        INTEGER NOT NULL,
	reason       TEXT,
	created_at   TEXT NOT NULL
);
`

// #endregion schema

// #region types

// TickRecord is one persisted reflective tick.
type TickRecord struct {
	TickID               string
	Valence              float64
	Arousal              float64
	Uncertainty          float64
	Motivation           float64
	Regime               string
	CognitiveLoad        float64
	Commentary           string
	SelfCoherence        float64
	NarrativeContinuity  float64
	IntrospectiveDensity float64
	CreatedAt            time.Time
}

// MetaVersion is one persisted meta-model version with a parent link.
type MetaVersion struct {
	VersionID         string
	ParentID          string
	IdentityVector    [reflective.IdentityDim]float64
	StyleSignature    map[string]float64
	BaselineV         float64
	BaselineA         float64
	BaselineU         float64
	BaselineM         float64
	TemporalCoherence float64
	CreatedAt         time.Time
}

// TaskEntry is one maintenance task outcome.
type TaskEntry struct {
	TaskID     string
	TaskType   string
	Status     string
	DurationMs int64
	Cycle      int
	Reason     string
	CreatedAt  time.Time
}

// #endregion types

// #region store
// Journal persists tick snapshots, meta-model versions, and the
// maintenance log in SQLite.
type Journal struct {
	db *sql.DB
}

// Open opens (or creates) the journal database and runs migrations.
func Open(path string) (*Journal, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open journal: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		return nil, fmt.Errorf("pragma: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		return nil, fmt.Errorf("pragma fk: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return &Journal{db: db}, nil
}

// Close closes the underlying database connection.
func (j *Journal) Close() error {
	return j.db.Close()
}

// DB returns the underlying *sql.DB for inspection tooling.
func (j *Journal) DB() *sql.DB {
	return j.db
}

// #endregion store

// #region ticks
// RecordTick inserts one tick snapshot.
func (j *Journal) RecordTick(rec TickRecord) error {
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}
	_, err := j.db.Exec(
		`INSERT INTO tick_snapshots
		 (tick_id, valence, arousal, uncertainty, motivation, regime, cognitive_load,
		  commentary, self_coherence, narrative_continuity, introspective_density, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.TickID, rec.Valence, rec.Arousal, rec.Uncertainty, rec.Motivation,
		rec.Regime, rec.CognitiveLoad, rec.Commentary,
		rec.SelfCoherence, rec.NarrativeContinuity, rec.IntrospectiveDensity,
		rec.CreatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("record tick: %w", err)
	}
	return nil
}

// RecentTicks returns up to n most recent ticks, newest first.
func (j *Journal) RecentTicks(n int) ([]TickRecord, error) {
	rows, err := j.db.Query(
		`SELECT tick_id, valence, arousal, uncertainty, motivation, regime, cognitive_load,
		        commentary, self_coherence, narrative_continuity, introspective_density, created_at
		 FROM tick_snapshots ORDER BY created_at DESC LIMIT ?`, n,
	)
	if err != nil {
		return nil, fmt.Errorf("recent ticks: %w", err)
	}
	defer rows.Close()

	var out []TickRecord
	for rows.Next() {
		var rec TickRecord
		var createdStr string
		if err := rows.Scan(&rec.TickID, &rec.Valence, &rec.Arousal, &rec.Uncertainty,
			&rec.Motivation, &rec.Regime, &rec.CognitiveLoad, &rec.Commentary,
			&rec.SelfCoherence, &rec.NarrativeContinuity, &rec.IntrospectiveDensity,
			&createdStr); err != nil {
			return nil, fmt.Errorf("scan tick: %w", err)
		}
		rec.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdStr)
		out = append(out, rec)
	}
	return out, rows.Err()
}

// #endregion ticks

// #region meta
// RecordMeta inserts a meta-model version.
func (j *Journal) RecordMeta(v MetaVersion) error {
	if v.CreatedAt.IsZero() {
		v.CreatedAt = time.Now().UTC()
	}
	styleJSON, err := json.Marshal(v.StyleSignature)
	if err != nil {
		return fmt.Errorf("marshal style: %w", err)
	}

	var parentPtr interface{}
	if v.ParentID != "" {
		parentPtr = v.ParentID
	}

	_, err = j.db.Exec(
		`INSERT INTO meta_versions
		 (version_id, parent_id, identity_vector, style_json,
		  baseline_v, baseline_a, baseline_u, baseline_m, temporal_coherence, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		v.VersionID, parentPtr, encodeVector(v.IdentityVector), string(styleJSON),
		v.BaselineV, v.BaselineA, v.BaselineU, v.BaselineM, v.TemporalCoherence,
		v.CreatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("record meta: %w", err)
	}
	return nil
}

// LatestMeta returns the most recent meta-model version, or nil if the
// table is empty.
func (j *Journal) LatestMeta() (*MetaVersion, error) {
	row := j.db.QueryRow(
		`SELECT version_id, parent_id, identity_vector, style_json,
		        baseline_v, baseline_a, baseline_u, baseline_m, temporal_coherence, created_at
		 FROM meta_versions ORDER BY created_at DESC LIMIT 1`,
	)

	var v MetaVersion
	var parentID sql.NullString
	var vecBlob []byte
	var styleJSON, createdStr string
	err := row.Scan(&v.VersionID, &parentID, &vecBlob, &styleJSON,
		&v.BaselineV, &v.BaselineA, &v.BaselineU, &v.BaselineM,
		&v.TemporalCoherence, &createdStr)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("latest meta: %w", err)
	}

	if parentID.Valid {
		v.ParentID = parentID.String
	}
	v.IdentityVector = decodeVector(vecBlob)
	if err := json.Unmarshal([]byte(styleJSON), &v.StyleSignature); err != nil {
		return nil, fmt.Errorf("unmarshal style: %w", err)
	}
	v.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdStr)
	return &v, nil
}

// #endregion meta

// #region maintenance
// LogTask appends one maintenance task outcome.
func (j *Journal) LogTask(entry TaskEntry) error {
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}
	_, err := j.db.Exec(
		`INSERT INTO maintenance_log (task_id, task_type, status, duration_ms, cycle, reason, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		entry.TaskID, entry.TaskType, entry.Status, entry.DurationMs, entry.Cycle,
		nullIfEmpty(entry.Reason), entry.CreatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("log task: %w", err)
	}
	return nil
}

// TaskHistory returns up to n most recent task outcomes, newest first.
func (j *Journal) TaskHistory(n int) ([]TaskEntry, error) {
	rows, err := j.db.Query(
		`SELECT task_id, task_type, status, duration_ms, cycle, reason, created_at
		 FROM maintenance_log ORDER BY id DESC LIMIT ?`, n,
	)
	if err != nil {
		return nil, fmt.Errorf("task history: %w", err)
	}
	defer rows.Close()

	var out []TaskEntry
	for rows.Next() {
		var e TaskEntry
		var reason sql.NullString
		var createdStr string
		if err := rows.Scan(&e.TaskID, &e.TaskType, &e.Status, &e.DurationMs,
			&e.Cycle, &reason, &createdStr); err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		if reason.Valid {
			e.Reason = reason.String
		}
		e.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdStr)
		out = append(out, e)
	}
	return out, rows.Err()
}

// #endregion maintenance

// #region helpers
func encodeVector(v [reflective.IdentityDim]float64) []byte {
	buf := make([]byte, reflective.IdentityDim*8)
	for i, f := range v {
		binary.LittleEndian.PutUint64(buf[i*8:], math.Float64bits(f))
	}
	return buf
}

func decodeVector(b []byte) [reflective.IdentityDim]float64 {
	var v [reflective.IdentityDim]float64
	for i := range v {
		if i*8+8 <= len(b) {
			v[i] = math.Float64frombits(binary.LittleEndian.Uint64(b[i*8:]))
		}
	}
	return v
}

func nullIfEmpty(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

// #endregion helpers
