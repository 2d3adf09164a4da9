// Package journal persists active-learning runs and their round-by-round
// labeling decisions in SQLite, so a finished run can be inspected or
// exported as a replay fixture.
package journal

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// #region schema

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	run_id        TEXT PRIMARY KEY,
	heuristic     TEXT NOT NULL,
	query_size    INTEGER NOT NULL,
	iterations    INTEGER NOT NULL,
	seed          INTEGER NOT NULL,
	dataset_size  INTEGER NOT NULL,
	created_at    TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS round_log (
	id            INTEGER PRIMARY KEY AUTOINCREMENT,
	run_id        TEXT NOT NULL,
	round_num     INTEGER NOT NULL,
	labeled_json  TEXT NOT NULL,
	pool_size     INTEGER NOT NULL,
	top_score     REAL NOT NULL,
	mean_score    REAL NOT NULL,
	duration_ms   INTEGER NOT NULL,
	created_at    TEXT NOT NULL,
	FOREIGN KEY (run_id) REFERENCES runs(run_id)
);

CREATE INDEX IF NOT EXISTS idx_round_log_run
ON round_log(run_id, round_num);
`

// #endregion schema

// #region journal-struct

// Journal manages run and round persistence in SQLite.
type Journal struct {
	db *sql.DB
}

// Open opens a SQLite database and runs migrations.
func Open(dbPath string) (*Journal, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
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

// DB returns the underlying *sql.DB for read-only consumers.
func (j *Journal) DB() *sql.DB {
	return j.db
}

// #endregion journal-struct

// #region create-run

// CreateRun inserts a new run row with a fresh UUID and returns it.
func (j *Journal) CreateRun(heuristicName string, querySize, iterations int, seed int64, datasetSize int) (RunRecord, error) {
	rec := RunRecord{
		RunID:       uuid.New().String(),
		Heuristic:   heuristicName,
		QuerySize:   querySize,
		Iterations:  iterations,
		Seed:        seed,
		DatasetSize: datasetSize,
		CreatedAt:   time.Now().UTC(),
	}

	_, err := j.db.Exec(
		`INSERT INTO runs (run_id, heuristic, query_size, iterations, seed, dataset_size, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		rec.RunID, rec.Heuristic, rec.QuerySize, rec.Iterations, rec.Seed, rec.DatasetSize,
		rec.CreatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return RunRecord{}, fmt.Errorf("insert run: %w", err)
	}
	return rec, nil
}

// #endregion create-run

// #region record-round

// RecordRound appends one round to a run's log.
func (j *Journal) RecordRound(rec RoundRecord) error {
	labeledJSON, err := json.Marshal(rec.Labeled)
	if err != nil {
		return fmt.Errorf("marshal labeled indices: %w", err)
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}

	_, err = j.db.Exec(
		`INSERT INTO round_log (run_id, round_num, labeled_json, pool_size, top_score, mean_score, duration_ms, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.RunID, rec.Round, string(labeledJSON), rec.PoolSize,
		rec.TopScore, rec.MeanScore, rec.DurationMS,
		rec.CreatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("insert round: %w", err)
	}
	return nil
}

// #endregion record-round

// #region get-run

// GetRun retrieves a run by ID.
func (j *Journal) GetRun(runID string) (RunRecord, error) {
	var rec RunRecord
	var createdStr string
	err := j.db.QueryRow(
		`SELECT run_id, heuristic, query_size, iterations, seed, dataset_size, created_at
		 FROM runs WHERE run_id = ?`, runID,
	).Scan(&rec.RunID, &rec.Heuristic, &rec.QuerySize, &rec.Iterations, &rec.Seed, &rec.DatasetSize, &createdStr)
	if err != nil {
		return RunRecord{}, fmt.Errorf("get run %s: %w", runID, err)
	}
	rec.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdStr)
	return rec, nil
}

// #endregion get-run

// #region list-runs

// ListRuns returns the most recent runs, newest first.
func (j *Journal) ListRuns(limit int) ([]RunRecord, error) {
	rows, err := j.db.Query(
		`SELECT run_id, heuristic, query_size, iterations, seed, dataset_size, created_at
		 FROM runs ORDER BY created_at DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var records []RunRecord
	for rows.Next() {
		var rec RunRecord
		var createdStr string
		if err := rows.Scan(&rec.RunID, &rec.Heuristic, &rec.QuerySize, &rec.Iterations, &rec.Seed, &rec.DatasetSize, &createdStr); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		rec.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdStr)
		records = append(records, rec)
	}
	return records, rows.Err()
}

// #endregion list-runs

// #region list-rounds

// ListRounds returns a run's rounds in round order.
func (j *Journal) ListRounds(runID string) ([]RoundRecord, error) {
	rows, err := j.db.Query(
		`SELECT run_id, round_num, labeled_json, pool_size, top_score, mean_score, duration_ms, created_at
		 FROM round_log WHERE run_id = ? ORDER BY round_num ASC`, runID,
	)
	if err != nil {
		return nil, fmt.Errorf("list rounds: %w", err)
	}
	defer rows.Close()

	var records []RoundRecord
	for rows.Next() {
		var rec RoundRecord
		var labeledJSON string
		var createdStr string
		if err := rows.Scan(&rec.RunID, &rec.Round, &labeledJSON, &rec.PoolSize,
			&rec.TopScore, &rec.MeanScore, &rec.DurationMS, &createdStr); err != nil {
			return nil, fmt.Errorf("scan round: %w", err)
		}
		if err := json.Unmarshal([]byte(labeledJSON), &rec.Labeled); err != nil {
			return nil, fmt.Errorf("unmarshal labeled indices: %w", err)
		}
		rec.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdStr)
		records = append(records, rec)
	}
	return records, rows.Err()
}

// #endregion list-rounds
