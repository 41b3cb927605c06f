// Package store keeps the attempt log of the running trainer in SQLite.
// The database lives in memory and disappears when the process exits.
package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/verte-zerg/pitchtrainer/internal/model"

	_ "modernc.org/sqlite" // SQLite driver.
)

// Store wraps SQLite access for attempt data.
type Store struct {
	db *sql.DB
}

// Open creates an empty in-memory database and applies migrations.
func Open() (*Store, error) {
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		return nil, err
	}
	// Every connection to :memory: is a separate database.
	db.SetMaxOpenConns(1)
	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close on migration failure.
			_ = cerr
		}
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id INTEGER PRIMARY KEY,
			started_at TEXT NOT NULL,
			lower_pitch INTEGER NOT NULL,
			upper_pitch INTEGER NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS attempts (
			id INTEGER PRIMARY KEY,
			run_id INTEGER NOT NULL,
			challenge INTEGER NOT NULL,
			response INTEGER NOT NULL,
			correct INTEGER NOT NULL,
			streak INTEGER NOT NULL,
			latency_ms INTEGER NOT NULL,
			answered_at TEXT NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_attempts_run ON attempts(run_id);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// InsertRun records the start of a trainer run and returns its id.
func (s *Store) InsertRun(ctx context.Context, run model.Run) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (started_at, lower_pitch, upper_pitch) VALUES (?, ?, ?)`,
		run.StartedAt.Format(time.RFC3339Nano),
		run.Lower,
		run.Upper,
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// InsertAttempt appends one judged response.
func (s *Store) InsertAttempt(ctx context.Context, a model.Attempt) error {
	correct := 0
	if a.Correct {
		correct = 1
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO attempts (run_id, challenge, response, correct, streak, latency_ms, answered_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		a.RunID,
		a.Challenge,
		a.Response,
		correct,
		a.Streak,
		a.LatencyMs,
		a.AnsweredAt.Format(time.RFC3339Nano),
	)
	return err
}

// ListAttempts returns the attempts of a run in answer order.
func (s *Store) ListAttempts(ctx context.Context, runID int64) ([]model.Attempt, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT run_id, challenge, response, correct, streak, latency_ms, answered_at
		FROM attempts
		WHERE run_id = ?
		ORDER BY id ASC`, runID)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var attempts []model.Attempt
	for rows.Next() {
		var a model.Attempt
		var correct int
		var answeredAt string
		if err := rows.Scan(&a.RunID, &a.Challenge, &a.Response, &correct, &a.Streak, &a.LatencyMs, &answeredAt); err != nil {
			return nil, err
		}
		parsed, err := time.Parse(time.RFC3339Nano, answeredAt)
		if err != nil {
			return nil, err
		}
		a.Correct = correct != 0
		a.AnsweredAt = parsed
		attempts = append(attempts, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return attempts, nil
}

// NoteAggregates aggregates a run's attempts by challenge pitch, lowest first.
func (s *Store) NoteAggregates(ctx context.Context, runID int64) ([]model.NoteAggregate, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT challenge, SUM(correct) AS correct, SUM(1 - correct) AS incorrect,
			SUM(latency_ms) AS latency_sum_ms, COUNT(*) AS latency_count
		FROM attempts
		WHERE run_id = ?
		GROUP BY challenge
		ORDER BY challenge ASC`, runID)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var result []model.NoteAggregate
	for rows.Next() {
		var agg model.NoteAggregate
		if err := rows.Scan(&agg.Pitch, &agg.Correct, &agg.Incorrect, &agg.LatencySumMs, &agg.LatencyCount); err != nil {
			return nil, err
		}
		result = append(result, agg)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// Confusions returns the most frequent challenge -> wrong response pairs of a run.
func (s *Store) Confusions(ctx context.Context, runID int64, limit int) ([]model.Confusion, error) {
	if limit <= 0 {
		return nil, nil
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT challenge, response, COUNT(*) AS n
		FROM attempts
		WHERE run_id = ? AND correct = 0
		GROUP BY challenge, response
		ORDER BY n DESC, challenge ASC, response ASC
		LIMIT ?`, runID, limit)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var result []model.Confusion
	for rows.Next() {
		var c model.Confusion
		if err := rows.Scan(&c.Challenge, &c.Response, &c.Count); err != nil {
			return nil, err
		}
		result = append(result, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
