// Package runlog keeps a SQLite history of fit runs.
package runlog

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/runningwild/linefit/pkg/geom"
)

const schema = `
CREATE TABLE IF NOT EXISTS fit_runs (
	run_id          TEXT PRIMARY KEY,
	created_at_ns   INTEGER NOT NULL,
	input           TEXT NOT NULL,
	points          INTEGER NOT NULL,
	confidence      REAL NOT NULL,
	threshold       REAL NOT NULL,
	inlier_fraction REAL NOT NULL,
	seed            INTEGER NOT NULL,
	workers         INTEGER NOT NULL,
	status          TEXT NOT NULL,
	reason          TEXT NOT NULL,
	trials          INTEGER NOT NULL,
	inliers         INTEGER NOT NULL,
	p0_x REAL, p0_y REAL, p1_x REAL, p1_y REAL
)`

// Run is one row of the history.
type Run struct {
	ID        string
	CreatedAt time.Time

	Input          string
	Points         int
	Confidence     float64
	Threshold      float64
	InlierFraction float64
	Seed           uint64
	Workers        int

	Status  string
	Reason  string
	Trials  int
	Inliers int
	P0, P1  geom.Point // Zero for failed runs
}

type Store struct {
	db *sql.DB
}

// Open opens or creates the history database at path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open history: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("%s: %w", pragma, err)
		}
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error { return s.db.Close() }

// Record inserts r. An empty ID is replaced with a new UUID and a zero
// CreatedAt with the current time; both are written back to r.
func (s *Store) Record(ctx context.Context, r *Run) error {
	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO fit_runs (
			run_id, created_at_ns, input, points, confidence, threshold,
			inlier_fraction, seed, workers, status, reason, trials, inliers,
			p0_x, p0_y, p1_x, p1_y
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.CreatedAt.UnixNano(), r.Input, r.Points, r.Confidence, r.Threshold,
		r.InlierFraction, int64(r.Seed), r.Workers, r.Status, r.Reason, r.Trials, r.Inliers,
		r.P0.X, r.P0.Y, r.P1.X, r.P1.Y,
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}
	return nil
}

// List returns up to limit runs, newest first. limit <= 0 returns all.
func (s *Store) List(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT run_id, created_at_ns, input, points, confidence, threshold,
			inlier_fraction, seed, workers, status, reason, trials, inliers,
			p0_x, p0_y, p1_x, p1_y
		FROM fit_runs
		ORDER BY created_at_ns DESC, rowid DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		var createdNs, seed int64
		if err := rows.Scan(&r.ID, &createdNs, &r.Input, &r.Points, &r.Confidence, &r.Threshold,
			&r.InlierFraction, &seed, &r.Workers, &r.Status, &r.Reason, &r.Trials, &r.Inliers,
			&r.P0.X, &r.P0.Y, &r.P1.X, &r.P1.Y); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		r.CreatedAt = time.Unix(0, createdNs)
		r.Seed = uint64(seed)
		runs = append(runs, r)
	}
	return runs, rows.Err()
}
