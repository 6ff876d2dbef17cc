// Package store handles SQLite persistence of permutation run history.
package store

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"time"

	"github.com/verte-zerg/perky/internal/model"
	"github.com/verte-zerg/perky/internal/progress"

	_ "modernc.org/sqlite" // SQLite driver.
)

// Store wraps SQLite access for run history.
type Store struct {
	db *sql.DB
}

// Open opens or creates the SQLite database and applies migrations.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
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
			metric TEXT NOT NULL,
			goal TEXT NOT NULL,
			weight TEXT NOT NULL,
			total_permutations INTEGER NOT NULL,
			elapsed_ms INTEGER NOT NULL,
			score INTEGER NOT NULL,
			truncated INTEGER NOT NULL,
			total_records INTEGER NOT NULL,
			unique_records INTEGER NOT NULL,
			selected_records INTEGER NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_runs_started_at ON runs(started_at);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// InsertRun stores a completed permutation run.
func (s *Store) InsertRun(ctx context.Context, startedAt time.Time, meta progress.Metadata) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (
			started_at, metric, goal, weight,
			total_permutations, elapsed_ms, score, truncated,
			total_records, unique_records, selected_records
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		startedAt.UTC().Format(time.RFC3339),
		meta.Metric.String(),
		meta.Goal.String(),
		meta.Weight.String(),
		int64(meta.TotalPermutations),
		meta.Elapsed.Milliseconds(),
		int64(meta.Score),
		boolToInt(meta.Truncated),
		meta.TotalRecords,
		meta.TotalUniqueRecords,
		meta.TotalSelectedRecords,
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// ListRuns returns runs, newest first, limited to last when positive.
func (s *Store) ListRuns(ctx context.Context, last int) ([]model.RunRow, error) {
	query := `SELECT id, started_at, metric, goal, weight,
		total_permutations, elapsed_ms, score, truncated,
		total_records, unique_records, selected_records
		FROM runs ORDER BY started_at DESC, id DESC`
	args := []any{}
	if last > 0 {
		query += " LIMIT ?"
		args = append(args, last)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort close after iteration.
			_ = cerr
		}
	}()
	var result []model.RunRow
	for rows.Next() {
		var row model.RunRow
		var startedAt string
		var truncated int
		var total, score int64
		if err := rows.Scan(&row.ID, &startedAt, &row.Metric, &row.Goal, &row.Weight,
			&total, &row.ElapsedMs, &score, &truncated,
			&row.TotalRecords, &row.UniqueRecords, &row.SelectedRecords); err != nil {
			return nil, err
		}
		if parsed, err := time.Parse(time.RFC3339, startedAt); err == nil {
			row.StartedAt = parsed
		}
		row.TotalPermutations = uint64(total)
		row.Score = uint64(score)
		row.Truncated = truncated != 0
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
