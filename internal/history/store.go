// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package history records completed runs in a SQLite database so earlier
// papers can be listed and exported.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/research-writer/pkg/types"
)

const dbFile = "history.db"

// timeLayout is fixed-width so stored timestamps sort as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Store manages the run history database.
type Store struct {
	db         *sql.DB
	dir        string
	maxResults int
}

// NewStore opens or creates dir/history.db and its schema.
func NewStore(cfg types.HistoryConfig) (*Store, error) {
	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating history directory: %w", err)
	}

	db, err := sql.Open("sqlite3", filepath.Join(cfg.Dir, dbFile)+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = 20
	}

	s := &Store{db: db, dir: cfg.Dir, maxResults: maxResults}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			query TEXT NOT NULL,
			model TEXT NOT NULL,
			topic TEXT,
			parse_mode TEXT,
			output_path TEXT,
			fallback INTEGER NOT NULL DEFAULT 0,
			status TEXT,
			started_at TEXT NOT NULL,
			finished_at TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_started_at ON runs(started_at)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// NewID returns a fresh run identifier.
func NewID() string {
	return uuid.NewString()
}

// Record inserts or replaces a run. A run without an ID is assigned one.
func (s *Store) Record(ctx context.Context, r *types.RunRecord) error {
	if r.ID == "" {
		r.ID = NewID()
	}
	fallback := 0
	if r.Fallback {
		fallback = 1
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (id, query, model, topic, parse_mode, output_path, fallback, status, started_at, finished_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
			query=excluded.query, model=excluded.model, topic=excluded.topic,
			parse_mode=excluded.parse_mode, output_path=excluded.output_path,
			fallback=excluded.fallback, status=excluded.status,
			started_at=excluded.started_at, finished_at=excluded.finished_at`,
		r.ID, r.Query, r.Model, r.Topic, string(r.ParseMode), r.OutputPath, fallback, r.Status,
		formatTime(r.StartedAt), formatTime(r.FinishedAt),
	)
	if err != nil {
		return fmt.Errorf("recording run %s: %w", r.ID, err)
	}
	return nil
}

// List returns up to limit runs, newest first. A non-positive limit uses
// the configured default.
func (s *Store) List(ctx context.Context, limit int) ([]types.RunRecord, error) {
	if limit <= 0 {
		limit = s.maxResults
	}
	return s.query(ctx,
		`SELECT id, query, model, topic, parse_mode, output_path, fallback, status, started_at, finished_at
		 FROM runs ORDER BY started_at DESC, id LIMIT ?`, limit)
}

// Search returns up to limit runs whose query or topic contains term,
// newest first.
func (s *Store) Search(ctx context.Context, term string, limit int) ([]types.RunRecord, error) {
	if limit <= 0 {
		limit = s.maxResults
	}
	pattern := "%" + term + "%"
	return s.query(ctx,
		`SELECT id, query, model, topic, parse_mode, output_path, fallback, status, started_at, finished_at
		 FROM runs WHERE query LIKE ? OR topic LIKE ?
		 ORDER BY started_at DESC, id LIMIT ?`, pattern, pattern, limit)
}

func (s *Store) query(ctx context.Context, q string, args ...any) ([]types.RunRecord, error) {
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var runs []types.RunRecord
	for rows.Next() {
		var (
			r                         types.RunRecord
			topic, mode, path, status sql.NullString
			started                   string
			finished                  sql.NullString
			fallback                  int
		)
		if err := rows.Scan(&r.ID, &r.Query, &r.Model, &topic, &mode, &path, &fallback, &status, &started, &finished); err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		r.Topic = topic.String
		r.ParseMode = types.ParseMode(mode.String)
		r.OutputPath = path.String
		r.Status = status.String
		r.Fallback = fallback != 0
		r.StartedAt = parseTime(started)
		r.FinishedAt = parseTime(finished.String)
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating runs: %w", err)
	}
	return runs, nil
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) time.Time {
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
