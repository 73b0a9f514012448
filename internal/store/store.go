// Package store keeps the local play history in SQLite.
package store

import (
	"context"
	"database/sql"
	"fmt"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
	"github.com/jonboulle/clockwork"

	"github.com/abhisek/brainrush/internal/config"

	// Pure Go SQLite driver (no CGO).
	_ "modernc.org/sqlite"
)

// Store wraps the database and builds its queries with ent's SQL
// builder.
type Store struct {
	db    *sql.DB
	drv   *entsql.Driver
	clock clockwork.Clock
}

// Option configures a Store.
type Option func(*Store)

// WithClock sets the clock used for created_at timestamps.
func WithClock(c clockwork.Clock) Option {
	return func(s *Store) { s.clock = c }
}

// Open creates a new Store connected to the SQLite database at dsn.
// It applies recommended pragmas and creates missing tables.
func Open(dsn string, opts ...Option) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply pragmas: %w", err)
	}

	s := &Store{
		db:    db,
		drv:   entsql.OpenDB(dialect.SQLite, db),
		clock: clockwork.NewRealClock(),
	}
	for _, opt := range opts {
		opt(s)
	}

	if err := s.migrate(context.Background()); err != nil {
		db.Close()
		return nil, fmt.Errorf("auto-migrate: %w", err)
	}
	return s, nil
}

// OpenPath ensures the parent directory of path exists and opens it.
func OpenPath(path string, opts ...Option) (*Store, error) {
	if err := config.EnsureDir(path); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	return Open(path, opts...)
}

// DB returns the underlying *sql.DB for raw queries.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.drv.Close()
}

// applyPragmas configures SQLite for optimal single-user performance.
func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
		"PRAGMA synchronous = NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return fmt.Errorf("%s: %w", p, err)
		}
	}
	return nil
}

var schema = []string{
	`CREATE TABLE IF NOT EXISTS sessions (
		id TEXT PRIMARY KEY,
		game TEXT NOT NULL,
		combined REAL NOT NULL,
		authoritative INTEGER NOT NULL,
		flagged INTEGER NOT NULL,
		server_session_id TEXT NOT NULL DEFAULT '',
		rounds INTEGER NOT NULL,
		questions INTEGER NOT NULL,
		correct INTEGER NOT NULL,
		created_at INTEGER NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS rounds (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		session_id TEXT NOT NULL,
		game TEXT NOT NULL,
		round INTEGER NOT NULL,
		name TEXT NOT NULL DEFAULT '',
		score REAL NOT NULL,
		local_score REAL NOT NULL,
		authoritative INTEGER NOT NULL,
		flagged INTEGER NOT NULL,
		score_id TEXT NOT NULL DEFAULT '',
		correct INTEGER NOT NULL,
		wrong INTEGER NOT NULL,
		timed_out INTEGER NOT NULL,
		avg_time_ms REAL NOT NULL,
		min_time_ms INTEGER,
		duration_ms INTEGER NOT NULL,
		created_at INTEGER NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS rounds_session_id ON rounds (session_id)`,
	`CREATE INDEX IF NOT EXISTS rounds_created_at ON rounds (created_at)`,
	`CREATE TABLE IF NOT EXISTS round_categories (
		round_id INTEGER NOT NULL REFERENCES rounds (id) ON DELETE CASCADE,
		category TEXT NOT NULL,
		answers INTEGER NOT NULL,
		total_ms REAL NOT NULL,
		PRIMARY KEY (round_id, category)
	)`,
	`CREATE TABLE IF NOT EXISTS achievements (
		code TEXT PRIMARY KEY,
		session_id TEXT NOT NULL DEFAULT '',
		earned_at INTEGER NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS submissions (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		endpoint TEXT NOT NULL,
		payload TEXT,
		status INTEGER NOT NULL,
		response TEXT,
		latency_ms INTEGER NOT NULL,
		success INTEGER NOT NULL,
		error TEXT NOT NULL DEFAULT '',
		created_at INTEGER NOT NULL
	)`,
}

func (s *Store) migrate(ctx context.Context) error {
	for _, stmt := range schema {
		if err := s.drv.Exec(ctx, stmt, []any{}, nil); err != nil {
			return err
		}
	}
	return nil
}

// builder returns an ent SQL builder for the SQLite dialect.
func builder() *entsql.DialectBuilder {
	return entsql.Dialect(dialect.SQLite)
}
