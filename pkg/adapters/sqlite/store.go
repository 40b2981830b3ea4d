// Package sqlite stores tours, analytics events and client key-values in a
// single SQLite database using the pure Go modernc driver.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	// Pure Go SQLite driver (no CGO).
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS tours (
	id         TEXT PRIMARY KEY,
	name       TEXT NOT NULL DEFAULT '',
	is_active  INTEGER NOT NULL DEFAULT 0,
	created_at INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS tour_steps (
	tour_id    TEXT NOT NULL REFERENCES tours(id) ON DELETE CASCADE,
	step_order INTEGER NOT NULL,
	step_id    TEXT NOT NULL DEFAULT '',
	title      TEXT NOT NULL DEFAULT '',
	content    TEXT NOT NULL DEFAULT '',
	target     TEXT NOT NULL DEFAULT '',
	placement  TEXT NOT NULL DEFAULT '',
	PRIMARY KEY (tour_id, step_order)
);
CREATE TABLE IF NOT EXISTS kv (
	key   TEXT PRIMARY KEY,
	value TEXT NOT NULL
);
`

// analyticsSchema is formatted with the tour_id column constraint.
const analyticsSchema = `
CREATE TABLE IF NOT EXISTS tour_analytics (
	id              TEXT PRIMARY KEY,
	tour_id         TEXT NOT NULL%s,
	event_type      TEXT NOT NULL,
	step_index      INTEGER,
	user_identifier TEXT NOT NULL DEFAULT '',
	metadata        TEXT NOT NULL DEFAULT '{}',
	created_at      INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_tour_analytics_tour ON tour_analytics(tour_id, created_at);
`

const tourReference = " REFERENCES tours(id) ON DELETE CASCADE"

// Option configures Open.
type Option func(*options)

type options struct {
	externalTours bool
}

// WithExternalTours creates the analytics table without the foreign key to
// tours, for setups where tours live outside the database. The table keeps
// whichever shape it was first created with.
func WithExternalTours() Option {
	return func(o *options) { o.externalTours = true }
}

// Store holds the database handle shared by the repositories.
type Store struct {
	db *sql.DB
}

// Open connects to the SQLite database at path, creating it and its tables when needed.
// Analytics rows reference their tour and go away with it.
func Open(path string, opts ...Option) (*Store, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create database dir: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// A single writer keeps SQLite free of SQLITE_BUSY under concurrent handlers.
	db.SetMaxOpenConns(1)

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply pragmas: %w", err)
	}
	ref := tourReference
	if o.externalTours {
		ref = ""
	}
	if _, err := db.ExecContext(context.Background(), schema+fmt.Sprintf(analyticsSchema, ref)); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return &Store{db: db}, nil
}

// DB returns the underlying *sql.DB for raw queries.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Tours returns the tour repository backed by this store.
func (s *Store) Tours() *Repository {
	return &Repository{db: s.db}
}

// Events returns the analytics event store backed by this store.
func (s *Store) Events() *EventStore {
	return &EventStore{db: s.db}
}

// KV returns the key-value store backed by this store.
func (s *Store) KV() *KV {
	return &KV{db: s.db}
}

// applyPragmas configures SQLite for a small single-node service.
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
