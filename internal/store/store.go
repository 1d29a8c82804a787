// Package store persists editor selections (layout and default page per
// content path) in SQLite so they survive a content reload.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

const schemaDDL = `CREATE TABLE IF NOT EXISTS selections (
	path         TEXT PRIMARY KEY,
	layout       TEXT NOT NULL DEFAULT '',
	default_page TEXT NOT NULL DEFAULT '',
	updated_at   TEXT NOT NULL
)`

// Selection is what an editor chose for one content path.
type Selection struct {
	Path        string
	Layout      string
	DefaultPage string
	UpdatedAt   time.Time
}

// Store is a SQLite-backed selection store.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// Open opens (creating if needed) the database at dsn. Use ":memory:" for a
// throwaway store.
func Open(ctx context.Context, dsn string) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open selection store %s: %w", dsn, err)
	}
	// A :memory: database exists per connection.
	db.SetMaxOpenConns(1)
	if _, err := db.ExecContext(ctx, schemaDDL); err != nil {
		db.Close()
		return nil, fmt.Errorf("create selections table: %w", err)
	}
	return &Store{db: db, now: time.Now}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// SetLayout records the layout selected for path.
func (s *Store) SetLayout(ctx context.Context, path, layout string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO selections (path, layout, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(path) DO UPDATE SET layout = excluded.layout, updated_at = excluded.updated_at`,
		path, layout, s.stamp())
	if err != nil {
		return fmt.Errorf("set layout for %s: %w", path, err)
	}
	return nil
}

// SetDefaultPage records the default page selected for the folder at path.
func (s *Store) SetDefaultPage(ctx context.Context, path, id string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO selections (path, default_page, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(path) DO UPDATE SET default_page = excluded.default_page, updated_at = excluded.updated_at`,
		path, id, s.stamp())
	if err != nil {
		return fmt.Errorf("set default page for %s: %w", path, err)
	}
	return nil
}

// All returns every stored selection keyed by path.
func (s *Store) All(ctx context.Context) (map[string]Selection, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT path, layout, default_page, updated_at FROM selections`)
	if err != nil {
		return nil, fmt.Errorf("query selections: %w", err)
	}
	defer rows.Close()

	out := make(map[string]Selection)
	for rows.Next() {
		var sel Selection
		var updated string
		if err := rows.Scan(&sel.Path, &sel.Layout, &sel.DefaultPage, &updated); err != nil {
			return nil, fmt.Errorf("scan selection: %w", err)
		}
		ts, err := time.Parse(time.RFC3339Nano, updated)
		if err != nil {
			return nil, fmt.Errorf("parse updated_at of %s: %w", sel.Path, err)
		}
		sel.UpdatedAt = ts
		out[sel.Path] = sel
	}
	return out, rows.Err()
}

func (s *Store) stamp() string {
	return s.now().UTC().Format(time.RFC3339Nano)
}
