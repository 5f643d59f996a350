package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// Revision identifies one write to a key in SQLite storage.
type Revision struct {
	Revision int64
	Origin   string
}

// SQLiteKV implements KV over the kv table. Every write bumps the row's
// revision and stamps the writer's origin so other processes can detect it.
type SQLiteKV struct {
	db     SQLDB
	origin string
}

// Compile-time check that *SQLiteKV satisfies KV.
var _ KV = (*SQLiteKV)(nil)

// NewSQLiteKV creates a SQLiteKV writing as origin.
// PRE: InitDB has run on db; origin is unique per process
// POST: store is ready for use
func NewSQLiteKV(db SQLDB, origin string) *SQLiteKV {
	return &SQLiteKV{db: db, origin: origin}
}

// Origin returns the writer identity stamped on every row this store writes.
func (s *SQLiteKV) Origin() string {
	return s.origin
}

// Get returns the value stored under key.
// PRE: key is non-empty
// POST: ok is false when no row exists
func (s *SQLiteKV) Get(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM kv WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get %s: %w: %w", key, ErrUnavailable, err)
	}
	return value, true, nil
}

// Set inserts or replaces the value under key.
// PRE: key is non-empty
// POST: row persisted with revision incremented and origin set to this store's origin
func (s *SQLiteKV) Set(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO kv (key, value, revision, origin, updated_at) VALUES (?, ?, 1, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET value=excluded.value, revision=kv.revision+1,
		 origin=excluded.origin, updated_at=excluded.updated_at`,
		key, value, s.origin, time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("set %s: %w: %w", key, ErrUnavailable, err)
	}
	return nil
}

// Remove deletes the row for key.
func (s *SQLiteKV) Remove(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM kv WHERE key = ?`, key); err != nil {
		return fmt.Errorf("remove %s: %w: %w", key, ErrUnavailable, err)
	}
	return nil
}

// Revisions returns the current revision and last writer of every key.
// PRE: none
// POST: returns an empty map when the table is empty
func (s *SQLiteKV) Revisions(ctx context.Context) (map[string]Revision, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT key, revision, origin FROM kv`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make(map[string]Revision)
	for rows.Next() {
		var key string
		var r Revision
		if err := rows.Scan(&key, &r.Revision, &r.Origin); err != nil {
			return nil, err
		}
		out[key] = r
	}
	return out, rows.Err()
}
