// Package store persists the set of listing identities seen across runs.
// It is the sole source of cross-run dedup truth: Record is
// insert-if-absent, and Purge bounds growth by dropping entries older than
// the retention window.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteStore keeps seen listing identities in a SQLite database.
type SQLiteStore struct {
	db *sql.DB
	mu sync.Mutex
}

// OpenSQLite opens (or creates) the database at path and ensures the
// seen_listings table exists.
func OpenSQLite(path string) (*SQLiteStore, error) {
	// modernc sqlite DSN pragma syntax: file:foo.db?_pragma=busy_timeout(5000)
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite db: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging sqlite db: %w", err)
	}

	createTable := `CREATE TABLE IF NOT EXISTS seen_listings (
		identity_key TEXT PRIMARY KEY,
		source       TEXT,
		title        TEXT,
		first_seen   TIMESTAMP
	)`
	if _, err := db.Exec(createTable); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating seen_listings table: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Record inserts the identity if it is absent and reports whether it was
// new. The check-and-insert is a single INSERT OR IGNORE under a mutex, so
// of any number of concurrent calls for the same key exactly one sees true.
func (s *SQLiteStore) Record(ctx context.Context, key, source, title string, firstSeen time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx,
		"INSERT OR IGNORE INTO seen_listings (identity_key, source, title, first_seen) VALUES (?, ?, ?, ?)",
		key, source, title, firstSeen.UTC())
	if err != nil {
		return false, fmt.Errorf("recording %s: %w", key, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("recording %s: %w", key, err)
	}
	return n == 1, nil
}

// Purge deletes entries first seen before now minus retention and returns
// how many were removed.
func (s *SQLiteStore) Purge(ctx context.Context, retention time.Duration) (int64, error) {
	cutoff := time.Now().UTC().Add(-retention)
	res, err := s.db.ExecContext(ctx, "DELETE FROM seen_listings WHERE first_seen < ?", cutoff)
	if err != nil {
		return 0, fmt.Errorf("purging entries older than %v: %w", retention, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("purging entries older than %v: %w", retention, err)
	}
	return n, nil
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
