package store

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore keeps seen listing identities in a Postgres table, for
// deployments where several hosts share one dedup history.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// OpenPostgres connects to the database at dsn and ensures the
// seen_listings table exists.
func OpenPostgres(ctx context.Context, dsn string) (*PostgresStore, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parsing postgres dsn: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connecting to postgres: %w", err)
	}

	createTable := `CREATE TABLE IF NOT EXISTS seen_listings (
		identity_key TEXT PRIMARY KEY,
		source       TEXT,
		title        TEXT,
		first_seen   TIMESTAMPTZ
	)`
	if _, err := pool.Exec(ctx, createTable); err != nil {
		pool.Close()
		return nil, fmt.Errorf("creating seen_listings table: %w", err)
	}

	return &PostgresStore{pool: pool}, nil
}

// Record inserts the identity if it is absent and reports whether it was
// new. ON CONFLICT DO NOTHING makes the check-and-insert atomic on the
// server, so no client-side lock is needed.
func (s *PostgresStore) Record(ctx context.Context, key, source, title string, firstSeen time.Time) (bool, error) {
	tag, err := s.pool.Exec(ctx,
		`INSERT INTO seen_listings (identity_key, source, title, first_seen)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (identity_key) DO NOTHING`,
		key, source, title, firstSeen.UTC())
	if err != nil {
		return false, fmt.Errorf("recording %s: %w", key, err)
	}
	return tag.RowsAffected() == 1, nil
}

// Purge deletes entries first seen before now minus retention and returns
// how many were removed.
func (s *PostgresStore) Purge(ctx context.Context, retention time.Duration) (int64, error) {
	cutoff := time.Now().UTC().Add(-retention)
	tag, err := s.pool.Exec(ctx, "DELETE FROM seen_listings WHERE first_seen < $1", cutoff)
	if err != nil {
		return 0, fmt.Errorf("purging entries older than %v: %w", retention, err)
	}
	return tag.RowsAffected(), nil
}

// Close releases the connection pool.
func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}
