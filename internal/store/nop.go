package store

import (
	"context"
	"time"
)

// NopStore is used in check mode. It reports every identity as new and
// persists nothing, so a check run shows everything a real run would
// without touching the dedup history.
type NopStore struct{}

func NewNopStore() *NopStore { return &NopStore{} }

func (s *NopStore) Record(context.Context, string, string, string, time.Time) (bool, error) {
	return true, nil
}

func (s *NopStore) Purge(context.Context, time.Duration) (int64, error) { return 0, nil }

func (s *NopStore) Close() error { return nil }
