package store

import (
	"context"
	"fmt"
	"path/filepath"

	"internscout/internal/model"
)

// Open returns the configured store backend. The sqlite backend keeps its
// database file under dataDir; the postgres backend ignores dataDir and
// connects to dsn.
func Open(ctx context.Context, backend, dsn, dataDir string) (model.SeenStore, error) {
	switch backend {
	case "", "sqlite":
		return OpenSQLite(filepath.Join(dataDir, "seen.db"))
	case "postgres":
		return OpenPostgres(ctx, dsn)
	default:
		return nil, fmt.Errorf("unknown store backend %q", backend)
	}
}
