// Package backend picks the storage implementation named by the configuration.
package backend

import (
	"context"
	"fmt"

	"github.com/hongminglow/jbudget-be/internal/config"
	"github.com/hongminglow/jbudget-be/internal/storage"
	"github.com/hongminglow/jbudget-be/internal/storage/memory"
	"github.com/hongminglow/jbudget-be/internal/storage/postgres"
	"github.com/hongminglow/jbudget-be/internal/storage/sqlite"
)

// Open connects the configured data backend, creating its schema when missing.
func Open(ctx context.Context, cfg config.Config) (storage.Store, error) {
	switch cfg.DataBackend {
	case config.BackendPostgres:
		return postgres.NewStore(ctx, cfg.DatabaseURL)
	case config.BackendSQLite:
		return sqlite.NewStore(cfg.SQLitePath)
	case config.BackendMemory:
		return memory.New(), nil
	default:
		return nil, fmt.Errorf("unknown data backend %q", cfg.DataBackend)
	}
}
