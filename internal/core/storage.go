package core

import (
	"context"
	"fmt"
	"io"

	"sgas/internal/entitymodel"
	"sgas/internal/infra/persistence/memory"
	"sgas/internal/infra/persistence/postgres"
	"sgas/internal/infra/persistence/sqlite"
	"sgas/internal/platform/config"
)

// ClosableStore is a persistent store that owns backend resources.
type ClosableStore interface {
	PersistentStore
	io.Closer
}

type memoryCloser struct {
	*memory.Store
}

func (memoryCloser) Close() error { return nil }

// OpenPersistentStore selects a backend from cfg over the entity catalog.
// Defaults to sqlite when the driver is unset.
func OpenPersistentStore(ctx context.Context, cfg config.StorageConfig, engine *RulesEngine) (ClosableStore, error) {
	catalog := entitymodel.Catalog()
	version := entitymodel.Version(catalog)
	driver := cfg.Driver
	if driver == "" {
		driver = config.StorageSQLite
	}
	switch driver {
	case config.StorageMemory:
		return memoryCloser{memory.NewStore(catalog, engine)}, nil
	case config.StorageSQLite:
		store, err := sqlite.NewStore(ctx, cfg.SQLitePath, catalog, engine, version)
		if err != nil {
			return nil, err
		}
		return store, nil
	case config.StoragePostgres:
		store, err := postgres.NewStore(ctx, cfg.PostgresDSN, catalog, engine, version)
		if err != nil {
			return nil, err
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unknown storage driver %s", driver)
	}
}
