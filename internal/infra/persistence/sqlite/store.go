// Package sqlite persists catalog records to a single-file SQLite database.
// Transactions run against the embedded memory store; each change set is
// written to the records table before the in-memory state is swapped.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // pure go sqlite driver

	"sgas/internal/infra/persistence/memory"
	"sgas/internal/infra/persistence/sqlstore"
	"sgas/pkg/domain"
)

var _ domain.PersistentStore = (*Store)(nil)

// DefaultPath is used when no database path is configured.
const DefaultPath = "sgas.db"

// Store is a SQLite-backed persistent store.
type Store struct {
	*memory.Store
	db   *sql.DB
	path string
}

// NewStore opens (or creates) the database at path, applies the schema and
// hydrates the in-memory state from stored records.
func NewStore(ctx context.Context, path string, catalog *domain.Catalog, engine *domain.RulesEngine, version string, opts ...memory.Option) (*Store, error) {
	if path == "" {
		path = DefaultPath
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil && !errors.Is(err, os.ErrExist) {
		return nil, fmt.Errorf("create dirs: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// A single connection serializes writers and keeps the file lock simple.
	db.SetMaxOpenConns(1)

	mem := memory.NewStore(catalog, engine, opts...)
	if err := sqlstore.Hydrate(ctx, db, sqlstore.SQLite, mem, version); err != nil {
		_ = db.Close()
		return nil, err
	}
	mem.SetCommitHook(sqlstore.CommitHook(db, sqlstore.SQLite))
	return &Store{Store: mem, db: db, path: path}, nil
}

// DB exposes the underlying sql.DB for integration testing hooks.
func (s *Store) DB() *sql.DB { return s.db }

// Path returns the configured database path.
func (s *Store) Path() string { return s.path }

// Close releases the database handle.
func (s *Store) Close() error { return s.db.Close() }
