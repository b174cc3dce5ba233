// Package sqlstore holds the records-table plumbing shared by the SQLite and
// Postgres stores: DDL application, state hydration and change-set writes.
package sqlstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"sgas/internal/entitymodel/sqlbundle"
	"sgas/internal/infra/persistence/memory"
	"sgas/pkg/domain"
)

// Dialect captures the SQL differences between backends.
type Dialect struct {
	Name string
	DDL  string
	// Placeholder renders the n-th (1-based) bind parameter.
	Placeholder func(n int) string
}

// SQLite is the dialect used with modernc.org/sqlite.
var SQLite = Dialect{
	Name:        "sqlite",
	DDL:         sqlbundle.SQLite(),
	Placeholder: func(int) string { return "?" },
}

// Postgres is the dialect used with the pgx stdlib driver.
var Postgres = Dialect{
	Name:        "postgres",
	DDL:         sqlbundle.Postgres(),
	Placeholder: func(n int) string { return fmt.Sprintf("$%d", n) },
}

func (d Dialect) args(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = d.Placeholder(i + 1)
	}
	return out
}

func (d Dialect) upsertSQL() string {
	p := d.args(4)
	return fmt.Sprintf(`INSERT INTO records (entity, id, payload, updated_at) VALUES (%s) ON CONFLICT (entity, id) DO UPDATE SET payload = excluded.payload, updated_at = excluded.updated_at`,
		strings.Join(p, ", "))
}

func (d Dialect) deleteSQL() string {
	p := d.args(2)
	return fmt.Sprintf(`DELETE FROM records WHERE entity = %s AND id = %s`, p[0], p[1])
}

func (d Dialect) metaSQL() string {
	p := d.args(2)
	return fmt.Sprintf(`INSERT INTO schema_meta (key, value) VALUES (%s, %s) ON CONFLICT (key) DO UPDATE SET value = excluded.value`, p[0], p[1])
}

// Execer is the subset of *sql.DB and *sql.Tx used for statements.
type Execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// ApplyDDL executes every statement of ddl in order.
func ApplyDDL(ctx context.Context, db Execer, ddl string) error {
	for _, stmt := range sqlbundle.SplitStatements(ddl) {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("execute ddl: %w", err)
		}
	}
	return nil
}

// Load reads every stored record into a memory snapshot.
func Load(ctx context.Context, db *sql.DB) (memory.Snapshot, error) {
	rows, err := db.QueryContext(ctx, `SELECT entity, id, payload FROM records`)
	if err != nil {
		return memory.Snapshot{}, fmt.Errorf("select records: %w", err)
	}
	defer func() { _ = rows.Close() }()

	snapshot := memory.Snapshot{Records: make(map[domain.EntityType]map[string]domain.Record)}
	for rows.Next() {
		var (
			entity, id string
			payload    []byte
		)
		if err := rows.Scan(&entity, &id, &payload); err != nil {
			return memory.Snapshot{}, fmt.Errorf("scan record: %w", err)
		}
		var rec domain.Record
		if err := json.Unmarshal(payload, &rec); err != nil {
			return memory.Snapshot{}, fmt.Errorf("decode %s %s: %w", entity, id, err)
		}
		bucket, ok := snapshot.Records[domain.EntityType(entity)]
		if !ok {
			bucket = make(map[string]domain.Record)
			snapshot.Records[domain.EntityType(entity)] = bucket
		}
		bucket[id] = rec
	}
	if err := rows.Err(); err != nil {
		return memory.Snapshot{}, fmt.Errorf("iterate records: %w", err)
	}
	return snapshot, nil
}

// Hydrate applies the DDL, records the catalog version and loads existing
// records into mem.
func Hydrate(ctx context.Context, db *sql.DB, d Dialect, mem *memory.Store, version string) error {
	if err := ApplyDDL(ctx, db, d.DDL); err != nil {
		return err
	}
	if _, err := db.ExecContext(ctx, d.metaSQL(), "catalog_version", version); err != nil {
		return fmt.Errorf("record catalog version: %w", err)
	}
	snapshot, err := Load(ctx, db)
	if err != nil {
		return err
	}
	return mem.ImportState(snapshot)
}

// CommitHook returns a memory.CommitFunc that writes each change set to the
// records table inside one SQL transaction.
func CommitHook(db *sql.DB, d Dialect) memory.CommitFunc {
	return func(ctx context.Context, changes []domain.Change) (retErr error) {
		tx, err := db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("begin tx: %w", err)
		}
		defer func() {
			if retErr != nil {
				_ = tx.Rollback()
			}
		}()
		if err := WriteChanges(ctx, tx, d, changes); err != nil {
			return err
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit tx: %w", err)
		}
		return nil
	}
}

// WriteChanges applies changes in order: upserts for create and update,
// deletes for delete.
func WriteChanges(ctx context.Context, db Execer, d Dialect, changes []domain.Change) error {
	upsert, del := d.upsertSQL(), d.deleteSQL()
	for _, change := range changes {
		switch change.Action {
		case domain.ActionCreate, domain.ActionUpdate:
			if change.After == nil {
				return fmt.Errorf("%s %s %s: missing record", change.Action, change.Entity, change.ID)
			}
			payload, err := json.Marshal(change.After)
			if err != nil {
				return fmt.Errorf("encode %s %s: %w", change.Entity, change.ID, err)
			}
			if _, err := db.ExecContext(ctx, upsert, string(change.Entity), change.ID, payload, change.After.UpdatedAt.UTC().Format(time.RFC3339Nano)); err != nil {
				return fmt.Errorf("upsert %s %s: %w", change.Entity, change.ID, err)
			}
		case domain.ActionDelete:
			if _, err := db.ExecContext(ctx, del, string(change.Entity), change.ID); err != nil {
				return fmt.Errorf("delete %s %s: %w", change.Entity, change.ID, err)
			}
		default:
			return fmt.Errorf("unknown change action %q", change.Action)
		}
	}
	return nil
}
