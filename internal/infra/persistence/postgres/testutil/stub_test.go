package testutil

import (
	"context"
	"database/sql/driver"
	"testing"
)

func TestStubDBUpsertsOnCompositeKey(t *testing.T) {
	ctx := context.Background()
	_, conn := NewStubDB()

	upsert := "INSERT INTO records (entity, id, payload) VALUES ($1, $2, $3) ON CONFLICT (entity, id) DO UPDATE SET payload = excluded.payload"
	for _, payload := range []string{"v1", "v2"} {
		if _, err := conn.ExecContext(ctx, upsert, []driver.NamedValue{{Value: "department"}, {Value: "d1"}, {Value: payload}}); err != nil {
			t.Fatalf("ExecContext upsert: %v", err)
		}
	}
	if _, err := conn.ExecContext(ctx, upsert, []driver.NamedValue{{Value: "incident"}, {Value: "d1"}, {Value: "x"}}); err != nil {
		t.Fatalf("ExecContext upsert: %v", err)
	}
	rows := conn.Rows("records")
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %v", rows)
	}
	if rows[0]["payload"] != "x" && rows[1]["payload"] != "x" {
		t.Fatalf("expected incident row, got %v", rows)
	}

	if _, err := conn.ExecContext(ctx, "DELETE FROM records WHERE entity = $1 AND id = $2", []driver.NamedValue{{Value: "department"}, {Value: "d1"}}); err != nil {
		t.Fatalf("ExecContext delete: %v", err)
	}
	rows = conn.Rows("records")
	if len(rows) != 1 || rows[0]["entity"] != "incident" {
		t.Fatalf("unexpected rows after delete: %v", rows)
	}
}

func TestStubDBQueriesRows(t *testing.T) {
	ctx := context.Background()
	_, conn := NewStubDB()
	conn.Tables["records"] = []map[string]any{{"entity": "department", "id": "d2", "payload": []byte("{}")}}

	rows, err := conn.QueryContext(ctx, "SELECT entity, id, payload FROM records", nil)
	if err != nil {
		t.Fatalf("QueryContext: %v", err)
	}
	defer func() { _ = rows.Close() }()

	dest := make([]driver.Value, 3)
	if err := rows.Next(dest); err != nil {
		t.Fatalf("Next: %v", err)
	}
	if dest[0] != "department" || dest[1] != "d2" {
		t.Fatalf("unexpected row values: %v", dest)
	}
	if conn.ExecCount("SELECT") != 0 {
		t.Fatalf("queries should not be recorded as execs")
	}
}
