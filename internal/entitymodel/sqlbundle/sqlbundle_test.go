package sqlbundle

import (
	"strings"
	"testing"
)

func TestSplitStatements(t *testing.T) {
	stmts := SplitStatements(SQLite())
	if len(stmts) != 3 {
		t.Fatalf("expected 3 sqlite statements, got %d", len(stmts))
	}
	for _, stmt := range stmts {
		if strings.HasPrefix(strings.TrimSpace(stmt), "--") {
			t.Fatalf("statement unexpectedly starts with comment: %q", stmt)
		}
		if !strings.HasSuffix(strings.TrimSpace(stmt), ";") {
			t.Fatalf("statement missing semicolon terminator: %q", stmt)
		}
	}
}

func TestSplitStatementsKeepsUnterminatedTail(t *testing.T) {
	stmts := SplitStatements("CREATE TABLE a (x INT);\n-- note\nSELECT 1")
	if len(stmts) != 2 || stmts[1] != "SELECT 1" {
		t.Fatalf("unexpected statements: %q", stmts)
	}
}

func TestPostgresBundle(t *testing.T) {
	ddl := Postgres()
	if !strings.Contains(ddl, "CREATE TABLE IF NOT EXISTS records") || !strings.Contains(ddl, "JSONB") {
		t.Fatal("expected postgres DDL to declare the JSONB records table")
	}
}
