// Package sqlbundle holds the DDL used by the SQL-backed record stores.
package sqlbundle

import (
	"bufio"
	"strings"
)

const sqliteDDL = `
-- one row per record; payload is the JSON encoded domain.Record
CREATE TABLE IF NOT EXISTS records (
	entity TEXT NOT NULL,
	id TEXT NOT NULL,
	payload BLOB NOT NULL,
	updated_at TEXT NOT NULL,
	PRIMARY KEY (entity, id)
);
CREATE INDEX IF NOT EXISTS records_entity_idx ON records (entity);
CREATE TABLE IF NOT EXISTS schema_meta (
	key TEXT PRIMARY KEY,
	value TEXT NOT NULL
);
`

const postgresDDL = `
-- one row per record; payload is the JSON encoded domain.Record
CREATE TABLE IF NOT EXISTS records (
	entity TEXT NOT NULL,
	id TEXT NOT NULL,
	payload JSONB NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL,
	PRIMARY KEY (entity, id)
);
CREATE INDEX IF NOT EXISTS records_entity_idx ON records (entity);
CREATE TABLE IF NOT EXISTS schema_meta (
	key TEXT PRIMARY KEY,
	value TEXT NOT NULL
);
`

// SQLite returns the SQLite DDL for the record tables.
func SQLite() string {
	return sqliteDDL
}

// Postgres returns the Postgres DDL for the record tables.
func Postgres() string {
	return postgresDDL
}

// SplitStatements splits a semicolon-terminated DDL script into executable statements.
// It drops blank lines and single-line comments that start with "--".
func SplitStatements(ddl string) []string {
	scanner := bufio.NewScanner(strings.NewReader(ddl))
	var stmts []string
	var current strings.Builder

	flush := func() {
		stmt := strings.TrimSpace(current.String())
		if stmt != "" {
			stmts = append(stmts, stmt)
		}
		current.Reset()
	}

	for scanner.Scan() {
		line := scanner.Text()
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "--") {
			continue
		}
		current.WriteString(line)
		current.WriteByte('\n')
		if strings.HasSuffix(trimmed, ";") {
			flush()
		}
	}

	if tail := strings.TrimSpace(current.String()); tail != "" {
		stmts = append(stmts, tail)
	}

	return stmts
}
