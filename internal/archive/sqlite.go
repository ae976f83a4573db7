package archive

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// openDB is a package-level var to allow test injection.
var openDB = sql.Open

const sqliteSchema = `
	CREATE TABLE IF NOT EXISTS deliberations (
		id          TEXT    PRIMARY KEY,
		position    INTEGER NOT NULL,
		name        TEXT    NOT NULL,
		body        TEXT    NOT NULL,
		modified_at TEXT    NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_deliberations_position ON deliberations(position);
`

// NewSQLiteStore opens (creating if needed) a SQLite archive at path.
func NewSQLiteStore(path string) (*SQLStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}

	db, err := openDB("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// SQLite performance pragmas
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA foreign_keys = ON",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("pragma %q: %w", p, err)
		}
	}

	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &SQLStore{db: db, backend: "sqlite", bind: questionBind}, nil
}
