// Package db owns the sqlite database handle and its schema
// migrations. Run results are written and read through the store
// package.
package db

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

type DB struct {
	*sql.DB
}

// NewDB opens (creating if needed) the sqlite database at path. The
// schema is managed by migrations; call MigrateUp before first use.
func NewDB(path string) (*DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database %s: %w", path, err)
	}

	// modernc sqlite serialises writes itself, but a busy timeout keeps
	// concurrent readers from failing immediately.
	if _, err := db.Exec("PRAGMA busy_timeout = 5000; PRAGMA foreign_keys = ON;"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to configure database: %w", err)
	}

	return &DB{db}, nil
}
