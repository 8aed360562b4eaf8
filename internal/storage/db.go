// Package storage persists the client run history in SQLite.
package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// DBFileName is the history database inside the client workdir.
const DBFileName = "history.db"

// DB wraps the SQLite database connection
type DB struct {
	*sql.DB
}

// NewDB opens the history database, creating its directory and schema.
// ":memory:" gives a throwaway database.
func NewDB(dbPath string) (*DB, error) {
	if dbPath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	dsn := fmt.Sprintf("%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)", dbPath)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// single writer
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	wrapped := &DB{DB: db}
	if _, err := wrapped.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return wrapped, nil
}

// OpenRunStore opens <workdir>/history.db and returns a store over it.
func OpenRunStore(workdir string, maxRuns int) (*RunStore, *DB, error) {
	db, err := NewDB(filepath.Join(workdir, DBFileName))
	if err != nil {
		return nil, nil, err
	}
	return NewRunStore(db, maxRuns), db, nil
}
