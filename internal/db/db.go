// ABOUTME: SQLite connection setup for the experiment hierarchy store.
// ABOUTME: Uses modernc.org/sqlite (pure Go, no CGO required) pinned to one connection.
package db

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"
)

// DefaultPath is used when no database path is configured.
const DefaultPath = "data/PAH_database.db"

// MemoryPath opens a private in-memory database.
const MemoryPath = ":memory:"

// Open opens or creates the database at path, applies pragmas and creates
// the schema. The pool is limited to a single connection, so every caller
// shares the same SQLite connection and in-memory databases live as long
// as the handle.
func Open(ctx context.Context, path string) (*sql.DB, error) {
	if !isMemory(path) {
		if err := os.MkdirAll(filepath.Dir(filePath(path)), 0750); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := configurePragmas(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("configure pragmas: %w", err)
	}

	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return db, nil
}

func configurePragmas(ctx context.Context, db *sql.DB) error {
	pragmas := []string{
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
	}
	for _, pragma := range pragmas {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			return fmt.Errorf("execute %s: %w", pragma, err)
		}
	}
	return nil
}

func isMemory(path string) bool {
	return path == MemoryPath ||
		strings.HasPrefix(path, "file::memory:") ||
		strings.Contains(path, "mode=memory")
}

// filePath strips the file: scheme and query of a URI filename.
func filePath(path string) string {
	if !strings.HasPrefix(path, "file:") {
		return path
	}
	path = strings.TrimPrefix(path, "file:")
	if i := strings.IndexByte(path, '?'); i >= 0 {
		path = path[:i]
	}
	return path
}
