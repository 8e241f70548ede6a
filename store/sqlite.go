package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ZaguanLabs/slugai"
	_ "modernc.org/sqlite"
)

const optionsSchema = `CREATE TABLE IF NOT EXISTS options (
	name  TEXT PRIMARY KEY,
	value TEXT NOT NULL
)`

// SQLiteStore keeps options in a SQLite table.
type SQLiteStore struct {
	db   *sql.DB
	path string
}

// OpenSQLite opens or creates the database at path and ensures the options table exists.
func OpenSQLite(ctx context.Context, path string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("make db dir: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, err)
		}
	}

	if _, err := db.ExecContext(ctx, optionsSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create options table: %w", err)
	}

	return &SQLiteStore{db: db, path: path}, nil
}

// Get retrieves a value from the options table.
func (s *SQLiteStore) Get(ctx context.Context, key string) (string, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM options WHERE name = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", &slugai.StoreError{Op: "get", Key: key, Cause: err}
	}
	return value, nil
}

// Set upserts a value in the options table.
func (s *SQLiteStore) Set(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO options(name, value) VALUES(?, ?) ON CONFLICT(name) DO UPDATE SET value = excluded.value`,
		key, value)
	if err != nil {
		return &slugai.StoreError{Op: "set", Key: key, Cause: err}
	}
	return nil
}

// Delete removes a value from the options table.
func (s *SQLiteStore) Delete(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM options WHERE name = ?`, key); err != nil {
		return &slugai.StoreError{Op: "delete", Key: key, Cause: err}
	}
	return nil
}

// Path returns the database file path.
func (s *SQLiteStore) Path() string {
	return s.path
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Verify SQLiteStore implements KeyValueStore
var _ KeyValueStore = (*SQLiteStore)(nil)
