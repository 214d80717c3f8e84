// Package sqlite implements the storage contracts over a SQLite database.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"path/filepath"
	"strings"
	"time"

	"github.com/louisbranch/taskboard/internal/storage/sqlite/migrate"
	_ "modernc.org/sqlite"
)

// Store provides SQLite-backed persistence for tasks, items, and users.
type Store struct {
	sqlDB *sql.DB
}

// Open opens a taskboard SQLite store and applies pending migrations.
func Open(path string) (*Store, error) {
	sqlDB, err := OpenDB(path)
	if err != nil {
		return nil, err
	}

	runner, err := migrate.NewRunner(sqlDB, migrate.Default(), log.Default())
	if err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("build migration runner: %w", err)
	}
	if err := runner.Upgrade(context.Background()); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &Store{sqlDB: sqlDB}, nil
}

// OpenDB opens the raw SQLite handle without running migrations. The
// migration CLI uses it so a downgrade does not first re-apply everything.
func OpenDB(path string) (*sql.DB, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	cleanPath := filepath.Clean(path)
	dsn := "file:" + cleanPath + "?_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	return sqlDB, nil
}

// Close releases the underlying SQLite connection.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// inTx runs fn inside a transaction, committing on success and rolling
// back on any failure.
func (s *Store) inTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

func unixMillisToTime(value int64) time.Time {
	if value <= 0 {
		return time.Time{}
	}
	return time.UnixMilli(value).UTC()
}
