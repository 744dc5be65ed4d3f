// Package db opens and migrates the SQLite database file the store
// package persists into. It mirrors the teacher's internal/db package
// shape (a Config, a Connect that retries transient failures, a DBTX
// abstraction) generalized from a networked PostgreSQL connection to a
// local SQLite file opened through the pure-Go modernc.org/sqlite driver.
package db

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v4"
	_ "modernc.org/sqlite"

	"taskathlete/internal/domain"
	"taskathlete/internal/paths"
)

// Config holds database configuration values.
type Config struct {
	// Path is the SQLite file path. Empty selects the OS-conventional
	// per-user data directory via paths.DatabasePath.
	Path string
	// Logger receives connection retry diagnostics. Defaults to
	// slog.Default() when nil.
	Logger *slog.Logger
}

// DB wraps sql.DB with the pool tuned for SQLite's single-writer model.
type DB struct {
	*sql.DB
}

// DBTX is the interface for database operations, satisfied by both
// *sql.DB and *sql.Tx. The stores in this module hold a *sql.DB and do
// not take a DBTX.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Connect opens the SQLite database file, retrying with backoff when the
// file is transiently locked by another process (e.g. mid-migration).
// Single-writer use is assumed per the concurrency model; the retry is
// cheap insurance at process start, not a concurrency guarantee.
func Connect(cfg Config) (*DB, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	dbPath := cfg.Path
	if dbPath == "" {
		p, err := paths.DatabasePath()
		if err != nil {
			return nil, domain.NewStorageFailure("resolve-data-dir", err)
		}
		dbPath = p
	}

	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)", dbPath)

	var sqlDB *sql.DB
	open := func() error {
		conn, err := sql.Open("sqlite", dsn)
		if err != nil {
			return backoff.Permanent(err)
		}
		if err := conn.Ping(); err != nil {
			conn.Close()
			return err
		}
		sqlDB = conn
		return nil
	}

	policy := backoff.WithMaxRetries(backoff.NewExponentialBackOff(), 5)
	err := backoff.RetryNotify(open, policy, func(err error, wait time.Duration) {
		logger.Warn("database open failed, retrying", "error", err, "wait", wait)
	})
	if err != nil {
		return nil, domain.NewStorageFailure("open", err)
	}

	// SQLite serializes writers at the file level; a single connection
	// avoids SQLITE_BUSY churn between goroutines within this process.
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)

	return &DB{DB: sqlDB}, nil
}

// BeginTx starts a transaction on the underlying connection. The stores'
// cascading rename/delete transactions call BeginTx on the *sql.DB they
// hold, not on this wrapper.
func (d *DB) BeginTx(ctx context.Context, opts *sql.TxOptions) (*sql.Tx, error) {
	return d.DB.BeginTx(ctx, opts)
}
