// Package testutil provides shared test utilities for store-layer tests.
package testutil

import (
	"database/sql"
	"path/filepath"
	"testing"

	"taskathlete/internal/db"

	_ "modernc.org/sqlite"
)

// OpenTestDB opens a fresh SQLite database file inside t.TempDir, runs the
// schema migrations against it, and registers cleanup. Each call gets an
// isolated file, so tests never share state the way a single shared
// container would force them to.
func OpenTestDB(t *testing.T) *sql.DB {
	t.Helper()

	path := filepath.Join(t.TempDir(), "test.sqlite")
	sqlDB, err := sql.Open("sqlite", "file:"+path+"?_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := db.Init(sqlDB); err != nil {
		sqlDB.Close()
		t.Fatalf("init test schema: %v", err)
	}

	t.Cleanup(func() {
		sqlDB.Close()
	})

	return sqlDB
}
