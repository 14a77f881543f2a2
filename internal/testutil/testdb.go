package testutil

import (
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/alexanderramin/costvar/internal/db"
)

// NewTestDB opens a migrated in-memory store that lives for the test.
func NewTestDB(t testing.TB) *sql.DB {
	t.Helper()
	return openTestDB(t, db.MemoryPath)
}

// NewFileTestDB opens a migrated store under t.TempDir. Use it when a test
// needs more than one connection.
func NewFileTestDB(t testing.TB, name string) *sql.DB {
	t.Helper()
	return openTestDB(t, filepath.Join(t.TempDir(), name))
}

func openTestDB(t testing.TB, path string) *sql.DB {
	t.Helper()
	database, err := db.OpenDB(path)
	if err != nil {
		t.Fatalf("opening test db %s: %v", path, err)
	}
	t.Cleanup(func() { _ = database.Close() })
	return database
}

func NewTestUoW(database *sql.DB) db.UnitOfWork {
	return db.NewSQLiteUnitOfWork(database)
}

// CountRows returns the number of rows in table for one session.
func CountRows(t testing.TB, database *sql.DB, table, sessionID string) int {
	t.Helper()
	var n int
	// table names come from test code only
	err := database.QueryRow(`SELECT COUNT(*) FROM `+table+` WHERE session_id = ?`, sessionID).Scan(&n)
	if err != nil {
		t.Fatalf("counting %s: %v", table, err)
	}
	return n
}
