package db

import (
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := OpenDB(MemoryPath)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestMigrate_Idempotent(t *testing.T) {
	db := openTestDB(t)

	require.NoError(t, Migrate(db))
	require.NoError(t, Migrate(db))
}

func TestMigrate_CreatesAllTables(t *testing.T) {
	db := openTestDB(t)

	for _, table := range []string{"sessions", "cost_items", "process_breakdown"} {
		var name string
		err := db.QueryRow(`SELECT name FROM sqlite_master WHERE type='table' AND name=?`, table).Scan(&name)
		require.NoError(t, err, "table %s should exist", table)
		assert.Equal(t, table, name)
	}
}

func TestMigrate_CreatesIndexes(t *testing.T) {
	db := openTestDB(t)

	expected := []string{
		"idx_sessions_upload_time",
		"idx_sessions_file_hash",
		"idx_cost_items_session",
		"idx_cost_items_parent",
		"idx_process_breakdown_session",
	}
	for _, idx := range expected {
		var name string
		err := db.QueryRow(`SELECT name FROM sqlite_master WHERE type='index' AND name=?`, idx).Scan(&name)
		require.NoError(t, err, "index %s should exist", idx)
	}
}

func TestMigrate_AddsFileHashColumn(t *testing.T) {
	db := openTestDB(t)

	var count int
	err := db.QueryRow(`SELECT COUNT(*) FROM pragma_table_info('sessions') WHERE name = 'file_hash'`).Scan(&count)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestOpenDB_ForeignKeysCascade(t *testing.T) {
	db := openTestDB(t)

	_, err := db.Exec(`INSERT INTO sessions (session_id, upload_time) VALUES ('s1', '2025-01-01T00:00:00Z')`)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO cost_items (row_id, session_id, item_id, level, category) VALUES ('r1', 's1', 'by_process_ROOT', 1, 'Root')`)
	require.NoError(t, err)

	_, err = db.Exec(`DELETE FROM sessions WHERE session_id = 's1'`)
	require.NoError(t, err)

	var count int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM cost_items`).Scan(&count))
	assert.Zero(t, count)
}

func TestOpenDB_RejectsOrphanCostItem(t *testing.T) {
	db := openTestDB(t)

	_, err := db.Exec(`INSERT INTO cost_items (row_id, session_id, item_id, level, category) VALUES ('r1', 'missing', 'by_process_ROOT', 1, 'Root')`)
	assert.Error(t, err)
}

func TestOpenDB_FileCreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "costvar.db")

	db, err := OpenDB(path)
	require.NoError(t, err)
	defer db.Close()

	var mode string
	require.NoError(t, db.QueryRow(`PRAGMA journal_mode`).Scan(&mode))
	assert.Equal(t, "wal", mode)
}
