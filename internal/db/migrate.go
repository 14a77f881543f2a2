package db

import (
	"database/sql"
	"fmt"
	"strings"
)

// Migrate applies every schema statement. Statements are idempotent so the
// whole list is replayed on each open.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			// ADD COLUMN has no IF NOT EXISTS form in SQLite.
			if strings.Contains(err.Error(), "duplicate column name") {
				continue
			}
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS sessions (
		session_id       TEXT PRIMARY KEY,
		part_number      TEXT NOT NULL DEFAULT '',
		part_description TEXT NOT NULL DEFAULT '',
		supplier_name    TEXT NOT NULL DEFAULT '',
		currency         TEXT NOT NULL DEFAULT 'USD',
		target_price     REAL NOT NULL DEFAULT 0,
		supplier_price   REAL NOT NULL DEFAULT 0,
		total_variance   REAL NOT NULL DEFAULT 0,
		variance_pct     REAL NOT NULL DEFAULT 0,
		upload_time      TEXT NOT NULL,
		file_name        TEXT NOT NULL DEFAULT ''
	)`,

	`CREATE INDEX IF NOT EXISTS idx_sessions_upload_time ON sessions(upload_time)`,

	`CREATE TABLE IF NOT EXISTS cost_items (
		row_id       TEXT PRIMARY KEY,
		session_id   TEXT NOT NULL REFERENCES sessions(session_id) ON DELETE CASCADE,
		item_id      TEXT NOT NULL,
		parent_id    TEXT,
		level        INTEGER NOT NULL CHECK(level BETWEEN 1 AND 5),
		category     TEXT NOT NULL,
		item_name    TEXT NOT NULL DEFAULT '',
		target_cost  REAL NOT NULL DEFAULT 0,
		actual_cost  REAL NOT NULL DEFAULT 0,
		variance     REAL NOT NULL DEFAULT 0,
		variance_pct REAL NOT NULL DEFAULT 0,
		sort_order   INTEGER NOT NULL DEFAULT 0,
		metadata     TEXT,
		UNIQUE(session_id, item_id)
	)`,

	`CREATE INDEX IF NOT EXISTS idx_cost_items_session ON cost_items(session_id)`,
	`CREATE INDEX IF NOT EXISTS idx_cost_items_parent ON cost_items(session_id, parent_id)`,

	`CREATE TABLE IF NOT EXISTS process_breakdown (
		id                 TEXT PRIMARY KEY,
		session_id         TEXT NOT NULL REFERENCES sessions(session_id) ON DELETE CASCADE,
		process_id         TEXT NOT NULL,
		process_desc       TEXT NOT NULL DEFAULT '',
		equipment_desc     TEXT NOT NULL DEFAULT '',
		setup_cost_target  REAL NOT NULL DEFAULT 0,
		setup_cost_actual  REAL NOT NULL DEFAULT 0,
		labor_cost_target  REAL NOT NULL DEFAULT 0,
		labor_cost_actual  REAL NOT NULL DEFAULT 0,
		burden_cost_target REAL NOT NULL DEFAULT 0,
		burden_cost_actual REAL NOT NULL DEFAULT 0
	)`,

	`CREATE INDEX IF NOT EXISTS idx_process_breakdown_session ON process_breakdown(session_id)`,

	// File hashes arrived after the first schema; ALTER keeps older
	// databases readable.
	`ALTER TABLE sessions ADD COLUMN file_hash TEXT NOT NULL DEFAULT ''`,
	`CREATE INDEX IF NOT EXISTS idx_sessions_file_hash ON sessions(file_hash)`,
}
