package data

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// Open opens the reminder database at dbPath and ensures the schema exists.
func Open(dbPath string) (*sql.DB, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := createSchema(db); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

func createSchema(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS remind_tasks (
			id TEXT PRIMARY KEY,
			channel_id TEXT NOT NULL,
			message_id TEXT NOT NULL DEFAULT '',
			title TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			interval_days INTEGER NOT NULL,
			time_of_day TEXT NOT NULL,
			remind_before_minutes INTEGER NOT NULL DEFAULT 0,
			inventory_items TEXT NOT NULL DEFAULT '[]',
			start_at INTEGER NOT NULL,
			last_done_at INTEGER,
			next_due_at INTEGER NOT NULL,
			overdue_notify_count INTEGER NOT NULL DEFAULT 0,
			overdue_notify_limit INTEGER NOT NULL DEFAULT 1,
			last_overdue_notified_at INTEGER,
			last_pre_reminded_at INTEGER,
			created_at INTEGER NOT NULL,
			updated_at INTEGER NOT NULL
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create remind_tasks table: %w", err)
	}

	_, _ = db.Exec(`CREATE INDEX IF NOT EXISTS idx_remind_tasks_channel ON remind_tasks(channel_id)`)
	_, _ = db.Exec(`CREATE INDEX IF NOT EXISTS idx_remind_tasks_message ON remind_tasks(channel_id, message_id)`)
	_, _ = db.Exec(`CREATE INDEX IF NOT EXISTS idx_remind_tasks_next_due ON remind_tasks(next_due_at)`)

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS channel_metadata (
			channel_id TEXT PRIMARY KEY,
			list_title TEXT NOT NULL DEFAULT '',
			remind_notice_thread_id TEXT NOT NULL DEFAULT '',
			remind_notice_message_id TEXT NOT NULL DEFAULT '',
			last_synced_at INTEGER,
			created_at INTEGER NOT NULL,
			updated_at INTEGER NOT NULL
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create channel_metadata table: %w", err)
	}
	return nil
}
