package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
)

// DB wraps sql.DB for the embedded sqlite store.
type DB struct {
	Client *sql.DB
}

// New opens (creating if needed) the sqlite database at dbPath and applies
// the schema. WAL plus a busy timeout keeps concurrent request handlers from
// tripping over each other on the single file.
func New(dbPath string) (*DB, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping db: %w", err)
	}
	if err := migrate(db); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return &DB{Client: db}, nil
}

func migrate(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS students (
		rfid_uid TEXT PRIMARY KEY,
		name     TEXT NOT NULL,
		class    TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS attendance_logs (
		id        INTEGER PRIMARY KEY AUTOINCREMENT,
		rfid_uid  TEXT NOT NULL,
		device_id TEXT NOT NULL,
		date      TEXT NOT NULL,
		timestamp DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		UNIQUE(rfid_uid, date)
	);

	CREATE TABLE IF NOT EXISTS monthly_results (
		id               INTEGER PRIMARY KEY AUTOINCREMENT,
		rfid_uid         TEXT NOT NULL,
		month_year       TEXT NOT NULL,
		total_attendance INTEGER NOT NULL,
		UNIQUE(rfid_uid, month_year)
	);

	CREATE TABLE IF NOT EXISTS devices (
		device_id        TEXT PRIMARY KEY,
		display_text     TEXT NOT NULL DEFAULT 'Selamat Datang!',
		mode             TEXT NOT NULL DEFAULT 'READER',
		power_status     INTEGER NOT NULL DEFAULT 1,
		last_scanned_uid TEXT,
		last_seen        DATETIME
	);

	CREATE INDEX IF NOT EXISTS idx_logs_date ON attendance_logs(date);
	CREATE INDEX IF NOT EXISTS idx_logs_time ON attendance_logs(timestamp);
	`
	_, err := db.Exec(schema)
	return err
}

// Close closes the underlying connection.
func (d *DB) Close() error {
	if d == nil || d.Client == nil {
		return nil
	}
	return d.Client.Close()
}
