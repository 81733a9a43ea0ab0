package attendance

import (
	"context"
	"database/sql"
	"time"
)

// LogEntry is one joined attendance event as shown on the dashboard.
type LogEntry struct {
	ID        int64   `json:"id"`
	Timestamp string  `json:"timestamp"`
	Name      *string `json:"name"`
	Class     *string `json:"class"`
	DeviceID  string  `json:"device_id"`
}

// Repository persists attendance logs in sqlite.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a repo.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// InsertIfAbsent appends a log row for (cardUID, date) unless one already
// exists. The UNIQUE(rfid_uid, date) constraint makes the check-and-insert a
// single atomic statement; inserted reports whether a row was written.
func (r *Repository) InsertIfAbsent(ctx context.Context, cardUID, deviceID, date string, at time.Time) (inserted bool, err error) {
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO attendance_logs (rfid_uid, device_id, date, timestamp)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(rfid_uid, date) DO NOTHING
	`, cardUID, deviceID, date, at.UTC())
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// Recent returns the newest limit log entries joined with student info,
// timestamps rendered in server local time.
func (r *Repository) Recent(ctx context.Context, limit int) ([]LogEntry, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := r.db.QueryContext(ctx, `
		SELECT attendance_logs.id,
		       attendance_logs.timestamp,
		       students.name,
		       students.class,
		       attendance_logs.device_id
		FROM attendance_logs
		LEFT JOIN students ON attendance_logs.rfid_uid = students.rfid_uid
		ORDER BY attendance_logs.timestamp DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []LogEntry
	for rows.Next() {
		var e LogEntry
		var ts time.Time
		if err := rows.Scan(&e.ID, &ts, &e.Name, &e.Class, &e.DeviceID); err != nil {
			return nil, err
		}
		e.Timestamp = ts.Local().Format("2006-01-02 15:04:05")
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Count returns the total number of log rows.
func (r *Repository) Count(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM attendance_logs`).Scan(&n)
	return n, err
}

// Reset clears every log row and rewinds the autoincrement sequence.
func (r *Repository) Reset(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM attendance_logs`); err != nil {
		return err
	}
	_, err := r.db.ExecContext(ctx, `DELETE FROM sqlite_sequence WHERE name='attendance_logs'`)
	return err
}
