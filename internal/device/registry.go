package device

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"absensi/internal/roster"
)

// Defaults applied when a device heartbeats for the first time.
const (
	DefaultMode        = "READER"
	DefaultPower       = 1
	DefaultDisplayText = "Selamat Datang!"
)

// Info is the live state of one reader terminal.
type Info struct {
	DeviceID       string  `json:"device_id"`
	DisplayText    string  `json:"display_text"`
	Mode           string  `json:"mode"`
	PowerStatus    int     `json:"power_status"`
	LastScannedUID *string `json:"last_scanned_uid"`
	LastSeen       *string `json:"last_seen"`
}

// ConfigPatch is a partial device update; nil fields are left untouched.
// Mode and power are opaque to the registry, the admin UI constrains them.
type ConfigPatch struct {
	Mode        *string `json:"mode"`
	PowerStatus *int    `json:"power_status"`
	DisplayText *string `json:"display_text"`
}

// ScanPreview reports whether a scanned card belongs to a known student
// without writing an attendance log.
type ScanPreview struct {
	IsRegistered bool
	Student      *roster.Student
}

// Registry tracks device liveness and configuration.
type Registry struct {
	db       *sql.DB
	students *roster.Repository
	now      func() time.Time
}

// NewRegistry creates a registry; pass nil for time.Now.
func NewRegistry(db *sql.DB, students *roster.Repository, now func() time.Time) *Registry {
	if now == nil {
		now = time.Now
	}
	return &Registry{db: db, students: students, now: now}
}

// Ping upsert-creates the device row with defaults if absent and always
// refreshes last_seen. It returns the device's current config, falling back
// to defaults rather than failing the heartbeat on a read error.
func (r *Registry) Ping(ctx context.Context, deviceID string) (mode string, power int, displayText string) {
	mode, power, displayText = DefaultMode, DefaultPower, DefaultDisplayText

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO devices (device_id, last_seen)
		VALUES (?, ?)
		ON CONFLICT(device_id) DO UPDATE SET last_seen = excluded.last_seen
	`, deviceID, r.now().UTC())
	if err != nil {
		return mode, power, displayText
	}

	err = r.db.QueryRowContext(ctx,
		`SELECT mode, power_status, display_text FROM devices WHERE device_id = ?`, deviceID,
	).Scan(&mode, &power, &displayText)
	if err != nil {
		return DefaultMode, DefaultPower, DefaultDisplayText
	}
	return mode, power, displayText
}

// ReportScan records the last scanned UID for the device and returns whether
// the card is registered. This is a preview path: no attendance is written.
func (r *Registry) ReportScan(ctx context.Context, deviceID, cardUID string) (ScanPreview, error) {
	_, err := r.db.ExecContext(ctx, `
		UPDATE devices SET last_scanned_uid = ?, last_seen = ? WHERE device_id = ?
	`, cardUID, r.now().UTC(), deviceID)
	if err != nil {
		return ScanPreview{}, err
	}

	student, err := r.students.Get(ctx, cardUID)
	if err != nil {
		return ScanPreview{}, err
	}
	return ScanPreview{IsRegistered: student != nil, Student: student}, nil
}

// UpdateConfig applies each non-nil patch field independently.
func (r *Registry) UpdateConfig(ctx context.Context, deviceID string, patch ConfigPatch) error {
	if deviceID == "" {
		return errors.New("device id required")
	}
	if patch.Mode != nil {
		if _, err := r.db.ExecContext(ctx,
			`UPDATE devices SET mode = ? WHERE device_id = ?`, *patch.Mode, deviceID); err != nil {
			return err
		}
	}
	if patch.PowerStatus != nil {
		if _, err := r.db.ExecContext(ctx,
			`UPDATE devices SET power_status = ? WHERE device_id = ?`, *patch.PowerStatus, deviceID); err != nil {
			return err
		}
	}
	if patch.DisplayText != nil {
		if _, err := r.db.ExecContext(ctx,
			`UPDATE devices SET display_text = ? WHERE device_id = ?`, *patch.DisplayText, deviceID); err != nil {
			return err
		}
	}
	return nil
}

// List returns every device, most recently seen first, last_seen rendered in
// server local time.
func (r *Registry) List(ctx context.Context) ([]Info, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT device_id, display_text, mode, power_status, last_scanned_uid, last_seen
		FROM devices
		ORDER BY last_seen DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var devices []Info
	for rows.Next() {
		var d Info
		var lastSeen sql.NullTime
		if err := rows.Scan(&d.DeviceID, &d.DisplayText, &d.Mode, &d.PowerStatus, &d.LastScannedUID, &lastSeen); err != nil {
			return nil, err
		}
		if lastSeen.Valid {
			formatted := lastSeen.Time.Local().Format("2006-01-02 15:04:05")
			d.LastSeen = &formatted
		}
		devices = append(devices, d)
	}
	return devices, rows.Err()
}

// Get returns one device row, nil when unknown.
func (r *Registry) Get(ctx context.Context, deviceID string) (*Info, error) {
	var d Info
	var lastSeen sql.NullTime
	err := r.db.QueryRowContext(ctx, `
		SELECT device_id, display_text, mode, power_status, last_scanned_uid, last_seen
		FROM devices WHERE device_id = ?
	`, deviceID).Scan(&d.DeviceID, &d.DisplayText, &d.Mode, &d.PowerStatus, &d.LastScannedUID, &lastSeen)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if lastSeen.Valid {
		formatted := lastSeen.Time.Local().Format("2006-01-02 15:04:05")
		d.LastSeen = &formatted
	}
	return &d, nil
}
