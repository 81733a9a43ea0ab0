package roster

import (
	"context"
	"database/sql"
	"errors"
	"strings"
)

// Sentinel errors surfaced to the API layer as business-rule rejections.
var (
	ErrDuplicateCard = errors.New("card already registered")
	ErrNotFound      = errors.New("student not found")
)

// Student is one roster entry, keyed by the card UID.
type Student struct {
	RFIDUID string `json:"rfid_uid"`
	Name    string `json:"name"`
	Class   string `json:"class"`
}

// Repository persists the student roster in sqlite.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a repo.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new student. A card UID that is already registered is a
// business rejection, not a store failure.
func (r *Repository) Create(ctx context.Context, st Student) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO students (rfid_uid, name, class) VALUES (?, ?, ?)`,
		st.RFIDUID, st.Name, st.Class,
	)
	if err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed") {
		return ErrDuplicateCard
	}
	return err
}

// List returns the full roster ordered by name.
func (r *Repository) List(ctx context.Context) ([]Student, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT rfid_uid, name, class FROM students ORDER BY name ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var students []Student
	for rows.Next() {
		var st Student
		if err := rows.Scan(&st.RFIDUID, &st.Name, &st.Class); err != nil {
			return nil, err
		}
		students = append(students, st)
	}
	return students, rows.Err()
}

// Get looks a student up by card UID. Returns nil, nil when unknown.
func (r *Repository) Get(ctx context.Context, rfidUID string) (*Student, error) {
	var st Student
	err := r.db.QueryRowContext(ctx,
		`SELECT rfid_uid, name, class FROM students WHERE rfid_uid = ?`, rfidUID,
	).Scan(&st.RFIDUID, &st.Name, &st.Class)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &st, nil
}

// Delete removes one student by card UID.
func (r *Repository) Delete(ctx context.Context, rfidUID string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM students WHERE rfid_uid = ?`, rfidUID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteClass removes every student in the given class.
func (r *Repository) DeleteClass(ctx context.Context, class string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM students WHERE class = ?`, class)
	return err
}

// RenameClass moves every student from oldClass to newClass.
func (r *Repository) RenameClass(ctx context.Context, oldClass, newClass string) error {
	_, err := r.db.ExecContext(ctx, `UPDATE students SET class = ? WHERE class = ?`, newClass, oldClass)
	return err
}

// NFCExportEntry is one roster row shaped for NFC-emulation tooling, with the
// UID reduced to uppercase hex digits.
type NFCExportEntry struct {
	UID       string `json:"uid"`
	Name      string `json:"name"`
	ClassInfo string `json:"class_info"`
	UIDHex    string `json:"uid_hex"`
}

// ExportNFC returns the roster shaped for the NFC export download.
func (r *Repository) ExportNFC(ctx context.Context) ([]NFCExportEntry, error) {
	students, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	entries := make([]NFCExportEntry, 0, len(students))
	for _, st := range students {
		entries = append(entries, NFCExportEntry{
			UID:       st.RFIDUID,
			Name:      st.Name,
			ClassInfo: st.Class,
			UIDHex:    HexUID(st.RFIDUID),
		})
	}
	return entries, nil
}

// HexUID strips every non-hex character from a card UID and uppercases the
// rest, matching what NFC emulators expect.
func HexUID(uid string) string {
	var b strings.Builder
	for _, r := range uid {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case r >= 'a' && r <= 'f', r >= 'A' && r <= 'F':
			b.WriteRune(r)
		}
	}
	return strings.ToUpper(b.String())
}
