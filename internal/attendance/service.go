package attendance

import (
	"context"
	"errors"
	"time"

	"absensi/internal/roster"
)

// Sentinel errors for the two business rejections a tap can produce.
var (
	ErrUnknownCard     = errors.New("unknown card")
	ErrAlreadyRecorded = errors.New("already recorded")
)

// LogStore is the slice of the log repository the recorder needs.
type LogStore interface {
	InsertIfAbsent(ctx context.Context, cardUID, deviceID, date string, at time.Time) (bool, error)
}

// StudentLookup resolves a card UID to a roster entry, nil when unknown.
type StudentLookup interface {
	Get(ctx context.Context, rfidUID string) (*roster.Student, error)
}

// Recorder enforces the once-per-day attendance rule.
type Recorder struct {
	logs     LogStore
	students StudentLookup
	now      func() time.Time
}

// NewRecorder creates a recorder. now is the wall clock used to derive the
// local calendar date; pass nil for time.Now.
func NewRecorder(logs LogStore, students StudentLookup, now func() time.Time) *Recorder {
	if now == nil {
		now = time.Now
	}
	return &Recorder{logs: logs, students: students, now: now}
}

// RecordTap validates a tap and appends at most one log per card per local
// calendar day. It returns the student's display name on success.
func (r *Recorder) RecordTap(ctx context.Context, cardUID, deviceID string) (string, error) {
	if cardUID == "" || deviceID == "" {
		return "", errors.New("card and device required")
	}

	student, err := r.students.Get(ctx, cardUID)
	if err != nil {
		return "", err
	}
	if student == nil {
		return "", ErrUnknownCard
	}

	at := r.now()
	date := at.Format("2006-01-02")
	inserted, err := r.logs.InsertIfAbsent(ctx, cardUID, deviceID, date, at)
	if err != nil {
		return "", err
	}
	if !inserted {
		return "", ErrAlreadyRecorded
	}
	return student.Name, nil
}
