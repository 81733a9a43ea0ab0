package attendance

import (
	"context"
	"database/sql"
	"time"
)

// RecapRow is one monthly aggregate joined with student info.
type RecapRow struct {
	ID              int64  `json:"id"`
	RFIDUID         string `json:"rfid_uid"`
	MonthYear       string `json:"month_year"`
	TotalAttendance int    `json:"total_attendance"`
	Name            string `json:"name"`
	Class           string `json:"class"`
}

// Aggregator folds daily logs into per-student monthly totals.
type Aggregator struct {
	db  *sql.DB
	now func() time.Time
}

// NewAggregator creates an aggregator; pass nil for time.Now.
func NewAggregator(db *sql.DB, now func() time.Time) *Aggregator {
	if now == nil {
		now = time.Now
	}
	return &Aggregator{db: db, now: now}
}

// CurrentMonth returns the month label the aggregator would run for now.
func (a *Aggregator) CurrentMonth() string {
	return a.now().Format("2006-01")
}

// RunMonth recomputes the aggregate for every student with logs in the given
// month and overwrites any prior count for the (card, month) pair. Re-running
// with unchanged logs yields the same counts. Grouping is on the attendance
// date, not the stored timestamp, so a tap near midnight lands in the month
// of its local calendar day.
func (a *Aggregator) RunMonth(ctx context.Context, month string) error {
	_, err := a.db.ExecContext(ctx, `
		INSERT INTO monthly_results (rfid_uid, month_year, total_attendance)
		SELECT rfid_uid, ?, COUNT(*)
		FROM attendance_logs
		WHERE substr(date, 1, 7) = ?
		GROUP BY rfid_uid
		ON CONFLICT(rfid_uid, month_year) DO UPDATE SET total_attendance = excluded.total_attendance
	`, month, month)
	return err
}

// Recap returns every aggregate joined with student info, newest month first,
// names ascending within a month.
func (a *Aggregator) Recap(ctx context.Context) ([]RecapRow, error) {
	rows, err := a.db.QueryContext(ctx, `
		SELECT monthly_results.id, monthly_results.rfid_uid, monthly_results.month_year,
		       monthly_results.total_attendance, students.name, students.class
		FROM monthly_results
		JOIN students ON monthly_results.rfid_uid = students.rfid_uid
		ORDER BY month_year DESC, students.name ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var recap []RecapRow
	for rows.Next() {
		var r RecapRow
		if err := rows.Scan(&r.ID, &r.RFIDUID, &r.MonthYear, &r.TotalAttendance, &r.Name, &r.Class); err != nil {
			return nil, err
		}
		recap = append(recap, r)
	}
	return recap, rows.Err()
}
