package attendance

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"absensi/internal/roster"
)

func TestAggregator_RunMonthIdempotent(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	students := roster.NewRepository(db.Client)
	require.NoError(t, students.Create(ctx, roster.Student{RFIDUID: "A1", Name: "Alice", Class: "7A"}))
	require.NoError(t, students.Create(ctx, roster.Student{RFIDUID: "B2", Name: "Bob", Class: "7B"}))

	logs := NewRepository(db.Client)
	jan := time.Date(2026, 1, 5, 8, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		at := jan.AddDate(0, 0, i)
		_, err := logs.InsertIfAbsent(ctx, "A1", "DEV1", at.Format("2006-01-02"), at)
		require.NoError(t, err)
	}
	_, err := logs.InsertIfAbsent(ctx, "B2", "DEV1", jan.Format("2006-01-02"), jan)
	require.NoError(t, err)
	// a log outside the month must not count
	feb := time.Date(2026, 2, 1, 8, 0, 0, 0, time.UTC)
	_, err = logs.InsertIfAbsent(ctx, "A1", "DEV1", feb.Format("2006-01-02"), feb)
	require.NoError(t, err)

	agg := NewAggregator(db.Client, func() time.Time { return jan })
	assert.Equal(t, "2026-01", agg.CurrentMonth())

	require.NoError(t, agg.RunMonth(ctx, "2026-01"))
	first, err := agg.Recap(ctx)
	require.NoError(t, err)
	require.Len(t, first, 2)
	assert.Equal(t, "Alice", first[0].Name)
	assert.Equal(t, 3, first[0].TotalAttendance)
	assert.Equal(t, "Bob", first[1].Name)
	assert.Equal(t, 1, first[1].TotalAttendance)

	// re-running the same month overwrites, never accumulates
	require.NoError(t, agg.RunMonth(ctx, "2026-01"))
	second, err := agg.Recap(ctx)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestAggregator_MonthBoundaryFollowsAttendanceDate(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	students := roster.NewRepository(db.Client)
	require.NoError(t, students.Create(ctx, roster.Student{RFIDUID: "A1", Name: "Alice", Class: "7A"}))

	// 06:30 local on March 1 in UTC+7 is still February 28 in UTC; the
	// aggregate must follow the attendance day, not the stored timestamp.
	wib := time.FixedZone("WIB", 7*3600)
	earlyMarch := time.Date(2026, 3, 1, 6, 30, 0, 0, wib)

	logs := NewRepository(db.Client)
	rec := NewRecorder(logs, students, fixedClock(earlyMarch))
	_, err := rec.RecordTap(ctx, "A1", "DEV1")
	require.NoError(t, err)

	agg := NewAggregator(db.Client, fixedClock(earlyMarch))
	require.Equal(t, "2026-03", agg.CurrentMonth())
	require.NoError(t, agg.RunMonth(ctx, agg.CurrentMonth()))

	recap, err := agg.Recap(ctx)
	require.NoError(t, err)
	require.Len(t, recap, 1)
	assert.Equal(t, "2026-03", recap[0].MonthYear)
	assert.Equal(t, 1, recap[0].TotalAttendance)

	// and nothing leaks into February
	require.NoError(t, agg.RunMonth(ctx, "2026-02"))
	recap, err = agg.Recap(ctx)
	require.NoError(t, err)
	require.Len(t, recap, 1)
	assert.Equal(t, "2026-03", recap[0].MonthYear)
}

func TestAggregator_RecomputesAfterNewLogs(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	students := roster.NewRepository(db.Client)
	require.NoError(t, students.Create(ctx, roster.Student{RFIDUID: "A1", Name: "Alice", Class: "7A"}))

	logs := NewRepository(db.Client)
	jan := time.Date(2026, 1, 5, 8, 0, 0, 0, time.UTC)
	_, err := logs.InsertIfAbsent(ctx, "A1", "DEV1", jan.Format("2006-01-02"), jan)
	require.NoError(t, err)

	agg := NewAggregator(db.Client, nil)
	require.NoError(t, agg.RunMonth(ctx, "2026-01"))

	next := jan.AddDate(0, 0, 1)
	_, err = logs.InsertIfAbsent(ctx, "A1", "DEV1", next.Format("2006-01-02"), next)
	require.NoError(t, err)
	require.NoError(t, agg.RunMonth(ctx, "2026-01"))

	recap, err := agg.Recap(ctx)
	require.NoError(t, err)
	require.Len(t, recap, 1)
	assert.Equal(t, 2, recap[0].TotalAttendance)
}
