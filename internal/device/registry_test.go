package device

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"absensi/internal/roster"
	"absensi/internal/store"
)

func newTestRegistry(t *testing.T) *Registry {
	t.Helper()
	db, err := store.New(":memory:")
	require.NoError(t, err)
	db.Client.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })
	return NewRegistry(db.Client, roster.NewRepository(db.Client), nil)
}

func TestPing_CreatesDeviceWithDefaults(t *testing.T) {
	reg := newTestRegistry(t)
	ctx := context.Background()

	mode, power, display := reg.Ping(ctx, "DEV1")
	assert.Equal(t, DefaultMode, mode)
	assert.Equal(t, DefaultPower, power)
	assert.Equal(t, DefaultDisplayText, display)

	// exactly one row, even after repeated pings
	reg.Ping(ctx, "DEV1")
	devices, err := reg.List(ctx)
	require.NoError(t, err)
	require.Len(t, devices, 1)
	assert.Equal(t, "DEV1", devices[0].DeviceID)
	require.NotNil(t, devices[0].LastSeen)
}

func TestPing_RefreshesLastSeenOnly(t *testing.T) {
	reg := newTestRegistry(t)
	ctx := context.Background()

	reg.Ping(ctx, "DEV1")
	display := "Good morning"
	require.NoError(t, reg.UpdateConfig(ctx, "DEV1", ConfigPatch{DisplayText: &display}))

	// a later heartbeat must not roll the config back to defaults
	_, _, got := reg.Ping(ctx, "DEV1")
	assert.Equal(t, "Good morning", got)
}

func TestUpdateConfig_PartialFieldsIndependent(t *testing.T) {
	reg := newTestRegistry(t)
	ctx := context.Background()

	reg.Ping(ctx, "DEV1")

	power := 0
	require.NoError(t, reg.UpdateConfig(ctx, "DEV1", ConfigPatch{PowerStatus: &power}))

	dev, err := reg.Get(ctx, "DEV1")
	require.NoError(t, err)
	require.NotNil(t, dev)
	assert.Equal(t, 0, dev.PowerStatus)
	assert.Equal(t, DefaultMode, dev.Mode, "mode untouched")
	assert.Equal(t, DefaultDisplayText, dev.DisplayText, "display text untouched")

	mode := "MAINTENANCE"
	require.NoError(t, reg.UpdateConfig(ctx, "DEV1", ConfigPatch{Mode: &mode}))
	dev, err = reg.Get(ctx, "DEV1")
	require.NoError(t, err)
	assert.Equal(t, "MAINTENANCE", dev.Mode)
	assert.Equal(t, 0, dev.PowerStatus, "earlier power change survives")
}

func TestUpdateConfig_RequiresDeviceID(t *testing.T) {
	reg := newTestRegistry(t)
	assert.Error(t, reg.UpdateConfig(context.Background(), "", ConfigPatch{}))
}

func TestReportScan_PreviewDoesNotLogAttendance(t *testing.T) {
	db, err := store.New(":memory:")
	require.NoError(t, err)
	db.Client.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	students := roster.NewRepository(db.Client)
	reg := NewRegistry(db.Client, students, nil)
	ctx := context.Background()

	require.NoError(t, students.Create(ctx, roster.Student{RFIDUID: "12345678", Name: "Demo Student 1", Class: "7A"}))
	reg.Ping(ctx, "DEV1")

	preview, err := reg.ReportScan(ctx, "DEV1", "12345678")
	require.NoError(t, err)
	assert.True(t, preview.IsRegistered)
	require.NotNil(t, preview.Student)
	assert.Equal(t, "Demo Student 1", preview.Student.Name)

	unknown, err := reg.ReportScan(ctx, "DEV1", "ffffffff")
	require.NoError(t, err)
	assert.False(t, unknown.IsRegistered)
	assert.Nil(t, unknown.Student)

	dev, err := reg.Get(ctx, "DEV1")
	require.NoError(t, err)
	require.NotNil(t, dev.LastScannedUID)
	assert.Equal(t, "ffffffff", *dev.LastScannedUID)

	var logCount int
	require.NoError(t, db.Client.QueryRow(`SELECT COUNT(*) FROM attendance_logs`).Scan(&logCount))
	assert.Equal(t, 0, logCount, "scan preview never writes an attendance log")
}

func TestList_NewestSeenFirst(t *testing.T) {
	db, err := store.New(":memory:")
	require.NoError(t, err)
	db.Client.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	base := time.Date(2026, 1, 10, 8, 0, 0, 0, time.UTC)
	current := base
	reg := NewRegistry(db.Client, roster.NewRepository(db.Client), func() time.Time { return current })
	ctx := context.Background()

	reg.Ping(ctx, "OLD")
	current = base.Add(time.Hour)
	reg.Ping(ctx, "NEW")

	devices, err := reg.List(ctx)
	require.NoError(t, err)
	require.Len(t, devices, 2)
	assert.Equal(t, "NEW", devices[0].DeviceID)
	assert.Equal(t, "OLD", devices[1].DeviceID)
}
