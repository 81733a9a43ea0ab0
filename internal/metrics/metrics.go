package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Taps counts attendance submissions by outcome
// (recorded, duplicate, unknown_card, error).
var Taps = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "absensi_taps_total",
	Help: "Attendance tap submissions by outcome.",
}, []string{"outcome"})

// DevicePings counts device heartbeats.
var DevicePings = promauto.NewCounter(prometheus.CounterOpts{
	Name: "absensi_device_pings_total",
	Help: "Device heartbeat requests.",
})

// Logins counts admin login attempts by outcome (success, failure).
var Logins = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "absensi_logins_total",
	Help: "Admin login attempts by outcome.",
}, []string{"outcome"})
