package handler

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"absensi/internal/attendance"
	"absensi/internal/auth"
	"absensi/internal/device"
	"absensi/internal/metrics"
	"absensi/internal/respond"
	"absensi/internal/roster"
	"absensi/internal/session"
)

// Handler carries every collaborator the route handlers need. All store
// access goes through the injected components, nothing is package-global.
type Handler struct {
	recorder   *attendance.Recorder
	logs       *attendance.Repository
	aggregator *attendance.Aggregator
	students   *roster.Repository
	devices    *device.Registry
	sessions   *session.Manager
	creds      auth.Credentials
	webDir     string
}

// New creates a handler.
func New(
	recorder *attendance.Recorder,
	logs *attendance.Repository,
	aggregator *attendance.Aggregator,
	students *roster.Repository,
	devices *device.Registry,
	sessions *session.Manager,
	creds auth.Credentials,
	webDir string,
) *Handler {
	return &Handler{
		recorder:   recorder,
		logs:       logs,
		aggregator: aggregator,
		students:   students,
		devices:    devices,
		sessions:   sessions,
		creds:      creds,
		webDir:     webDir,
	}
}

// Register wires every route onto the engine. The access control gate runs
// before any of these as engine-level middleware.
func (h *Handler) Register(r *gin.Engine) {
	// Pages
	r.GET("/", func(c *gin.Context) { c.Redirect(http.StatusFound, "/dashboard") })
	r.GET("/login", h.LoginPage)
	r.GET("/logout", h.Logout)
	r.GET("/dashboard", h.page("index.html"))
	r.GET("/recap-view", h.page("recap.html"))
	r.GET("/student-view", h.page("student-view.html"))
	r.GET("/students-view", h.page("students-view.html"))
	r.GET("/settings", h.page("settings.html"))
	r.Static("/static", h.webDir+"/static")

	// Auth
	r.POST("/api/login", h.Login)

	// Attendance
	r.POST("/api/absen", h.RecordTap)
	r.GET("/api/logs", h.RecentLogs)
	r.DELETE("/api/logs/reset", h.ResetLogs)

	// Roster
	r.GET("/api/students", h.ListStudents)
	r.POST("/api/students", h.AddStudent)
	r.DELETE("/api/students/:id", h.DeleteStudent)
	r.POST("/api/students/bulk-delete", h.BulkDeleteClass)
	r.POST("/api/students/bulk-update-class", h.BulkUpdateClass)
	r.GET("/api/students/export-nfc", h.ExportNFC)

	// Recap
	r.GET("/api/recap", h.Recap)
	r.GET("/api/admin/recap-bulanan", h.RunRecap)
	r.GET("/api/recap/csv", h.RecapCSV)

	// Devices
	r.GET("/api/device/ping", h.DevicePing)
	r.POST("/api/device/report-scan", h.DeviceReportScan)
	r.GET("/api/admin/devices", h.ListDevices)
	r.POST("/api/admin/devices/update", h.UpdateDevice)
}

func (h *Handler) page(file string) gin.HandlerFunc {
	path := h.webDir + "/" + file
	return func(c *gin.Context) { c.File(path) }
}

// LoginPage serves the login form, or bounces straight to the dashboard when
// the browser already holds a live session.
func (h *Handler) LoginPage(c *gin.Context) {
	if auth.HasSession(c, h.sessions) {
		c.Redirect(http.StatusFound, "/dashboard")
		return
	}
	c.File(h.webDir + "/login.html")
}

// Login authenticates the admin and issues a session cookie.
func (h *Handler) Login(c *gin.Context) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Fail(c, http.StatusBadRequest, respond.KindValidation, "missing request body")
		return
	}

	if !h.creds.Verify(req.Username, req.Password) {
		metrics.Logins.WithLabelValues("failure").Inc()
		log.Printf("[auth] login failed for user %q", req.Username)
		respond.Fail(c, http.StatusUnauthorized, respond.KindUnauthorized, "invalid credentials")
		return
	}

	token, err := h.sessions.Issue(c.Request.Context())
	if err != nil {
		respond.Fail(c, http.StatusInternalServerError, respond.KindStore, err.Error())
		return
	}

	metrics.Logins.WithLabelValues("success").Inc()
	log.Printf("[auth] login success for user %q", req.Username)
	c.SetCookie(session.CookieName, token, int(h.sessions.TTL()/time.Second), "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// Logout destroys the server-side session and clears the cookie.
func (h *Handler) Logout(c *gin.Context) {
	if cookie, err := c.Cookie(session.CookieName); err == nil {
		h.sessions.Revoke(c.Request.Context(), cookie)
	}
	c.SetCookie(session.CookieName, "", -1, "/", "", false, true)
	c.Redirect(http.StatusFound, "/login")
}

// RecordTap is the commit path for a card tap: validates the card, enforces
// once-per-day, appends the log.
func (h *Handler) RecordTap(c *gin.Context) {
	var req struct {
		RFIDUID  string `json:"rfid_uid"`
		DeviceID string `json:"device_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.RFIDUID == "" || req.DeviceID == "" {
		metrics.Taps.WithLabelValues("error").Inc()
		respond.Fail(c, http.StatusBadRequest, respond.KindValidation, "missing rfid_uid or device_id")
		return
	}

	name, err := h.recorder.RecordTap(c.Request.Context(), req.RFIDUID, req.DeviceID)
	switch {
	case errors.Is(err, attendance.ErrUnknownCard):
		metrics.Taps.WithLabelValues("unknown_card").Inc()
		respond.Fail(c, http.StatusNotFound, respond.KindNotFound, "unknown card")
		return
	case errors.Is(err, attendance.ErrAlreadyRecorded):
		metrics.Taps.WithLabelValues("duplicate").Inc()
		log.Printf("[absen] %s rejected on %s (already recorded today)", req.RFIDUID, req.DeviceID)
		respond.Fail(c, http.StatusBadRequest, respond.KindDuplicate, "already recorded")
		return
	case err != nil:
		metrics.Taps.WithLabelValues("error").Inc()
		respond.Fail(c, http.StatusInternalServerError, respond.KindStore, err.Error())
		return
	}

	metrics.Taps.WithLabelValues("recorded").Inc()
	log.Printf("[absen] %s tapped at %s", name, req.DeviceID)
	c.JSON(http.StatusOK, gin.H{"success": true, "name": name, "message": name})
}

// RecentLogs returns the last 20 attendance events, newest first.
func (h *Handler) RecentLogs(c *gin.Context) {
	entries, err := h.logs.Recent(c.Request.Context(), 20)
	if err != nil {
		respond.Fail(c, http.StatusInternalServerError, respond.KindStore, err.Error())
		return
	}
	if entries == nil {
		entries = []attendance.LogEntry{}
	}
	c.JSON(http.StatusOK, entries)
}

// ResetLogs clears all attendance logs and rewinds the id sequence.
func (h *Handler) ResetLogs(c *gin.Context) {
	if err := h.logs.Reset(c.Request.Context()); err != nil {
		respond.Fail(c, http.StatusInternalServerError, respond.KindStore, err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "all attendance logs cleared"})
}
