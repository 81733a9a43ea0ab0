package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"absensi/internal/device"
	"absensi/internal/metrics"
	"absensi/internal/respond"
)

// DeviceIDHeader identifies the reader terminal on heartbeat requests.
const DeviceIDHeader = "X-Device-ID"

// DevicePing is the heartbeat. It upserts the device row, refreshes
// last_seen, and returns the current config. Heartbeats never hard-fail:
// the registry falls back to defaults on store trouble.
func (h *Handler) DevicePing(c *gin.Context) {
	deviceID := c.GetHeader(DeviceIDHeader)
	if deviceID == "" {
		deviceID = "UNKNOWN_DEVICE"
	}

	mode, power, displayText := h.devices.Ping(c.Request.Context(), deviceID)
	metrics.DevicePings.Inc()

	c.JSON(http.StatusOK, gin.H{
		"status":       "ONLINE",
		"server_time":  time.Now().UTC().Format(time.RFC3339),
		"mode":         mode,
		"power_status": power,
		"display_text": displayText,
	})
}

// DeviceReportScan previews a scanned card: records last_scanned_uid on the
// device and reports registration status without writing an attendance log.
func (h *Handler) DeviceReportScan(c *gin.Context) {
	var req struct {
		DeviceID string `json:"device_id"`
		RFIDUID  string `json:"rfid_uid"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.DeviceID == "" || req.RFIDUID == "" {
		respond.Fail(c, http.StatusBadRequest, respond.KindValidation, "missing device_id or rfid_uid")
		return
	}

	preview, err := h.devices.ReportScan(c.Request.Context(), req.DeviceID, req.RFIDUID)
	if err != nil {
		respond.Fail(c, http.StatusInternalServerError, respond.KindStore, err.Error())
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":       true,
		"is_registered": preview.IsRegistered,
		"student":       preview.Student,
		"rfid_uid":      req.RFIDUID,
	})
}

// ListDevices returns every registered device, most recently seen first.
func (h *Handler) ListDevices(c *gin.Context) {
	devices, err := h.devices.List(c.Request.Context())
	if err != nil {
		respond.Fail(c, http.StatusInternalServerError, respond.KindStore, err.Error())
		return
	}
	if devices == nil {
		devices = []device.Info{}
	}
	c.JSON(http.StatusOK, devices)
}

// UpdateDevice pushes a partial config change to a device. Only fields
// present in the request are applied.
func (h *Handler) UpdateDevice(c *gin.Context) {
	var req struct {
		DeviceID string `json:"device_id"`
		device.ConfigPatch
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.DeviceID == "" {
		respond.Fail(c, http.StatusBadRequest, respond.KindValidation, "missing device_id")
		return
	}

	if err := h.devices.UpdateConfig(c.Request.Context(), req.DeviceID, req.ConfigPatch); err != nil {
		respond.Fail(c, http.StatusInternalServerError, respond.KindStore, err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "device configuration updated"})
}
