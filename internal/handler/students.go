package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"absensi/internal/respond"
	"absensi/internal/roster"
)

// ListStudents returns the roster ordered by name. Dual-auth: reader
// terminals pull this to cache the card list.
func (h *Handler) ListStudents(c *gin.Context) {
	students, err := h.students.List(c.Request.Context())
	if err != nil {
		respond.Fail(c, http.StatusInternalServerError, respond.KindStore, err.Error())
		return
	}
	if students == nil {
		students = []roster.Student{}
	}
	c.JSON(http.StatusOK, students)
}

// AddStudent registers a new card.
func (h *Handler) AddStudent(c *gin.Context) {
	var req struct {
		RFIDUID string `json:"rfid_uid"`
		Name    string `json:"name"`
		Class   string `json:"class"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.RFIDUID == "" || req.Name == "" || req.Class == "" {
		respond.Fail(c, http.StatusBadRequest, respond.KindValidation, "rfid_uid, name, and class are required")
		return
	}

	err := h.students.Create(c.Request.Context(), roster.Student{
		RFIDUID: req.RFIDUID,
		Name:    req.Name,
		Class:   req.Class,
	})
	if errors.Is(err, roster.ErrDuplicateCard) {
		respond.Fail(c, http.StatusBadRequest, respond.KindDuplicate, "card already registered")
		return
	}
	if err != nil {
		respond.Fail(c, http.StatusInternalServerError, respond.KindStore, err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "student added"})
}

// DeleteStudent removes one student by card UID.
func (h *Handler) DeleteStudent(c *gin.Context) {
	uid := c.Param("id")
	err := h.students.Delete(c.Request.Context(), uid)
	if errors.Is(err, roster.ErrNotFound) {
		respond.Fail(c, http.StatusNotFound, respond.KindNotFound, "student not found")
		return
	}
	if err != nil {
		respond.Fail(c, http.StatusInternalServerError, respond.KindStore, err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "student " + uid + " deleted"})
}

// BulkDeleteClass removes every student in a class.
func (h *Handler) BulkDeleteClass(c *gin.Context) {
	var req struct {
		ClassName string `json:"class_name"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.ClassName == "" {
		respond.Fail(c, http.StatusBadRequest, respond.KindValidation, "class_name is required")
		return
	}
	if err := h.students.DeleteClass(c.Request.Context(), req.ClassName); err != nil {
		respond.Fail(c, http.StatusInternalServerError, respond.KindStore, err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "class " + req.ClassName + " deleted"})
}

// BulkUpdateClass renames a class label across the roster.
func (h *Handler) BulkUpdateClass(c *gin.Context) {
	var req struct {
		OldClass string `json:"old_class"`
		NewClass string `json:"new_class"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.OldClass == "" || req.NewClass == "" {
		respond.Fail(c, http.StatusBadRequest, respond.KindValidation, "old_class and new_class are required")
		return
	}
	if err := h.students.RenameClass(c.Request.Context(), req.OldClass, req.NewClass); err != nil {
		respond.Fail(c, http.StatusInternalServerError, respond.KindStore, err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "class " + req.OldClass + " renamed to " + req.NewClass})
}

// ExportNFC downloads the roster as JSON with derived hex UIDs for NFC
// emulation tools.
func (h *Handler) ExportNFC(c *gin.Context) {
	entries, err := h.students.ExportNFC(c.Request.Context())
	if err != nil {
		respond.Fail(c, http.StatusInternalServerError, respond.KindStore, err.Error())
		return
	}
	if entries == nil {
		entries = []roster.NFCExportEntry{}
	}
	c.Header("Content-Disposition", "attachment; filename=students_nfc_export.json")
	c.JSON(http.StatusOK, gin.H{
		"description":  "Exported Student UIDs for NFC Emulation",
		"generated_at": time.Now().UTC().Format(time.RFC3339),
		"students":     entries,
	})
}
