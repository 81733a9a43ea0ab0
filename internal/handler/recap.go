package handler

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"absensi/internal/attendance"
	"absensi/internal/respond"
)

// Recap returns every monthly aggregate joined with student info.
func (h *Handler) Recap(c *gin.Context) {
	recap, err := h.aggregator.Recap(c.Request.Context())
	if err != nil {
		respond.Fail(c, http.StatusInternalServerError, respond.KindStore, err.Error())
		return
	}
	if recap == nil {
		recap = []attendance.RecapRow{}
	}
	c.JSON(http.StatusOK, recap)
}

// RunRecap triggers aggregation for the current month. Re-running overwrites,
// never accumulates.
func (h *Handler) RunRecap(c *gin.Context) {
	month := h.aggregator.CurrentMonth()
	if err := h.aggregator.RunMonth(c.Request.Context(), month); err != nil {
		respond.Fail(c, http.StatusInternalServerError, respond.KindStore, err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "month": month})
}

// RecapCSV downloads the aggregates as semicolon-delimited CSV with a UTF-8
// BOM so spreadsheet imports pick the encoding up.
func (h *Handler) RecapCSV(c *gin.Context) {
	recap, err := h.aggregator.Recap(c.Request.Context())
	if err != nil {
		respond.Fail(c, http.StatusInternalServerError, respond.KindStore, err.Error())
		return
	}
	if len(recap) == 0 {
		respond.Fail(c, http.StatusNotFound, respond.KindNotFound, "no recap data to export")
		return
	}

	var b strings.Builder
	b.WriteString("\uFEFF")
	b.WriteString("Month;RFID UID;Name;Class;Total Present\n")
	for _, row := range recap {
		fmt.Fprintf(&b, "%s;%s;%s;%s;%d\n", row.MonthYear, row.RFIDUID, row.Name, row.Class, row.TotalAttendance)
	}

	c.Header("Content-Disposition", "attachment; filename=monthly_recap.csv")
	c.Data(http.StatusOK, "text/csv; charset=utf-8", []byte(b.String()))
}
