package handlers

import (
	"net/http"

	"github.com/isdelr/gymlog/internal/auth"
	"github.com/isdelr/gymlog/internal/services"
)

// AttendanceHandler renders the attendance calendar.
type AttendanceHandler struct {
	*Base
	service services.AttendanceServiceProvider
}

// NewAttendanceHandler creates a new AttendanceHandler.
func NewAttendanceHandler(base *Base, service services.AttendanceServiceProvider) *AttendanceHandler {
	return &AttendanceHandler{Base: base, service: service}
}

// Calendar renders the current month with the user's attended days marked.
func (h *AttendanceHandler) Calendar(w http.ResponseWriter, r *http.Request) {
	now := h.Now()
	cal, err := h.service.MonthGrid(r.Context(), auth.FromContext(r.Context()).UserID, now.Year(), now.Month())
	if err != nil {
		internalError(w, r, err, "Failed to build attendance calendar")
		return
	}

	page := h.page(r, "Attendance for "+now.Format("January 2006"))
	page.Data["Calendar"] = cal
	h.render(w, r, http.StatusOK, "attendance", page)
}
