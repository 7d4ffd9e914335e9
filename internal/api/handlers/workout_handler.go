package handlers

import (
	"errors"
	"net/http"

	"github.com/isdelr/gymlog/internal/auth"
	"github.com/isdelr/gymlog/internal/models"
	"github.com/isdelr/gymlog/internal/services"
)

// WorkoutHandler handles the workout log pages.
type WorkoutHandler struct {
	*Base
	service services.WorkoutServiceProvider
}

// NewWorkoutHandler creates a new WorkoutHandler.
func NewWorkoutHandler(base *Base, service services.WorkoutServiceProvider) *WorkoutHandler {
	return &WorkoutHandler{Base: base, service: service}
}

// GetAll lists every workout of the user with an empty log form.
func (h *WorkoutHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	form := models.WorkoutForm{Date: h.Now().Format(models.DateLayout)}
	h.renderRecord(w, r, http.StatusOK, form, nil)
}

// Create logs a new workout and redirects back to the list.
func (h *WorkoutHandler) Create(w http.ResponseWriter, r *http.Request) {
	sess := auth.FromContext(r.Context())
	form := models.WorkoutForm{
		Date:     r.FormValue("date"),
		Exercise: r.FormValue("exercise"),
		Weight:   r.FormValue("weight"),
		Reps:     r.FormValue("reps"),
		Sets:     r.FormValue("sets"),
	}

	workout, err := form.Parse(sess.UserID)
	if err == nil {
		_, err = h.service.AddEntry(r.Context(), workout)
	}
	var verr models.ValidationError
	if errors.As(err, &verr) {
		h.renderRecord(w, r, http.StatusBadRequest, form, verr)
		return
	}
	if err != nil {
		internalError(w, r, err, "Failed to add workout")
		return
	}

	http.Redirect(w, r, "/record", http.StatusSeeOther)
}

func (h *WorkoutHandler) renderRecord(w http.ResponseWriter, r *http.Request, status int, form models.WorkoutForm, verr models.ValidationError) {
	workouts, err := h.service.ListAll(r.Context(), auth.FromContext(r.Context()).UserID)
	if err != nil {
		internalError(w, r, err, "Failed to retrieve workouts")
		return
	}

	page := h.page(r, "Record")
	page.Data["Form"] = form
	page.Data["Workouts"] = workouts
	if len(verr) > 0 {
		page.Data["Errors"] = verr
		page.Error = "Please correct the highlighted fields."
	}
	h.render(w, r, status, "record", page)
}

// Monthly lists the current month's workouts with their summary.
func (h *WorkoutHandler) Monthly(w http.ResponseWriter, r *http.Request) {
	now := h.Now()
	workouts, err := h.service.ListForMonth(r.Context(), auth.FromContext(r.Context()).UserID, now.Year(), now.Month())
	if err != nil {
		internalError(w, r, err, "Failed to retrieve monthly workouts")
		return
	}

	page := h.page(r, "Workouts for "+now.Format("January 2006"))
	page.Data["Workouts"] = workouts
	page.Data["Summary"] = models.Summarize(now.Year(), now.Month(), workouts)
	h.render(w, r, http.StatusOK, "monthly", page)
}
