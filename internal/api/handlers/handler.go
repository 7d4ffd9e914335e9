package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/csrf"
	"github.com/isdelr/gymlog/internal/auth"
	"github.com/isdelr/gymlog/internal/services"
	"github.com/isdelr/gymlog/internal/views"
	"github.com/rs/zerolog/log"
)

// Base carries what every page handler needs: the session store, the
// page renderer and the clock that decides what "today" is.
type Base struct {
	Sessions auth.Store
	Views    *views.Renderer
	Now      services.Clock
}

// page starts the template data for the request.
func (b *Base) page(r *http.Request, title string) views.Page {
	return views.Page{
		Title:     title,
		Username:  auth.FromContext(r.Context()).Username,
		CSRFField: csrf.TemplateField(r),
		Data:      map[string]interface{}{},
	}
}

func (b *Base) render(w http.ResponseWriter, r *http.Request, status int, name string, page views.Page) {
	if err := b.Views.Render(w, status, name, page); err != nil {
		internalError(w, r, err, "Failed to render page")
	}
}

// saveSession persists the request's session, answering with a 500 when
// it fails. It reports whether the caller may continue.
func (b *Base) saveSession(w http.ResponseWriter, r *http.Request, sess *auth.Session) bool {
	if err := b.Sessions.Save(w, r, sess); err != nil {
		internalError(w, r, err, "Failed to save session")
		return false
	}
	return true
}

// internalError logs the real error and returns a generic message to the client.
func internalError(w http.ResponseWriter, r *http.Request, err error, msg string) {
	log.Error().Err(err).
		Str("request_id", middleware.GetReqID(r.Context())).
		Int64("user_id", auth.FromContext(r.Context()).UserID).
		Msg(msg)
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}
