package auth

import (
	"context"
	"net/http"
)

// Session is the per-request login state. The zero value is anonymous.
type Session struct {
	UserID   int64
	Username string
}

// Authenticated reports whether the session is bound to a user.
func (s *Session) Authenticated() bool {
	return s != nil && s.UserID != 0
}

// SetUser binds the session to a user, replacing any previous binding.
func (s *Session) SetUser(id int64, username string) {
	s.UserID = id
	s.Username = username
}

// Clear returns the session to the anonymous state.
func (s *Session) Clear() {
	*s = Session{}
}

// Store loads and persists sessions for HTTP requests. Save of an
// anonymous session removes whatever the client holds.
type Store interface {
	Load(r *http.Request) (*Session, error)
	Save(w http.ResponseWriter, r *http.Request, s *Session) error
}

type contextKey string

// SessionKey is the context key for the request's session.
const SessionKey = contextKey("session")

// WithSession returns a copy of ctx carrying s.
func WithSession(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, SessionKey, s)
}

// FromContext returns the request's session, or a fresh anonymous one
// when LoadSession did not run.
func FromContext(ctx context.Context) *Session {
	if s, ok := ctx.Value(SessionKey).(*Session); ok && s != nil {
		return s
	}
	return &Session{}
}
