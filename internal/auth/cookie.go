package auth

import (
	"net/http"

	"github.com/gorilla/sessions"
	"github.com/rs/zerolog/log"
)

const (
	userIDKey   = "user_id"
	usernameKey = "username"
)

// GorillaStore keeps the session in a gorilla/sessions store, either a
// signed cookie or a server-side file referenced by the cookie.
type GorillaStore struct {
	store sessions.Store
	name  string
}

// CookieOptions are the cookie attributes shared by every backend.
type CookieOptions struct {
	MaxAge int
	Secure bool
}

func (o CookieOptions) sessionOptions() *sessions.Options {
	return &sessions.Options{
		Path:     "/",
		MaxAge:   o.MaxAge,
		Secure:   o.Secure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
}

// NewCookieStore creates a store that keeps the session in a cookie
// signed with secret.
func NewCookieStore(name string, secret []byte, opts CookieOptions) *GorillaStore {
	cs := sessions.NewCookieStore(secret)
	cs.Options = opts.sessionOptions()
	cs.MaxAge(opts.MaxAge)
	return &GorillaStore{store: cs, name: name}
}

// NewFilesystemStore creates a store that keeps session data under dir.
func NewFilesystemStore(name, dir string, secret []byte, opts CookieOptions) *GorillaStore {
	fs := sessions.NewFilesystemStore(dir, secret)
	fs.Options = opts.sessionOptions()
	fs.MaxAge(opts.MaxAge)
	return &GorillaStore{store: fs, name: name}
}

// Load reads the session. A cookie that fails to decode, e.g. after the
// secret changed, yields an anonymous session.
func (g *GorillaStore) Load(r *http.Request) (*Session, error) {
	sess, err := g.store.Get(r, g.name)
	if err != nil {
		log.Debug().Err(err).Msg("Discarding unreadable session")
		return &Session{}, nil
	}
	id, _ := sess.Values[userIDKey].(int64)
	username, _ := sess.Values[usernameKey].(string)
	return &Session{UserID: id, Username: username}, nil
}

// Save writes s to the response, expiring the cookie when s is anonymous.
func (g *GorillaStore) Save(w http.ResponseWriter, r *http.Request, s *Session) error {
	sess, _ := g.store.Get(r, g.name)
	if !s.Authenticated() {
		sess.Values = map[interface{}]interface{}{}
		sess.Options.MaxAge = -1
		return sess.Save(r, w)
	}
	sess.Values[userIDKey] = s.UserID
	sess.Values[usernameKey] = s.Username
	return sess.Save(r, w)
}
