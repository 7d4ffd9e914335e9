package auth

import (
	"net/http"

	"github.com/rs/zerolog/log"
)

// LoadSession creates a middleware that reads the session from store and
// passes it down via the request context.
func LoadSession(store Store) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess, err := store.Load(r)
			if err != nil {
				log.Warn().Err(err).Msg("Failed to load session")
				sess = &Session{}
			}
			next.ServeHTTP(w, r.WithContext(WithSession(r.Context(), sess)))
		})
	}
}

// RequireLogin creates a middleware for protecting routes. Anonymous
// requests are redirected to loginPath instead of reaching the handler.
func RequireLogin(loginPath string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !FromContext(r.Context()).Authenticated() {
				http.Redirect(w, r, loginPath, http.StatusFound)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
