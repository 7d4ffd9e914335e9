package auth

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Claims defines the JWT claims structure.
type Claims struct {
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// JWTStore keeps the session as an HS256-signed token in a cookie.
type JWTStore struct {
	name   string
	key    []byte
	opts   CookieOptions
	nowFn  func() time.Time
	issuer string
}

// NewJWTStore creates a token-backed session store.
func NewJWTStore(name string, key []byte, opts CookieOptions) *JWTStore {
	return &JWTStore{name: name, key: key, opts: opts, nowFn: time.Now, issuer: "gymlog"}
}

// GenerateJWT creates a new JWT for the session's user.
func (j *JWTStore) GenerateJWT(s *Session) (string, error) {
	now := j.nowFn()
	claims := &Claims{
		Username: s.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			Issuer:    j.issuer,
			Subject:   strconv.FormatInt(s.UserID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Duration(j.opts.MaxAge) * time.Second)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(j.key)
}

// ValidateJWT parses and validates a JWT string.
func (j *JWTStore) ValidateJWT(tokenStr string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		return j.key, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(j.issuer),
		jwt.WithTimeFunc(j.nowFn),
	)
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}
	return claims, nil
}

// Load reads the token cookie. A missing, expired or tampered token yields
// an anonymous session.
func (j *JWTStore) Load(r *http.Request) (*Session, error) {
	cookie, err := r.Cookie(j.name)
	if err != nil || cookie.Value == "" {
		return &Session{}, nil
	}
	claims, err := j.ValidateJWT(cookie.Value)
	if err != nil {
		log.Debug().Err(err).Msg("Discarding invalid session token")
		return &Session{}, nil
	}
	id, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil {
		return &Session{}, nil
	}
	return &Session{UserID: id, Username: claims.Username}, nil
}

// Save issues a fresh token for an authenticated session, or expires the
// cookie for an anonymous one.
func (j *JWTStore) Save(w http.ResponseWriter, r *http.Request, s *Session) error {
	if !s.Authenticated() {
		http.SetCookie(w, &http.Cookie{
			Name:     j.name,
			Value:    "",
			Path:     "/",
			MaxAge:   -1,
			HttpOnly: true,
			Secure:   j.opts.Secure,
			SameSite: http.SameSiteLaxMode,
		})
		return nil
	}

	token, err := j.GenerateJWT(s)
	if err != nil {
		return fmt.Errorf("failed to sign session token: %w", err)
	}
	http.SetCookie(w, &http.Cookie{
		Name:     j.name,
		Value:    token,
		Path:     "/",
		MaxAge:   j.opts.MaxAge,
		Expires:  j.nowFn().Add(time.Duration(j.opts.MaxAge) * time.Second),
		HttpOnly: true,
		Secure:   j.opts.Secure,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}
