package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/isdelr/gymlog/internal/auth"
	"github.com/isdelr/gymlog/internal/database"
	"github.com/isdelr/gymlog/internal/models"
	"github.com/rs/zerolog/log"
)

// AuthServiceProvider defines the interface for authentication services.
type AuthServiceProvider interface {
	Register(ctx context.Context, username, password string) (models.User, error)
	Authenticate(ctx context.Context, username, password string) (models.User, error)
	Login(ctx context.Context, sess *auth.Session, username, password string) (models.User, error)
	Logout(sess *auth.Session)
}

// AuthService provides registration, login and logout.
type AuthService struct {
	db         *database.DB
	attendance AttendanceServiceProvider
	bcryptCost int
	now        Clock
}

// NewAuthService creates a new AuthService.
func NewAuthService(db *database.DB, attendance AttendanceServiceProvider, bcryptCost int, now Clock) *AuthService {
	return &AuthService{db: db, attendance: attendance, bcryptCost: bcryptCost, now: now}
}

// Register creates a new user, hashing their password.
func (s *AuthService) Register(ctx context.Context, username, password string) (models.User, error) {
	username = normalizeUsername(username)
	if username == "" || password == "" {
		return models.User{}, ErrInvalidInput
	}
	if len(password) > auth.MaxPasswordBytes {
		return models.User{}, ErrPasswordTooLong
	}

	hashedPassword, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return models.User{}, fmt.Errorf("failed to hash password: %w", err)
	}

	user := models.User{Username: username}
	query := "INSERT INTO users (username, password) VALUES (?, ?)"
	if s.db.Dialect == database.Postgres {
		err = s.db.QueryRowContext(ctx, s.db.Rebind(query+" RETURNING id"), username, hashedPassword).Scan(&user.ID)
	} else {
		var res sql.Result
		res, err = s.db.ExecContext(ctx, query, username, hashedPassword)
		if err == nil {
			user.ID, err = res.LastInsertId()
		}
	}
	if err != nil {
		if database.IsUniqueViolation(err) {
			return models.User{}, ErrDuplicateUsername
		}
		return models.User{}, fmt.Errorf("failed to insert user: %w", err)
	}

	log.Info().Int64("user_id", user.ID).Str("username", username).Msg("User registered")
	return user, nil
}

// GetUserByUsername retrieves a single user, including the password hash.
func (s *AuthService) GetUserByUsername(ctx context.Context, username string) (models.User, error) {
	username = normalizeUsername(username)
	var user models.User
	row := s.db.QueryRowContext(ctx, s.db.Rebind("SELECT id, username, password FROM users WHERE username = ?"), username)
	if err := row.Scan(&user.ID, &user.Username, &user.PasswordHash); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.User{}, fmt.Errorf("user %s not found: %w", username, err)
		}
		return models.User{}, err
	}
	return user, nil
}

// Authenticate verifies a user's credentials.
func (s *AuthService) Authenticate(ctx context.Context, username, password string) (models.User, error) {
	user, err := s.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.User{}, ErrInvalidCredentials
		}
		return models.User{}, fmt.Errorf("failed to look up user: %w", err)
	}

	if !auth.VerifyPassword(password, user.PasswordHash) {
		return models.User{}, ErrInvalidCredentials
	}

	user.PasswordHash = ""
	return user, nil
}

// Login authenticates the user, binds sess to them and records today's
// attendance. On failure sess is left untouched.
func (s *AuthService) Login(ctx context.Context, sess *auth.Session, username, password string) (models.User, error) {
	user, err := s.Authenticate(ctx, username, password)
	if err != nil {
		return models.User{}, err
	}

	sess.SetUser(user.ID, user.Username)

	// The login already succeeded; a failed attendance write must not undo it.
	if err := s.attendance.Record(ctx, user.ID, s.now()); err != nil {
		log.Error().Err(err).Int64("user_id", user.ID).Msg("Failed to record attendance")
	}
	return user, nil
}

// normalizeUsername is applied on every path that stores or looks up a username.
func normalizeUsername(username string) string {
	return strings.TrimSpace(username)
}

// Logout clears the session unconditionally.
func (s *AuthService) Logout(sess *auth.Session) {
	sess.Clear()
}
