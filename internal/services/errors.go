package services

import (
	"errors"
	"fmt"

	"github.com/isdelr/gymlog/internal/auth"
)

var (
	// ErrDuplicateUsername is returned when registering a taken username.
	ErrDuplicateUsername = errors.New("username already exists")
	// ErrInvalidCredentials is returned for an unknown user or wrong password.
	ErrInvalidCredentials = errors.New("invalid username or password")
	// ErrInvalidInput is returned when registration fields are empty.
	ErrInvalidInput = errors.New("username and password are required")
	// ErrPasswordTooLong is returned for passwords bcrypt cannot hash. It
	// matches ErrInvalidInput.
	ErrPasswordTooLong = fmt.Errorf("%w: password longer than %d bytes", ErrInvalidInput, auth.MaxPasswordBytes)
)
