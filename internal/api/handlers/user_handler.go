package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/isdelr/gymlog/internal/auth"
	"github.com/isdelr/gymlog/internal/services"
	"github.com/rs/zerolog/log"
)

// AuthHandler handles registration, login and logout.
type AuthHandler struct {
	*Base
	service services.AuthServiceProvider
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(base *Base, service services.AuthServiceProvider) *AuthHandler {
	return &AuthHandler{Base: base, service: service}
}

// Home sends logged-in users to the menu and everyone else to the login form.
func (h *AuthHandler) Home(w http.ResponseWriter, r *http.Request) {
	if auth.FromContext(r.Context()).Authenticated() {
		http.Redirect(w, r, "/menu", http.StatusFound)
		return
	}
	http.Redirect(w, r, "/login", http.StatusFound)
}

// LoginForm renders the login form.
func (h *AuthHandler) LoginForm(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, "login", h.page(r, "Log in"))
}

// Login authenticates the user, records attendance and starts the session.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	username := r.FormValue("username")
	sess := auth.FromContext(r.Context())

	_, err := h.service.Login(r.Context(), sess, username, r.FormValue("password"))
	if errors.Is(err, services.ErrInvalidCredentials) {
		log.Warn().Str("username", username).Msg("Failed authentication attempt")
		page := h.page(r, "Log in")
		page.Error = "Invalid username or password"
		h.render(w, r, http.StatusUnauthorized, "login", page)
		return
	}
	if err != nil {
		internalError(w, r, err, "Failed to log in")
		return
	}

	if !h.saveSession(w, r, sess) {
		return
	}
	http.Redirect(w, r, "/menu", http.StatusSeeOther)
}

// RegisterForm renders the registration form.
func (h *AuthHandler) RegisterForm(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, "register", h.page(r, "Register"))
}

// Register handles new user registration.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	_, err := h.service.Register(r.Context(), r.FormValue("username"), r.FormValue("password"))
	if err == nil {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	page := h.page(r, "Register")
	switch {
	case errors.Is(err, services.ErrDuplicateUsername):
		page.Error = "Username already exists"
		h.render(w, r, http.StatusConflict, "register", page)
	case errors.Is(err, services.ErrPasswordTooLong):
		page.Error = fmt.Sprintf("Password must be at most %d bytes", auth.MaxPasswordBytes)
		h.render(w, r, http.StatusBadRequest, "register", page)
	case errors.Is(err, services.ErrInvalidInput):
		page.Error = "Username and password are required"
		h.render(w, r, http.StatusBadRequest, "register", page)
	default:
		internalError(w, r, err, "Failed to register user")
	}
}

// Logout destroys the session and returns to the login form.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	sess := auth.FromContext(r.Context())
	h.service.Logout(sess)
	if !h.saveSession(w, r, sess) {
		return
	}
	http.Redirect(w, r, "/login", http.StatusFound)
}

// Menu renders the navigation menu.
func (h *AuthHandler) Menu(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, "menu", h.page(r, "Menu"))
}
