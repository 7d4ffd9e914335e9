package api

import (
	"crypto/sha256"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/gorilla/csrf"
	"github.com/isdelr/gymlog/internal/api/handlers"
	"github.com/isdelr/gymlog/internal/auth"
	"github.com/isdelr/gymlog/internal/logger"
	"github.com/isdelr/gymlog/internal/services"
	"github.com/rs/zerolog/log"
)

// Options controls the optional parts of the middleware stack.
type Options struct {
	Production         bool
	CSRFEnabled        bool
	SecretKey          string
	CORSAllowedOrigins []string
}

// NewRouter creates and configures a new Chi router.
func NewRouter(
	base *handlers.Base,
	health handlers.Pinger,
	authService services.AuthServiceProvider,
	workoutService services.WorkoutServiceProvider,
	attendanceService services.AttendanceServiceProvider,
	opts Options,
) *chi.Mux {
	r := chi.NewRouter()

	// Basic middleware stack
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(logger.Middleware)
	r.Use(middleware.Recoverer)

	if len(opts.CORSAllowedOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   opts.CORSAllowedOrigins,
			AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Content-Type", "X-CSRF-Token"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}

	if opts.CSRFEnabled {
		if !opts.Production {
			r.Use(plaintextHTTP)
		}
		key := sha256.Sum256([]byte(opts.SecretKey))
		r.Use(csrf.Protect(key[:],
			csrf.Secure(opts.Production),
			csrf.Path("/"),
			csrf.ErrorHandler(http.HandlerFunc(csrfFailure)),
		))
	}

	r.Use(auth.LoadSession(base.Sessions))

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(base, authService)
	workoutHandler := handlers.NewWorkoutHandler(base, workoutService)
	attendanceHandler := handlers.NewAttendanceHandler(base, attendanceService)
	healthHandler := handlers.NewHealthHandler(health)

	// Public routes
	r.Get("/", authHandler.Home)
	r.Get("/healthz", healthHandler.Check)
	r.Get("/login", authHandler.LoginForm)
	r.Post("/login", authHandler.Login)
	r.Get("/register", authHandler.RegisterForm)
	r.Post("/register", authHandler.Register)
	r.Get("/logout", authHandler.Logout)
	r.Post("/logout", authHandler.Logout)

	// Protected routes
	r.Group(func(r chi.Router) {
		r.Use(auth.RequireLogin("/login"))

		r.Get("/menu", authHandler.Menu)
		r.Get("/record", workoutHandler.GetAll)
		r.Post("/record", workoutHandler.Create)
		r.Get("/monthly", workoutHandler.Monthly)
		r.Get("/attendance", attendanceHandler.Calendar)
	})

	return r
}

// plaintextHTTP marks requests as served over plain HTTP so the CSRF
// origin checks do not expect https.
func plaintextHTTP(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		next.ServeHTTP(w, csrf.PlaintextHTTPRequest(r))
	})
}

func csrfFailure(w http.ResponseWriter, r *http.Request) {
	log.Warn().
		Err(csrf.FailureReason(r)).
		Str("request_id", middleware.GetReqID(r.Context())).
		Str("path", r.URL.Path).
		Msg("CSRF validation failed")
	http.Error(w, http.StatusText(http.StatusForbidden), http.StatusForbidden)
}
