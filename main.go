package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/isdelr/gymlog/internal/api"
	"github.com/isdelr/gymlog/internal/api/handlers"
	"github.com/isdelr/gymlog/internal/auth"
	"github.com/isdelr/gymlog/internal/config"
	"github.com/isdelr/gymlog/internal/database"
	"github.com/isdelr/gymlog/internal/logger"
	"github.com/isdelr/gymlog/internal/services"
	"github.com/isdelr/gymlog/internal/views"
	"github.com/rs/zerolog/log"
)

const sessionCookieName = "gymlog_session"

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	logger.Init(cfg.LogLevel, cfg.IsProduction())

	// Set up database
	db, err := database.New(cfg.DatabaseDriver, cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.DatabaseDriver).Msg("Failed to initialize database")
	}
	defer db.Close()

	if err := database.Migrate(context.Background(), db); err != nil {
		log.Fatal().Err(err).Msg("Failed to apply database migrations")
	}

	sessions, err := newSessionStore(cfg)
	if err != nil {
		log.Fatal().Err(err).Str("backend", cfg.SessionBackend).Msg("Failed to initialize session store")
	}

	renderer, err := views.New()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to parse templates")
	}

	// Set up services
	clock := services.ClockIn(cfg.Location)
	attendanceService := services.NewAttendanceService(db, clock)
	authService := services.NewAuthService(db, attendanceService, cfg.BcryptCost, clock)
	workoutService := services.NewWorkoutService(db)

	// Set up router
	base := &handlers.Base{Sessions: sessions, Views: renderer, Now: clock}
	router := api.NewRouter(base, db, authService, workoutService, attendanceService, api.Options{
		Production:         cfg.IsProduction(),
		CSRFEnabled:        cfg.CSRFEnabled,
		SecretKey:          cfg.SecretKey,
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
	})

	// Set up server
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Info().
			Int("port", cfg.ServerPort).
			Str("env", cfg.AppEnv).
			Str("driver", cfg.DatabaseDriver).
			Str("sessions", cfg.SessionBackend).
			Msg("Server starting")
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("ListenAndServe failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exiting")
}

func newSessionStore(cfg *config.Config) (auth.Store, error) {
	opts := auth.CookieOptions{MaxAge: cfg.SessionMaxAge, Secure: cfg.IsProduction()}
	secret := []byte(cfg.SecretKey)

	switch cfg.SessionBackend {
	case "cookie":
		return auth.NewCookieStore(sessionCookieName, secret, opts), nil
	case "filesystem":
		if err := os.MkdirAll(cfg.SessionDir, 0700); err != nil {
			return nil, fmt.Errorf("failed to create session directory: %w", err)
		}
		return auth.NewFilesystemStore(sessionCookieName, cfg.SessionDir, secret, opts), nil
	case "jwt":
		return auth.NewJWTStore(sessionCookieName, secret, opts), nil
	default:
		return nil, fmt.Errorf("unknown session backend %q", cfg.SessionBackend)
	}
}
