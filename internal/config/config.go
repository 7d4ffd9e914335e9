package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
)

// DefaultSecretKey is the session-signing fallback for local development.
// It must be overridden with SECRET_KEY in any real deployment.
const DefaultSecretKey = "dev_secret_key"

// Config holds the application configuration.
type Config struct {
	ServerPort         int
	AppEnv             string
	DatabaseDriver     string // sqlite, mysql or postgres
	DatabaseURL        string
	SecretKey          string
	SessionBackend     string // cookie, filesystem or jwt
	SessionDir         string // Only used by the filesystem backend
	SessionMaxAge      int    // Seconds
	CSRFEnabled        bool
	CORSAllowedOrigins []string
	LogLevel           string
	Location           *time.Location
	BcryptCost         int
}

// IsProduction reports whether the app runs with APP_ENV=production.
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// Load loads configuration from environment variables or sets defaults.
// A .env file in the working directory is read first when present.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to read .env: %w", err)
	}

	port, err := strconv.Atoi(getEnv("PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid PORT: %w", err)
	}
	maxAge, err := strconv.Atoi(getEnv("SESSION_MAX_AGE", "604800"))
	if err != nil {
		return nil, fmt.Errorf("invalid SESSION_MAX_AGE: %w", err)
	}
	if maxAge < 1 {
		return nil, errors.New("SESSION_MAX_AGE must be at least 1 second")
	}
	csrfEnabled, err := strconv.ParseBool(getEnv("CSRF_ENABLED", "true"))
	if err != nil {
		return nil, fmt.Errorf("invalid CSRF_ENABLED: %w", err)
	}
	cost, err := strconv.Atoi(getEnv("BCRYPT_COST", strconv.Itoa(bcrypt.DefaultCost)))
	if err != nil {
		return nil, fmt.Errorf("invalid BCRYPT_COST: %w", err)
	}
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		return nil, fmt.Errorf("BCRYPT_COST must be between %d and %d", bcrypt.MinCost, bcrypt.MaxCost)
	}

	loc := time.Local
	if tz := getEnv("APP_TIMEZONE", ""); tz != "" {
		loc, err = time.LoadLocation(tz)
		if err != nil {
			return nil, fmt.Errorf("invalid APP_TIMEZONE: %w", err)
		}
	}

	cfg := &Config{
		ServerPort:         port,
		AppEnv:             getEnv("APP_ENV", "development"),
		DatabaseDriver:     strings.ToLower(getEnv("DATABASE_DRIVER", "sqlite")),
		DatabaseURL:        getEnv("DATABASE_URL", "./gym.db"),
		SecretKey:          getEnv("SECRET_KEY", DefaultSecretKey),
		SessionBackend:     strings.ToLower(getEnv("SESSION_BACKEND", "cookie")),
		SessionDir:         getEnv("SESSION_DIR", "./sessions"),
		SessionMaxAge:      maxAge,
		CSRFEnabled:        csrfEnabled,
		CORSAllowedOrigins: splitList(getEnv("CORS_ALLOWED_ORIGINS", "")),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		Location:           loc,
		BcryptCost:         cost,
	}

	switch cfg.DatabaseDriver {
	case "sqlite", "mysql", "postgres":
	default:
		return nil, fmt.Errorf("unsupported DATABASE_DRIVER %q", cfg.DatabaseDriver)
	}
	switch cfg.SessionBackend {
	case "cookie", "filesystem", "jwt":
	default:
		return nil, fmt.Errorf("unsupported SESSION_BACKEND %q", cfg.SessionBackend)
	}
	if cfg.IsProduction() && cfg.SecretKey == DefaultSecretKey {
		return nil, errors.New("SECRET_KEY must be set in production")
	}

	return cfg, nil
}

// Helper to get an environment variable with a default value.
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
