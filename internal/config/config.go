package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Data backends the server can run against.
const (
	BackendPostgres = "postgres"
	BackendSQLite   = "sqlite"
	BackendMemory   = "memory"
)

// Config holds runtime configuration sourced from env vars.
type Config struct {
	Port             string
	AppEnv           string
	LogLevel         string
	DataBackend      string
	DatabaseURL      string
	SQLitePath       string
	JWTSecret        string
	JWTRefreshSecret string
	JWTIssuer        string
	AccessTTL        time.Duration
	RefreshTTL       time.Duration
	CORSOrigins      []string
}

// Load reads configuration from the environment and validates it.
func Load() (Config, error) {
	cfg := Config{
		Port:             fallback(os.Getenv("PORT"), "8080"),
		AppEnv:           strings.ToLower(fallback(os.Getenv("APP_ENV"), "development")),
		LogLevel:         strings.ToLower(fallback(os.Getenv("LOG_LEVEL"), "info")),
		DataBackend:      strings.ToLower(fallback(os.Getenv("DATA_BACKEND"), BackendSQLite)),
		DatabaseURL:      strings.TrimSpace(os.Getenv("DATABASE_URL")),
		SQLitePath:       fallback(os.Getenv("SQLITE_DB_PATH"), "./data/jbudget.db"),
		JWTSecret:        strings.TrimSpace(os.Getenv("JWT_SECRET")),
		JWTRefreshSecret: strings.TrimSpace(os.Getenv("JWT_REFRESH_SECRET")),
		JWTIssuer:        fallback(os.Getenv("JWT_ISSUER"), "jbudget"),
		AccessTTL:        positiveDuration(os.Getenv("JWT_ACCESS_TTL_MINUTES"), time.Minute, 15*time.Minute),
		RefreshTTL:       positiveDuration(os.Getenv("JWT_REFRESH_TTL_HOURS"), time.Hour, 7*24*time.Hour),
		CORSOrigins:      parseCSV(fallback(os.Getenv("CORS_ALLOWED_ORIGINS"), "*")),
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports every configuration problem at once.
func (c Config) Validate() error {
	var problems []string

	if port, err := strconv.Atoi(c.Port); err != nil || port < 1 || port > 65535 {
		problems = append(problems, fmt.Sprintf("invalid PORT %q", c.Port))
	}
	switch c.DataBackend {
	case BackendPostgres:
		if c.DatabaseURL == "" {
			problems = append(problems, "DATABASE_URL is required for the postgres backend")
		}
	case BackendSQLite:
		if c.SQLitePath == "" {
			problems = append(problems, "SQLITE_DB_PATH is required for the sqlite backend")
		}
	case BackendMemory:
	default:
		problems = append(problems, fmt.Sprintf("unknown DATA_BACKEND %q", c.DataBackend))
	}
	if c.JWTSecret == "" {
		problems = append(problems, "JWT_SECRET is required")
	}
	if c.JWTRefreshSecret == "" {
		problems = append(problems, "JWT_REFRESH_SECRET is required")
	}
	if c.JWTSecret != "" && c.JWTSecret == c.JWTRefreshSecret {
		problems = append(problems, "JWT_REFRESH_SECRET must differ from JWT_SECRET")
	}

	if len(problems) > 0 {
		return errors.New("config: " + strings.Join(problems, "; "))
	}
	return nil
}

// HTTPAddress returns the host:port pair for the HTTP server to bind to.
func (c Config) HTTPAddress() string {
	return fmt.Sprintf(":%s", c.Port)
}

// IsProduction reports whether the app runs with APP_ENV=production.
func (c Config) IsProduction() bool {
	return c.AppEnv == "production"
}

func fallback(value, def string) string {
	if strings.TrimSpace(value) == "" {
		return def
	}
	return strings.TrimSpace(value)
}

func positiveDuration(raw string, unit, def time.Duration) time.Duration {
	if n, err := strconv.Atoi(strings.TrimSpace(raw)); err == nil && n > 0 {
		return time.Duration(n) * unit
	}
	return def
}

func parseCSV(input string) []string {
	parts := strings.Split(input, ",")
	var out []string
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			out = append(out, trimmed)
		}
	}
	if len(out) == 0 {
		return []string{"*"}
	}
	return out
}
