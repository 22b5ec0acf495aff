// Package config provides centralized configuration loaded from environment
// variables. Shared by both cmd/api and cmd/traineasy-jobs.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

// --------------------------------------------------------------------------
// Tables with retention rules; names match the goose migrations
// --------------------------------------------------------------------------

const (
	DeviceTokensTable     = "device_tokens"
	NotificationLogsTable = "notification_logs"
)

// --------------------------------------------------------------------------
// Config struct, populated from environment variables
// --------------------------------------------------------------------------

type Config struct {
	// Database
	DatabaseURL    string
	DBPoolMinConns int
	DBPoolMaxConns int
	DBPoolMaxLife  time.Duration

	// API server
	APIHost     string
	APIPort     int
	Environment string // development, staging, production
	LogLevel    string

	// CORS
	CORSAllowOrigins []string

	// Rate limiting
	RateLimitEnabled  bool
	RateLimitRequests int
	RateLimitWindow   time.Duration

	// Shared secrets. CronSecret guards job endpoints, AdminSecret guards
	// admin content and broadcasts.
	CronSecret  string
	AdminSecret string

	// Push delivery
	FCMCredentialsFile string
	DefaultTimezone    string

	// Cache
	CacheEnabled bool

	// Browser notification relay
	RedisURL           string
	RelayQueueCapacity int

	// Maintenance
	CleanupInterval time.Duration
	CatchUpInterval time.Duration
	LogRetention    time.Duration
	TokenRetention  time.Duration
}

// Load reads configuration from environment variables with sensible defaults.
func Load() (*Config, error) {
	dbURL := envOr("DATABASE_URL", envOr("SUPABASE_DB_URL", ""))
	if dbURL == "" {
		return nil, fmt.Errorf("DATABASE_URL or SUPABASE_DB_URL must be set")
	}

	cfg := &Config{
		DatabaseURL:    dbURL,
		DBPoolMinConns: envInt("DB_POOL_MIN_CONNS", 2),
		DBPoolMaxConns: envInt("DB_POOL_MAX_CONNS", 10),
		DBPoolMaxLife:  time.Duration(envInt("DB_POOL_MAX_LIFE_MINUTES", 30)) * time.Minute,

		APIHost:     envOr("API_HOST", "0.0.0.0"),
		APIPort:     envInt("API_PORT", envInt("PORT", 8000)),
		Environment: envOr("ENVIRONMENT", "development"),
		LogLevel:    envOr("LOG_LEVEL", "info"),

		CORSAllowOrigins: envList("CORS_ALLOW_ORIGINS", []string{
			"http://localhost:3000",
			"http://localhost:5173",
		}),

		RateLimitEnabled:  envBool("RATE_LIMIT_ENABLED", true),
		RateLimitRequests: envInt("RATE_LIMIT_REQUESTS", 100),
		RateLimitWindow:   time.Duration(envInt("RATE_LIMIT_WINDOW", 60)) * time.Second,

		CronSecret:  envOr("CRON_SECRET", ""),
		AdminSecret: envOr("ADMIN_SECRET", ""),

		FCMCredentialsFile: envOr("FIREBASE_CREDENTIALS_FILE", ""),
		DefaultTimezone:    envOr("DEFAULT_TIMEZONE", "Asia/Kolkata"),

		CacheEnabled: envBool("CACHE_ENABLED", true),

		RedisURL:           envOr("REDIS_URL", ""),
		RelayQueueCapacity: envInt("RELAY_QUEUE_CAPACITY", 50),

		CleanupInterval: time.Duration(envInt("MAINTENANCE_CLEANUP_MINUTES", 360)) * time.Minute,
		CatchUpInterval: time.Duration(envInt("MAINTENANCE_CATCHUP_MINUTES", 15)) * time.Minute,
		LogRetention:    time.Duration(envInt("MAINTENANCE_LOG_RETENTION_DAYS", 90)) * 24 * time.Hour,
		TokenRetention:  time.Duration(envInt("MAINTENANCE_TOKEN_RETENTION_DAYS", 270)) * 24 * time.Hour,
	}

	if cfg.IsProduction() && cfg.CronSecret == "" {
		return nil, fmt.Errorf("CRON_SECRET must be set in production")
	}
	if _, err := time.LoadLocation(cfg.DefaultTimezone); err != nil {
		return nil, fmt.Errorf("DEFAULT_TIMEZONE %q: %w", cfg.DefaultTimezone, err)
	}
	return cfg, nil
}

// IsProduction returns true if running in production environment.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// SlogLevel maps LogLevel onto a slog level. Unknown values mean info.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// --------------------------------------------------------------------------
// Env helpers
// --------------------------------------------------------------------------

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return fallback
}

func envList(key string, fallback []string) []string {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, ",")
		result := make([]string, 0, len(parts))
		for _, p := range parts {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				result = append(result, trimmed)
			}
		}
		if len(result) > 0 {
			return result
		}
	}
	return fallback
}
