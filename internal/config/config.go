package config

import (
	"errors"
	"log/slog"
	"os"
	"strconv"
	"time"
)

const devJWTSecret = "dev-secret-change-in-production"

var (
	ErrDevSecretInProduction = errors.New("JWT_SECRET must be set in production environment")
	ErrInvalidMaxLength      = errors.New("MAX_LENGTH must be greater than zero")
	ErrInvalidDefaultLength  = errors.New("DEFAULT_LENGTH must be between 1 and MAX_LENGTH")
)

type Config struct {
	Port        string
	Env         string
	DatabaseDSN string
	JWTSecret   string
	JWTExpiry   time.Duration
	RequireAuth bool

	DefaultLength        int
	MaxLength            int
	RequireSystemEntropy bool

	RateLimitRPS   float64
	RateLimitBurst int
}

// Load reads the configuration from the environment. Malformed numeric or
// boolean values fall back to their defaults with a warning.
func Load() (Config, error) {
	cfg := Config{
		Port:        getEnv("PORT", "8080"),
		Env:         getEnv("ENV", "development"),
		DatabaseDSN: getEnv("DATABASE_DSN", ""),
		JWTSecret:   getEnv("JWT_SECRET", devJWTSecret),
		JWTExpiry:   getEnvDuration("JWT_EXPIRY", 24*time.Hour),
		RequireAuth: getEnvBool("REQUIRE_AUTH", false),

		DefaultLength:        getEnvInt("DEFAULT_LENGTH", 16),
		MaxLength:            getEnvInt("MAX_LENGTH", 128),
		RequireSystemEntropy: getEnvBool("REQUIRE_SYSTEM_ENTROPY", false),

		RateLimitRPS:   getEnvFloat("RATE_LIMIT_RPS", 5),
		RateLimitBurst: getEnvInt("RATE_LIMIT_BURST", 10),
	}

	if cfg.Env == "production" && cfg.JWTSecret == devJWTSecret {
		return Config{}, ErrDevSecretInProduction
	}
	if cfg.MaxLength <= 0 {
		return Config{}, ErrInvalidMaxLength
	}
	if cfg.DefaultLength <= 0 || cfg.DefaultLength > cfg.MaxLength {
		return Config{}, ErrInvalidDefaultLength
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		slog.Warn("invalid integer in environment, using default", "key", key, "value", v, "default", fallback)
		return fallback
	}
	return n
}

func getEnvFloat(key string, fallback float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		slog.Warn("invalid number in environment, using default", "key", key, "value", v, "default", fallback)
		return fallback
	}
	return f
}

func getEnvBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		slog.Warn("invalid boolean in environment, using default", "key", key, "value", v, "default", fallback)
		return fallback
	}
	return b
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		slog.Warn("invalid duration in environment, using default", "key", key, "value", v, "default", fallback)
		return fallback
	}
	return d
}
