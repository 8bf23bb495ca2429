package config

import (
	"fmt"
	"os"
	"strconv"
)

const (
	BackendMemory   = "memory"
	BackendPostgres = "postgres"
)

// Config centralizes environment-driven settings for the service
type Config struct {
	Env             string // "local", "dev", "prod"
	ServerPort      string
	StorageBackend  string // BackendMemory or BackendPostgres
	JWTSecret       string
	JWTExpHours     int64
	AuthProviderURL string // external token verification service; empty disables it
}

// Load reads configuration from environment variables. The JWT signing
// secret has no fallback: the process must not start without one.
func Load() (*Config, error) {
	secret := os.Getenv("JWT_SECRET_KEY")
	if secret == "" {
		return nil, fmt.Errorf("JWT_SECRET_KEY not set in environment")
	}

	expHours := int64(24)
	if v := os.Getenv("JWT_EXPIRATION_HOURS"); v != "" {
		parsed, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid JWT_EXPIRATION_HOURS %q: %w", v, err)
		}
		expHours = parsed
	}

	backend := getEnv("STORAGE_BACKEND", BackendPostgres)
	if backend != BackendMemory && backend != BackendPostgres {
		return nil, fmt.Errorf("unknown STORAGE_BACKEND %q", backend)
	}

	return &Config{
		Env:             getEnv("ENV", "local"),
		ServerPort:      getEnv("SERVER_PORT", "8080"),
		StorageBackend:  backend,
		JWTSecret:       secret,
		JWTExpHours:     expHours,
		AuthProviderURL: os.Getenv("AUTH_PROVIDER_URL"),
	}, nil
}

// getEnv returns the environment value or a default
func getEnv(key, def string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return def
}
