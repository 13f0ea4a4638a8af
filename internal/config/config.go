package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
)

const (
	StorageDriverPostgres = "postgres"
	StorageDriverMemory   = "memory"
)

type Config struct {
	ServerPort              string
	ServerReadHeaderTimeout time.Duration
	ServerWriteTimeout      time.Duration
	ServerIdleTimeout       time.Duration
	RequestTimeout          time.Duration
	StorageDriver           string
	DatabaseURL             string
	DBMaxConns              int32
	DBMinConns              int32
	SessionSecret           string
	SessionTTL              time.Duration
	SessionCookieName       string
	CookieSecure            bool
	BcryptCost              int
	HashConcurrency         int
	CORSOrigins             []string
	DefaultProfileImage     string
	PostMaxLength           int
	LogLevel                string
	LogFormat               string
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		ServerPort:              getEnv("SERVER_PORT", "3000"),
		ServerReadHeaderTimeout: getDuration("SERVER_READ_HEADER_TIMEOUT", 10*time.Second),
		ServerWriteTimeout:      getDuration("SERVER_WRITE_TIMEOUT", 30*time.Second),
		ServerIdleTimeout:       getDuration("SERVER_IDLE_TIMEOUT", 120*time.Second),
		RequestTimeout:          getDuration("REQUEST_TIMEOUT", 15*time.Second),
		StorageDriver:           strings.ToLower(getEnv("STORAGE_DRIVER", StorageDriverPostgres)),
		DatabaseURL:             strings.TrimSpace(os.Getenv("DATABASE_URL")),
		DBMaxConns:              int32(getInt("DB_MAX_CONNS", 10)),
		DBMinConns:              int32(getInt("DB_MIN_CONNS", 1)),
		SessionSecret:           strings.TrimSpace(os.Getenv("SESSION_SECRET")),
		SessionTTL:              getDuration("SESSION_TTL", 24*time.Hour),
		SessionCookieName:       getEnv("SESSION_COOKIE_NAME", "token"),
		CookieSecure:            getBool("COOKIE_SECURE", false),
		BcryptCost:              getInt("BCRYPT_COST", 10),
		HashConcurrency:         getInt("HASH_CONCURRENCY", 0),
		CORSOrigins:             splitCSV(os.Getenv("CORS_ORIGINS")),
		DefaultProfileImage:     getEnv("DEFAULT_PROFILE_IMAGE", "/static/default-avatar.png"),
		PostMaxLength:           getInt("POST_MAX_LENGTH", 1000),
		LogLevel:                strings.ToLower(getEnv("LOG_LEVEL", "info")),
		LogFormat:               strings.ToLower(getEnv("LOG_FORMAT", "pretty")),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate rejects configurations the server must not start with. A missing
// session secret is always fatal; there is no built-in fallback secret.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.SessionSecret) == "" {
		return fmt.Errorf("SESSION_SECRET is required")
	}

	if c.ServerPort == "" {
		return fmt.Errorf("SERVER_PORT cannot be empty")
	}

	if c.SessionTTL < 0 {
		return fmt.Errorf("SESSION_TTL must not be negative")
	}

	if strings.TrimSpace(c.SessionCookieName) == "" {
		return fmt.Errorf("SESSION_COOKIE_NAME cannot be empty")
	}

	if c.BcryptCost < bcrypt.MinCost || c.BcryptCost > bcrypt.MaxCost {
		return fmt.Errorf("BCRYPT_COST must be between %d and %d", bcrypt.MinCost, bcrypt.MaxCost)
	}

	if c.RequestTimeout <= 0 {
		return fmt.Errorf("REQUEST_TIMEOUT must be positive")
	}

	if c.PostMaxLength <= 0 {
		return fmt.Errorf("POST_MAX_LENGTH must be positive")
	}

	switch c.StorageDriver {
	case StorageDriverPostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required for the postgres storage driver")
		}
		if c.DBMaxConns <= 0 || c.DBMinConns < 0 || c.DBMinConns > c.DBMaxConns {
			return fmt.Errorf("DB_MIN_CONNS/DB_MAX_CONNS are inconsistent")
		}
	case StorageDriverMemory:
	default:
		return fmt.Errorf("unknown STORAGE_DRIVER %q", c.StorageDriver)
	}

	switch c.LogFormat {
	case "pretty", "json":
	default:
		return fmt.Errorf("LOG_FORMAT must be pretty or json")
	}

	return nil
}

func getEnv(key string, fallback string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}

	return v
}

func getInt(key string, fallback int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}

	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}

	return v
}

func getBool(key string, fallback bool) bool {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}

	v, err := strconv.ParseBool(raw)
	if err != nil {
		return fallback
	}

	return v
}

func getDuration(key string, fallback time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}

	v, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}

	return v
}

func splitCSV(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed == "" {
			continue
		}
		out = append(out, trimmed)
	}

	return out
}
