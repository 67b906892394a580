package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	CacheBackendMemory   = "memory"
	CacheBackendPostgres = "postgres"
)

type Config struct {
	// Server
	ServerAddr string
	ServerEnv  string

	// Database
	DatabaseURL string

	// Cache
	CacheBackend    string
	CacheTTL        time.Duration
	CacheMaxEntries int

	// Approval rules; empty means the embedded defaults.
	ApprovalRulesPath string

	LogLevel string
}

// Load reads .env when present and then the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	ttlSeconds, err := getEnvAsInt("CACHE_TTL_SECONDS", 900)
	if err != nil {
		return nil, err
	}
	maxEntries, err := getEnvAsInt("CACHE_MAX_ENTRIES", 1024)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		ServerAddr:        getEnv("SERVER_ADDR", "0.0.0.0:8080"),
		ServerEnv:         getEnv("SERVER_ENV", "development"),
		DatabaseURL:       getDatabaseURL(),
		CacheBackend:      strings.ToLower(getEnv("CACHE_BACKEND", CacheBackendMemory)),
		CacheTTL:          time.Duration(ttlSeconds) * time.Second,
		CacheMaxEntries:   maxEntries,
		ApprovalRulesPath: getEnv("APPROVAL_RULES_PATH", ""),
		LogLevel:          getEnv("LOG_LEVEL", "info"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	switch c.CacheBackend {
	case CacheBackendMemory, CacheBackendPostgres:
	default:
		return fmt.Errorf("config: unknown CACHE_BACKEND %q", c.CacheBackend)
	}
	if c.CacheTTL <= 0 {
		return fmt.Errorf("config: CACHE_TTL_SECONDS must be positive")
	}
	if c.CacheMaxEntries <= 0 {
		return fmt.Errorf("config: CACHE_MAX_ENTRIES must be positive")
	}
	return nil
}

func (c *Config) IsProduction() bool {
	return c.ServerEnv == "production"
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) (int, error) {
	value, exists := os.LookupEnv(key)
	if !exists || value == "" {
		return defaultValue, nil
	}
	intValue, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("config: %s must be an integer, got %q", key, value)
	}
	return intValue, nil
}

// getDatabaseURL returns DATABASE_URL or builds it from the POSTGRES_* variables.
func getDatabaseURL() string {
	if url := os.Getenv("DATABASE_URL"); url != "" {
		return url
	}

	host := getEnv("POSTGRES_HOST", "localhost")
	port := getEnv("POSTGRES_PORT", "5432")
	user := getEnv("POSTGRES_USER", "postgres")
	password := getEnv("POSTGRES_PASSWORD", "")
	dbname := getEnv("POSTGRES_DB", "swingmap")
	sslmode := getEnv("POSTGRES_SSLMODE", "disable")

	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		user, password, host, port, dbname, sslmode)
}
