package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("POSTGRES_PASSWORD", "secret")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, CacheBackendMemory, cfg.CacheBackend)
	assert.Equal(t, 15*time.Minute, cfg.CacheTTL)
	assert.Equal(t, 1024, cfg.CacheMaxEntries)
	assert.Contains(t, cfg.DatabaseURL, "postgres://postgres:secret@")
	assert.False(t, cfg.IsProduction())
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://u:p@db:5432/x?sslmode=disable")
	t.Setenv("CACHE_BACKEND", "Postgres")
	t.Setenv("CACHE_TTL_SECONDS", "60")
	t.Setenv("SERVER_ENV", "production")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "postgres://u:p@db:5432/x?sslmode=disable", cfg.DatabaseURL)
	assert.Equal(t, CacheBackendPostgres, cfg.CacheBackend)
	assert.Equal(t, time.Minute, cfg.CacheTTL)
	assert.True(t, cfg.IsProduction())
}

func TestLoad_Invalid(t *testing.T) {
	t.Run("backend", func(t *testing.T) {
		t.Setenv("CACHE_BACKEND", "redis")
		_, err := Load()
		assert.ErrorContains(t, err, "CACHE_BACKEND")
	})
	t.Run("ttl", func(t *testing.T) {
		t.Setenv("CACHE_TTL_SECONDS", "0")
		_, err := Load()
		assert.ErrorContains(t, err, "CACHE_TTL_SECONDS")
	})
	t.Run("malformed ttl", func(t *testing.T) {
		t.Setenv("CACHE_TTL_SECONDS", "15m")
		_, err := Load()
		assert.ErrorContains(t, err, `CACHE_TTL_SECONDS must be an integer, got "15m"`)
	})
	t.Run("malformed max entries", func(t *testing.T) {
		t.Setenv("CACHE_MAX_ENTRIES", "abc")
		_, err := Load()
		assert.ErrorContains(t, err, "CACHE_MAX_ENTRIES")
	})
}
