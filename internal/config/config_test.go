package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, "localhost:6379", cfg.RedisAddr())
	assert.Equal(t, "http://localhost:8000", cfg.CatalogURL)
	assert.Equal(t, 10*time.Second, cfg.CatalogTimeout)
	assert.Equal(t, 5*time.Second, cfg.CompletionDelay)
	assert.Equal(t, 4, cfg.CompletionWorkers)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("REDIS_HOST", "redis.internal")
	t.Setenv("REDIS_PORT", "6380")
	t.Setenv("REDIS_DB", "2")
	t.Setenv("COMPLETION_DELAY", "250ms")
	t.Setenv("COMPLETION_WORKERS", "8")

	cfg := Load()

	assert.Equal(t, "redis.internal:6380", cfg.RedisAddr())
	assert.Equal(t, 2, cfg.RedisDB)
	assert.Equal(t, 250*time.Millisecond, cfg.CompletionDelay)
	assert.Equal(t, 8, cfg.CompletionWorkers)
}

func TestLoadIgnoresMalformedValues(t *testing.T) {
	t.Setenv("REDIS_DB", "not-a-number")
	t.Setenv("COMPLETION_DELAY", "soon")

	cfg := Load()

	assert.Equal(t, 0, cfg.RedisDB)
	assert.Equal(t, 5*time.Second, cfg.CompletionDelay)
}
