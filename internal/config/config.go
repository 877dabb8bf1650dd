// Package config loads service configuration from the environment once at
// process start.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds everything both services read from the environment.
type Config struct {
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int

	// CatalogURL is the base URL the payment service uses to reach the
	// product catalog.
	CatalogURL     string
	CatalogTimeout time.Duration

	CatalogPort string
	PaymentPort string

	LogLevel string

	// CompletionDelay simulates payment settlement latency before an order
	// is transitioned out of pending.
	CompletionDelay   time.Duration
	CompletionWorkers int
}

// Load reads configuration from environment variables, falling back to
// development defaults.
func Load() Config {
	return Config{
		RedisHost:         getEnv("REDIS_HOST", "localhost"),
		RedisPort:         getEnv("REDIS_PORT", "6379"),
		RedisPassword:     getEnv("REDIS_PASSWORD", ""),
		RedisDB:           getEnvInt("REDIS_DB", 0),
		CatalogURL:        getEnv("CATALOG_URL", "http://localhost:8000"),
		CatalogTimeout:    getEnvDuration("CATALOG_TIMEOUT", 10*time.Second),
		CatalogPort:       getEnv("CATALOG_PORT", "8000"),
		PaymentPort:       getEnv("PAYMENT_PORT", "8001"),
		LogLevel:          getEnv("LOG_LEVEL", "info"),
		CompletionDelay:   getEnvDuration("COMPLETION_DELAY", 5*time.Second),
		CompletionWorkers: getEnvInt("COMPLETION_WORKERS", 4),
	}
}

// RedisAddr returns the host:port address for the key-value store.
func (c Config) RedisAddr() string {
	return fmt.Sprintf("%s:%s", c.RedisHost, c.RedisPort)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
