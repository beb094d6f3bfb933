package config

import (
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// Config holds all application configuration.
// Values are loaded from environment variables with sensible defaults.
type Config struct {
	// Backend
	APIBaseURL string
	LogLevel   string

	// HTTP client
	HTTPTimeout time.Duration

	// Resilience
	MaxRetries     int
	InitialBackoff time.Duration
	MaxConcurrency int

	// Local state and caching
	StateDir string
	CacheTTL time.Duration

	// Polling
	PollInterval time.Duration

	// Observability
	MetricsAddr  string // empty disables the debug listener
	OTLPEndpoint string // empty disables trace export
}

// Load reads configuration from environment variables with defaults.
func Load() *Config {
	return &Config{
		APIBaseURL: getEnv("ASCEND_API_URL", "http://localhost:8000"),
		LogLevel:   getEnv("LOG_LEVEL", "info"),

		HTTPTimeout: getEnvDuration("HTTP_TIMEOUT", 10*time.Second),

		MaxRetries:     getEnvInt("MAX_RETRIES", 3),
		InitialBackoff: getEnvDuration("INITIAL_BACKOFF", 100*time.Millisecond),
		MaxConcurrency: getEnvInt("MAX_CONCURRENCY", 8),

		StateDir: getEnv("ASCEND_STATE_DIR", defaultStateDir()),
		CacheTTL: getEnvDuration("CACHE_TTL", 5*time.Minute),

		PollInterval: getEnvDuration("POLL_INTERVAL", 3*time.Second),

		MetricsAddr:  getEnv("METRICS_ADDR", ""),
		OTLPEndpoint: getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
	}
}

func defaultStateDir() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "ascend")
	}
	return ".ascend"
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
