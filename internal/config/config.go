package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration.
// Values are loaded from environment variables with sensible defaults.
type Config struct {
	// Server
	Port     int
	LogLevel string

	// External sources
	TransactionsAPIURL string
	AccountsAPIURL     string
	UsersAPIURL        string

	// HTTP client
	HTTPTimeout time.Duration

	// Resilience
	MaxRetries     int
	InitialBackoff time.Duration
	MaxConcurrency int

	// Snapshot cache
	CacheTTL time.Duration

	// Aggregation
	DashboardWindowDays int
	RankingLimit        int
	AggregationWorkers  int

	// Observability
	OTLPEndpoint string
}

// Load reads configuration from environment variables with defaults.
func Load() *Config {
	return &Config{
		Port:     getEnvInt("PORT", 8080),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		TransactionsAPIURL: getEnv("TRANSACTIONS_API_URL", "http://localhost:8081"),
		AccountsAPIURL:     getEnv("ACCOUNTS_API_URL", "http://localhost:8082"),
		UsersAPIURL:        getEnv("USERS_API_URL", "http://localhost:8083"),

		HTTPTimeout: getEnvDuration("HTTP_TIMEOUT", 10*time.Second),

		MaxRetries:     getEnvInt("MAX_RETRIES", 3),
		InitialBackoff: getEnvDuration("INITIAL_BACKOFF", 100*time.Millisecond),
		MaxConcurrency: getEnvInt("MAX_CONCURRENCY", 10),

		CacheTTL: getEnvDuration("CACHE_TTL", 30*time.Second),

		DashboardWindowDays: getEnvInt("DASHBOARD_WINDOW_DAYS", 7),
		RankingLimit:        getEnvInt("RANKING_LIMIT", 5),
		AggregationWorkers:  getEnvInt("AGGREGATION_WORKERS", 4),

		OTLPEndpoint: getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317"),
	}
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
