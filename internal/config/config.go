package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the client
type Config struct {
	LogLevel string

	// Marketplace endpoints. Left-list files are served from a separate
	// host with a different scheme than the JSON API; the two must not be
	// unified.
	APIBaseURL      string
	DownloadBaseURL string

	// API key used for authenticated calls; empty means unauthenticated.
	APIKey string

	RequestTimeout     time.Duration
	ConversionCacheTTL time.Duration

	// Pacing between left-list downloads to respect the remote service's
	// informal rate limit.
	DownloadDelay     time.Duration
	DownloadChunkSize int

	// Local path of the synced algorithm directory.
	AlgorithmsFile string
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	return &Config{
		LogLevel: getEnv("LOG_LEVEL", "info"),

		APIBaseURL:      getEnv("HASHES_API_BASE_URL", "https://hashes.com/en/api"),
		DownloadBaseURL: getEnv("HASHES_DOWNLOAD_BASE_URL", "http://hashes.com"),
		APIKey:          getEnv("HASHES_API_KEY", ""),

		RequestTimeout:     time.Duration(mustAtoi(getEnv("REQUEST_TIMEOUT_SECONDS", "20"))) * time.Second,
		ConversionCacheTTL: time.Duration(mustAtoi(getEnv("CONVERSION_CACHE_TTL_SECONDS", "60"))) * time.Second,

		DownloadDelay:     time.Duration(mustAtoi(getEnv("DOWNLOAD_DELAY_MILLIS", "400"))) * time.Millisecond,
		DownloadChunkSize: mustAtoi(getEnv("DOWNLOAD_CHUNK_SIZE", "8192")),

		AlgorithmsFile: getEnv("ALGORITHMS_FILE", "algorithms.json"),
	}, nil
}

// getEnv gets an environment variable with a fallback value
func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func mustAtoi(s string) int {
	i, err := strconv.Atoi(s)
	if err != nil {
		return 60
	}
	return i
}
