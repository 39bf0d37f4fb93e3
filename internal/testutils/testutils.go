package testutils

import (
	"time"

	"hashes-market-client/internal/config"
	"hashes-market-client/internal/logger"
)

// MockLogger creates a quiet logger for testing
func MockLogger() *logger.Logger {
	return logger.New("error")
}

// MockConfig creates a configuration pointed at a mock marketplace. Both the
// JSON API and the file host live on the same test server; production keeps
// them on distinct hosts.
func MockConfig(apiBaseURL, downloadBaseURL string) *config.Config {
	return &config.Config{
		LogLevel: "error",

		APIBaseURL:      apiBaseURL,
		DownloadBaseURL: downloadBaseURL,
		APIKey:          "test-api-key",

		RequestTimeout:     5 * time.Second,
		ConversionCacheTTL: 60 * time.Second,

		DownloadDelay:     time.Millisecond,
		DownloadChunkSize: 8192,

		AlgorithmsFile: "algorithms.json",
	}
}

// MockConfigForServer creates a configuration pointed at a MockMarketServer
func MockConfigForServer(server *MockMarketServer) *config.Config {
	return MockConfig(server.APIBaseURL(), server.URL())
}
