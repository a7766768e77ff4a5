package ui

import (
	"fmt"
	"os"

	"github.com/ternarybob/uicontrols/internal/common"
)

// TestConfig holds configuration for live UI tests
type TestConfig struct {
	ServerURL    string
	Backend      string
	FixturesDir  string
	DownloadsDir string
	ScenariosDir string
}

// LoadTestConfig loads test configuration from the environment.
// Fails if TEST_SERVER_URL is not set - no fallback values
func LoadTestConfig() (*TestConfig, error) {
	serverURL := os.Getenv("TEST_SERVER_URL")
	if serverURL == "" {
		return nil, fmt.Errorf("TEST_SERVER_URL environment variable is required for UI tests")
	}

	config := &TestConfig{
		ServerURL:    serverURL,
		Backend:      envOr("TEST_BACKEND", common.BackendChrome),
		FixturesDir:  envOr("TEST_FIXTURES_DIR", "fixtures"),
		DownloadsDir: envOr("TEST_DOWNLOADS_DIR", "downloads"),
		ScenariosDir: envOr("TEST_SCENARIOS_DIR", "scenarios"),
	}

	return config, nil
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
