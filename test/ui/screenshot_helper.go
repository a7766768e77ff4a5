package ui

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

var (
	testRunDir     string
	testRunDirOnce sync.Once
)

// getOrCreateTestRunDir returns the test run directory, creating it if necessary.
// All snapshots from a single test run go to the same directory.
func getOrCreateTestRunDir() (string, error) {
	var err error
	testRunDirOnce.Do(func() {
		if envDir := os.Getenv("TEST_RESULTS_DIR"); envDir != "" {
			testRunDir = envDir
			return
		}

		timestamp := time.Now().Format("run-2006-01-02-15-04-05")

		// When running from test/ui: ../results/
		// When running from project root: test/results/
		resultsBase := filepath.Join("..", "results")
		if _, statErr := os.Stat("test"); statErr == nil {
			resultsBase = filepath.Join("test", "results")
		}

		testRunDir = filepath.Join(resultsBase, timestamp)
		err = os.MkdirAll(testRunDir, 0755)
	})

	if err != nil {
		return "", fmt.Errorf("failed to create test run directory: %w", err)
	}

	return testRunDir, nil
}

// testResultsDir is the per-test snapshot directory inside the run directory
func testResultsDir(testName string) (string, error) {
	runDir, err := getOrCreateTestRunDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(runDir, sanitizeName(testName)), nil
}

// sanitizeName converts a name to a safe filename format
func sanitizeName(name string) string {
	name = strings.ReplaceAll(strings.ToLower(name), " ", "_")
	return strings.ReplaceAll(name, "/", "_")
}
