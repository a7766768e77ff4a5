// uitest_context.go - Shared live UI test context.
// NOTE: This is NOT a test file - it contains shared test infrastructure.

package ui

import (
	"context"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/uicontrols/internal/common"
	"github.com/ternarybob/uicontrols/internal/report"
	"github.com/ternarybob/uicontrols/pkg/browser"
	"github.com/ternarybob/uicontrols/pkg/controls"
	"github.com/ternarybob/uicontrols/pkg/fixtures"
)

// MaxUITestTimeout bounds a single live UI test
const MaxUITestTimeout = 5 * time.Minute

// UITestContext holds shared state for live UI tests
type UITestContext struct {
	T        *testing.T
	Ctx      context.Context
	Config   *TestConfig
	Page     browser.Page
	Controls *controls.Controls
	Report   *report.Writer
	Logger   arbor.ILogger

	// Internal cleanup functions
	cleanup []func()
}

// NewUITestContext opens a browser against TEST_SERVER_URL. The test is skipped when the
// variable is not set.
func NewUITestContext(t *testing.T, timeout time.Duration) *UITestContext {
	config, err := LoadTestConfig()
	if err != nil {
		t.Skipf("Skipping live UI test: %v", err)
	}

	logger := common.GetLogger()
	ctx, cancelTimeout := context.WithTimeout(context.Background(), timeout)

	utc := &UITestContext{
		T:       t,
		Ctx:     ctx,
		Config:  config,
		Logger:  logger,
		cleanup: []func(){cancelTimeout},
	}

	page, err := utc.openPage()
	if err != nil {
		utc.Cleanup()
		t.Fatalf("Failed to start %s backend: %v", config.Backend, err)
	}
	utc.Page = page
	if closer, ok := page.(browser.Closer); ok {
		utc.cleanup = append(utc.cleanup, func() {
			if err := closer.Close(); err != nil {
				t.Logf("Warning: browser close returned: %v", err)
			}
		})
	}

	osFs := afero.NewOsFs()
	opts := []controls.Option{
		controls.WithBaseURL(config.ServerURL),
		controls.WithFs(osFs),
		controls.WithFixtures(fixtures.NewStore(osFs, config.FixturesDir, logger)),
		controls.WithDownloads(fixtures.NewDownloads(osFs, config.DownloadsDir)),
	}
	if dir, err := testResultsDir(t.Name()); err != nil {
		t.Logf("Warning: failure snapshots disabled: %v", err)
	} else {
		utc.Report = report.NewWriter(osFs, dir, logger)
		opts = append(opts, controls.WithRecorder(utc.Report))
	}
	utc.Controls = controls.New(page, logger, opts...)

	return utc
}

func (utc *UITestContext) openPage() (browser.Page, error) {
	switch utc.Config.Backend {
	case common.BackendPlaywright:
		pwConfig := browser.DefaultPlaywrightConfig()
		pwConfig.DownloadDir = utc.Config.DownloadsDir
		return browser.NewPlaywrightPage(pwConfig, utc.Logger)
	default:
		chromeConfig := browser.DefaultChromeConfig()
		chromeConfig.DownloadDir = utc.Config.DownloadsDir
		return browser.NewChromePage(utc.Ctx, chromeConfig, utc.Logger)
	}
}

// Cleanup releases all resources. Call this with defer.
func (utc *UITestContext) Cleanup() {
	if utc.T.Failed() {
		utc.Log("=== TEST RESULT: FAIL ===")
	} else {
		utc.Log("=== TEST RESULT: PASS ===")
	}

	// Execute cleanup functions in reverse order
	for i := len(utc.cleanup) - 1; i >= 0; i-- {
		utc.cleanup[i]()
	}
}

// Log writes a message to the test log
func (utc *UITestContext) Log(format string, args ...interface{}) {
	utc.T.Logf(format, args...)
}

// Snapshot captures the current page into the test's results directory
func (utc *UITestContext) Snapshot(name string) {
	if utc.Report == nil {
		return
	}
	if _, err := utc.Report.Capture(utc.Ctx, utc.Page, name); err != nil {
		utc.Log("Warning: snapshot %s failed: %v", name, err)
	}
}
