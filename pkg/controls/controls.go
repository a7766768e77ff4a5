// Package controls is the UI assertion DSL: each helper locates a widget on the current page,
// checks its rendered state within a bounded wait, and optionally interacts with it.
package controls

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/spf13/afero"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/uicontrols/internal/httpclient"
	"github.com/ternarybob/uicontrols/internal/poll"
	"github.com/ternarybob/uicontrols/pkg/browser"
	"github.com/ternarybob/uicontrols/pkg/fixtures"
	"github.com/ternarybob/uicontrols/pkg/models"
)

// Recorder captures the page state when a helper fails
type Recorder interface {
	Capture(ctx context.Context, page browser.Page, name string) (string, error)
}

// Controls runs helpers against one page. Calls are sequential; a Controls is not shared
// between goroutines running helpers.
type Controls struct {
	page      browser.Page
	settings  models.Settings
	logger    arbor.ILogger
	fs        afero.Fs
	fixtures  *fixtures.Store
	downloads *fixtures.Downloads
	uploader  *httpclient.Uploader
	recorder  Recorder
	baseURL   string

	mu           sync.Mutex
	depth        int
	requests     map[string]models.RequestRecord
	lastSnapshot string
}

// Option configures a Controls
type Option func(*Controls)

// WithSettings replaces the default settings
func WithSettings(settings models.Settings) Option {
	return func(c *Controls) {
		c.settings = settings
	}
}

// WithBaseURL sets the address application paths are resolved against
func WithBaseURL(baseURL string) Option {
	return func(c *Controls) {
		c.baseURL = baseURL
	}
}

// WithFs sets the file system used for fixtures, downloads and file comparison
func WithFs(fs afero.Fs) Option {
	return func(c *Controls) {
		c.fs = fs
	}
}

// WithFixtures sets the fixture store
func WithFixtures(store *fixtures.Store) Option {
	return func(c *Controls) {
		c.fixtures = store
	}
}

// WithDownloads sets the download directory view
func WithDownloads(downloads *fixtures.Downloads) Option {
	return func(c *Controls) {
		c.downloads = downloads
	}
}

// WithUploader sets the client used by UploadFileRequest
func WithUploader(uploader *httpclient.Uploader) Option {
	return func(c *Controls) {
		c.uploader = uploader
	}
}

// WithRecorder captures a snapshot whenever a top-level helper fails
func WithRecorder(recorder Recorder) Option {
	return func(c *Controls) {
		c.recorder = recorder
	}
}

// New creates the helpers for page. Unset collaborators default to the OS file system
// rooted at ./fixtures and ./downloads.
func New(page browser.Page, logger arbor.ILogger, opts ...Option) *Controls {
	c := &Controls{
		page:     page,
		settings: *models.DefaultSettings(),
		logger:   logger,
		requests: make(map[string]models.RequestRecord),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.fs == nil {
		c.fs = afero.NewOsFs()
	}
	if c.fixtures == nil {
		c.fixtures = fixtures.NewStore(c.fs, "fixtures", logger)
	}
	if c.downloads == nil {
		c.downloads = fixtures.NewDownloads(c.fs, "downloads")
	}
	if c.uploader == nil {
		c.uploader = httpclient.NewUploader(nil, models.Millis(c.settings.Upload.TimeoutMs), logger)
	}
	return c
}

// Page returns the page the helpers act on
func (c *Controls) Page() browser.Page {
	return c.page
}

// Settings returns the active settings
func (c *Controls) Settings() models.Settings {
	return c.settings
}

// LastSnapshot returns the base name of the most recent failure snapshot
func (c *Controls) LastSnapshot() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastSnapshot
}

// step runs fn as the named helper. Nested helpers log at debug level and leave failure
// reporting to the outermost one.
func (c *Controls) step(ctx context.Context, op, detail string, fn func() error) error {
	c.mu.Lock()
	c.depth++
	outer := c.depth == 1
	c.mu.Unlock()
	defer func() {
		c.mu.Lock()
		c.depth--
		c.mu.Unlock()
	}()

	if outer {
		c.logger.Info().Str("op", op).Str("args", detail).Msg("Running helper")
	} else {
		c.logger.Debug().Str("op", op).Str("args", detail).Msg("Running nested helper")
	}

	start := time.Now()
	err := fn()
	if err == nil {
		return nil
	}

	var ae *AssertionError
	if errors.As(err, &ae) && ae.Operation == "" {
		ae.Operation = op
	}

	if outer {
		c.logger.Error().
			Err(err).
			Str("op", op).
			Str("kind", KindName(err)).
			Dur("elapsed", time.Since(start)).
			Msg("Helper failed")
		c.capture(ctx, op)
	}
	return err
}

func (c *Controls) capture(ctx context.Context, op string) {
	if c.recorder == nil {
		return
	}
	// the helper's context may already be done; the snapshot still gets a bounded window
	captureCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 15*time.Second)
	defer cancel()

	base, err := c.recorder.Capture(captureCtx, c.page, op)
	if err != nil {
		c.logger.Warn().Err(err).Str("op", op).Msg("Failed to capture failure snapshot")
		return
	}
	c.mu.Lock()
	c.lastSnapshot = base
	c.mu.Unlock()
}

func (c *Controls) timeout(ms, def int) time.Duration {
	return models.Millis(models.OrDefault(ms, def))
}

func (c *Controls) interval() time.Duration {
	return models.Millis(c.settings.PollMs)
}

// settle waits a configured fixed time for the backend to catch up
func (c *Controls) settle(ctx context.Context, name string, ms int) error {
	if ms <= 0 {
		return nil
	}
	c.logger.Debug().Str("settle", name).Int("ms", ms).Msg("Settling")
	return poll.Sleep(ctx, models.Millis(ms))
}

// Wait pauses for ms milliseconds
func (c *Controls) Wait(ctx context.Context, ms int) error {
	return poll.Sleep(ctx, models.Millis(ms))
}
