package browser

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	cdpbrowser "github.com/chromedp/cdproto/browser"
	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"
	"github.com/chromedp/chromedp/kb"
	"github.com/spf13/afero"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/uicontrols/pkg/models"
)

// ChromeConfig configures a chromedp-driven browser
type ChromeConfig struct {
	Headless     bool   `toml:"headless"`
	DisableGPU   bool   `toml:"disable_gpu"`
	NoSandbox    bool   `toml:"no_sandbox"`
	WindowWidth  int    `toml:"window_width"`
	WindowHeight int    `toml:"window_height"`
	UserAgent    string `toml:"user_agent"`
	ExecPath     string `toml:"exec_path"`
	DownloadDir  string `toml:"download_dir"`
}

// DefaultChromeConfig matches the headless 1920x1080 browser the UI suite runs with
func DefaultChromeConfig() ChromeConfig {
	return ChromeConfig{
		Headless:     true,
		DisableGPU:   true,
		WindowWidth:  1920,
		WindowHeight: 1080,
	}
}

// ChromePage drives one chromedp tab
type ChromePage struct {
	ctx     context.Context
	cancels []context.CancelFunc
	logger  arbor.ILogger
	tracker *RequestTracker
	tempFs  afero.Fs

	mu         sync.Mutex
	closed     bool
	uploadDirs []string
}

// NewChromePage launches a browser and opens a tab
func NewChromePage(parent context.Context, config ChromeConfig, logger arbor.ILogger) (*ChromePage, error) {
	startTime := time.Now()

	allocatorOpts := append(
		chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", config.Headless),
		chromedp.Flag("disable-gpu", config.DisableGPU),
	)
	if config.NoSandbox {
		allocatorOpts = append(allocatorOpts, chromedp.NoSandbox)
	}
	if config.WindowWidth > 0 && config.WindowHeight > 0 {
		allocatorOpts = append(allocatorOpts, chromedp.WindowSize(config.WindowWidth, config.WindowHeight))
	}
	if config.UserAgent != "" {
		allocatorOpts = append(allocatorOpts, chromedp.UserAgent(config.UserAgent))
	}
	if config.ExecPath != "" {
		allocatorOpts = append(allocatorOpts, chromedp.ExecPath(config.ExecPath))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(parent, allocatorOpts...)
	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)

	p, err := attachChrome(browserCtx, config.DownloadDir, logger)
	if err != nil {
		cancelBrowser()
		cancelAlloc()
		return nil, err
	}
	p.cancels = append(p.cancels, cancelBrowser, cancelAlloc)

	logger.Info().
		Bool("headless", config.Headless).
		Str("download_dir", config.DownloadDir).
		Dur("startup", time.Since(startTime)).
		Msg("Chrome page ready")

	return p, nil
}

// AttachChromePage wraps an existing chromedp context. The caller keeps ownership of it.
func AttachChromePage(browserCtx context.Context, downloadDir string, logger arbor.ILogger) (*ChromePage, error) {
	return attachChrome(browserCtx, downloadDir, logger)
}

func attachChrome(browserCtx context.Context, downloadDir string, logger arbor.ILogger) (*ChromePage, error) {
	p := &ChromePage{
		ctx:     browserCtx,
		logger:  logger,
		tracker: NewRequestTracker(0),
		tempFs:  afero.NewOsFs(),
	}

	chromedp.ListenTarget(browserCtx, func(ev interface{}) {
		switch e := ev.(type) {
		case *network.EventRequestWillBeSent:
			if e.Request != nil {
				p.tracker.AddRequest(string(e.RequestID), e.Request.Method)
			}
		case *network.EventResponseReceived:
			if e.Response != nil {
				p.tracker.AddResponse(string(e.RequestID), "", e.Response.URL, int(e.Response.Status), time.Now())
			}
		}
	})

	actions := []chromedp.Action{network.Enable()}
	if downloadDir != "" {
		abs, err := filepath.Abs(downloadDir)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve download dir: %w", err)
		}
		actions = append(actions, cdpbrowser.SetDownloadBehavior(cdpbrowser.SetDownloadBehaviorBehaviorAllow).
			WithDownloadPath(abs).
			WithEventsEnabled(true))
	}

	if err := chromedp.Run(browserCtx, actions...); err != nil {
		return nil, fmt.Errorf("failed to start chrome page: %w", err)
	}
	return p, nil
}

// run executes actions on the tab, bounded by the caller's ctx
func (p *ChromePage) run(ctx context.Context, actions ...chromedp.Action) error {
	runCtx, cancel := context.WithCancel(p.ctx)
	defer cancel()
	if deadline, ok := ctx.Deadline(); ok {
		var cancelDeadline context.CancelFunc
		runCtx, cancelDeadline = context.WithDeadline(runCtx, deadline)
		defer cancelDeadline()
	}
	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	return chromedp.Run(runCtx, actions...)
}

func (p *ChromePage) evalString(ctx context.Context, expr string) (string, error) {
	var out string
	if err := p.run(ctx, chromedp.Evaluate(expr, &out)); err != nil {
		return "", err
	}
	return out, nil
}

func (p *ChromePage) Query(ctx context.Context, loc models.Locator) ([]models.ElementState, error) {
	return queryNodes(ctx, p, loc)
}

func (p *ChromePage) Click(ctx context.Context, loc models.Locator, opts models.ClickOptions) error {
	if opts.Force {
		return scriptAction(ctx, p, "click", loc, false)
	}
	sel, err := markTarget(ctx, p, loc)
	if err != nil {
		return err
	}
	if err := p.run(ctx, chromedp.Click(sel, chromedp.ByQuery)); err != nil {
		return fmt.Errorf("failed to click %s: %w", loc, err)
	}
	return nil
}

func (p *ChromePage) Hover(ctx context.Context, loc models.Locator, leave bool) error {
	return scriptAction(ctx, p, "hover", loc, leave)
}

func (p *ChromePage) Type(ctx context.Context, loc models.Locator, text string) error {
	sel, err := markTarget(ctx, p, loc)
	if err != nil {
		return err
	}
	if err := p.run(ctx, chromedp.SendKeys(sel, text, chromedp.ByQuery)); err != nil {
		return fmt.Errorf("failed to type into %s: %w", loc, err)
	}
	return nil
}

func (p *ChromePage) Press(ctx context.Context, loc models.Locator, key models.Key) error {
	var seq string
	switch key {
	case models.KeyEnter:
		seq = kb.Enter
	case models.KeyEscape:
		seq = kb.Escape
	default:
		return fmt.Errorf("unsupported key %q", key)
	}
	return p.Type(ctx, loc, seq)
}

func (p *ChromePage) Clear(ctx context.Context, loc models.Locator) error {
	return scriptAction(ctx, p, "clear", loc, false)
}

func (p *ChromePage) SetChecked(ctx context.Context, loc models.Locator, checked bool) error {
	states, err := p.Query(ctx, loc)
	if err != nil {
		return err
	}
	if len(states) == 0 {
		return fmt.Errorf("%s: %w", loc, ErrNoMatch)
	}
	if states[0].Checked == checked {
		return nil
	}
	return p.Click(ctx, loc, models.ClickOptions{})
}

// SetFiles stages files on disk for the file input. Chrome reads them when the form is
// submitted, so the staging directories live until Close.
func (p *ChromePage) SetFiles(ctx context.Context, loc models.Locator, files []models.FilePayload) error {
	dir, paths, err := p.stageUploads(files)
	if err != nil {
		return err
	}

	sel, err := markTarget(ctx, p, loc)
	if err != nil {
		return err
	}
	if err := p.run(ctx, chromedp.SetUploadFiles(sel, paths, chromedp.ByQuery)); err != nil {
		return fmt.Errorf("failed to set files on %s: %w", loc, err)
	}

	p.logger.Debug().Str("dir", dir).Int("files", len(paths)).Msg("Upload files staged")
	return nil
}

// stageUploads writes files into a fresh temp directory registered for removal on Close
func (p *ChromePage) stageUploads(files []models.FilePayload) (string, []string, error) {
	dir, err := afero.TempDir(p.tempFs, "", "uictl-upload-")
	if err != nil {
		return "", nil, fmt.Errorf("failed to create upload dir: %w", err)
	}

	paths := make([]string, 0, len(files))
	for _, f := range files {
		path := filepath.Join(dir, filepath.Base(f.Name))
		if err := afero.WriteFile(p.tempFs, path, f.Content, 0644); err != nil {
			if rmErr := p.tempFs.RemoveAll(dir); rmErr != nil {
				p.logger.Warn().Err(rmErr).Str("dir", dir).Msg("Failed to remove upload dir")
			}
			return "", nil, fmt.Errorf("failed to stage upload %s: %w", f.Name, err)
		}
		paths = append(paths, path)
	}

	p.mu.Lock()
	p.uploadDirs = append(p.uploadDirs, dir)
	p.mu.Unlock()
	return dir, paths, nil
}

func (p *ChromePage) URL(ctx context.Context) (string, error) {
	var url string
	if err := p.run(ctx, chromedp.Location(&url)); err != nil {
		return "", fmt.Errorf("failed to read location: %w", err)
	}
	return url, nil
}

func (p *ChromePage) Navigate(ctx context.Context, url string) error {
	if err := p.run(ctx, chromedp.Navigate(url)); err != nil {
		return fmt.Errorf("failed to navigate to %s: %w", url, err)
	}
	return nil
}

func (p *ChromePage) HTML(ctx context.Context) (string, error) {
	var html string
	if err := p.run(ctx, chromedp.OuterHTML("html", &html, chromedp.ByQuery)); err != nil {
		return "", fmt.Errorf("failed to read page html: %w", err)
	}
	return html, nil
}

// Screenshot captures the full page as PNG
func (p *ChromePage) Screenshot(ctx context.Context) ([]byte, error) {
	var buf []byte
	if err := p.run(ctx, chromedp.FullScreenshot(&buf, 100)); err != nil {
		return nil, fmt.Errorf("failed to capture screenshot: %w", err)
	}
	return buf, nil
}

// Requests returns the responses observed since the page was created
func (p *ChromePage) Requests() []models.RequestRecord {
	return p.tracker.Requests()
}

// Close shuts the tab and, when this page launched it, the browser
func (p *ChromePage) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return nil
	}
	p.closed = true

	for _, cancel := range p.cancels {
		cancel()
	}

	var firstErr error
	for _, dir := range p.uploadDirs {
		if err := p.tempFs.RemoveAll(dir); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("failed to remove upload dir %s: %w", dir, err)
		}
	}
	p.uploadDirs = nil
	return firstErr
}
