package browser

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/playwright-community/playwright-go"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/uicontrols/pkg/models"
)

// PlaywrightConfig configures a playwright-driven Chromium
type PlaywrightConfig struct {
	Headless    bool   `toml:"headless"`
	DownloadDir string `toml:"download_dir"`
	TimeoutMs   int    `toml:"timeout_ms"`
}

// DefaultPlaywrightConfig returns a headless configuration
func DefaultPlaywrightConfig() PlaywrightConfig {
	return PlaywrightConfig{
		Headless:  true,
		TimeoutMs: 30000,
	}
}

// PlaywrightPage drives one playwright page
type PlaywrightPage struct {
	pw      *playwright.Playwright
	browser playwright.Browser
	page    playwright.Page
	logger  arbor.ILogger
	tracker *RequestTracker

	mu     sync.Mutex
	closed bool
}

// NewPlaywrightPage starts playwright, launches Chromium and opens a page
func NewPlaywrightPage(config PlaywrightConfig, logger arbor.ILogger) (*PlaywrightPage, error) {
	pw, err := playwright.Run()
	if err != nil {
		return nil, fmt.Errorf("failed to start playwright: %w", err)
	}

	browser, err := pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(config.Headless),
	})
	if err != nil {
		_ = pw.Stop()
		return nil, fmt.Errorf("failed to launch chromium: %w", err)
	}

	bctx, err := browser.NewContext(playwright.BrowserNewContextOptions{
		AcceptDownloads: playwright.Bool(true),
	})
	if err != nil {
		_ = browser.Close()
		_ = pw.Stop()
		return nil, fmt.Errorf("failed to create browser context: %w", err)
	}

	page, err := bctx.NewPage()
	if err != nil {
		_ = browser.Close()
		_ = pw.Stop()
		return nil, fmt.Errorf("failed to create page: %w", err)
	}
	if config.TimeoutMs > 0 {
		page.SetDefaultTimeout(float64(config.TimeoutMs))
	}

	p := &PlaywrightPage{
		pw:      pw,
		browser: browser,
		page:    page,
		logger:  logger,
		tracker: NewRequestTracker(0),
	}

	page.OnResponse(func(resp playwright.Response) {
		p.tracker.AddResponse("", resp.Request().Method(), resp.URL(), resp.Status(), time.Now())
	})

	if config.DownloadDir != "" {
		dir := config.DownloadDir
		page.OnDownload(func(d playwright.Download) {
			target := filepath.Join(dir, d.SuggestedFilename())
			if err := d.SaveAs(target); err != nil {
				logger.Warn().Err(err).Str("file", target).Msg("Failed to save download")
				return
			}
			logger.Debug().Str("file", target).Msg("Download saved")
		})
	}

	logger.Info().Bool("headless", config.Headless).Str("download_dir", config.DownloadDir).Msg("Playwright page ready")
	return p, nil
}

// timeoutFrom converts the caller's deadline into a playwright timeout
func timeoutFrom(ctx context.Context) *float64 {
	if deadline, ok := ctx.Deadline(); ok {
		ms := float64(time.Until(deadline).Milliseconds())
		if ms < 1 {
			ms = 1
		}
		return playwright.Float(ms)
	}
	return nil
}

func (p *PlaywrightPage) evalString(ctx context.Context, expr string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	res, err := p.page.Evaluate(expr)
	if err != nil {
		return "", err
	}
	s, ok := res.(string)
	if !ok {
		return "", fmt.Errorf("unexpected evaluate result %T", res)
	}
	return s, nil
}

func (p *PlaywrightPage) target(ctx context.Context, loc models.Locator) (playwright.Locator, error) {
	sel, err := markTarget(ctx, p, loc)
	if err != nil {
		return nil, err
	}
	return p.page.Locator(sel), nil
}

func (p *PlaywrightPage) Query(ctx context.Context, loc models.Locator) ([]models.ElementState, error) {
	return queryNodes(ctx, p, loc)
}

func (p *PlaywrightPage) Click(ctx context.Context, loc models.Locator, opts models.ClickOptions) error {
	l, err := p.target(ctx, loc)
	if err != nil {
		return err
	}
	if err := l.Click(playwright.LocatorClickOptions{
		Force:   playwright.Bool(opts.Force),
		Timeout: timeoutFrom(ctx),
	}); err != nil {
		return fmt.Errorf("failed to click %s: %w", loc, err)
	}
	return nil
}

func (p *PlaywrightPage) Hover(ctx context.Context, loc models.Locator, leave bool) error {
	return scriptAction(ctx, p, "hover", loc, leave)
}

func (p *PlaywrightPage) Type(ctx context.Context, loc models.Locator, text string) error {
	l, err := p.target(ctx, loc)
	if err != nil {
		return err
	}
	if err := l.PressSequentially(text); err != nil {
		return fmt.Errorf("failed to type into %s: %w", loc, err)
	}
	return nil
}

func (p *PlaywrightPage) Press(ctx context.Context, loc models.Locator, key models.Key) error {
	l, err := p.target(ctx, loc)
	if err != nil {
		return err
	}
	if err := l.Press(string(key)); err != nil {
		return fmt.Errorf("failed to press %s on %s: %w", key, loc, err)
	}
	return nil
}

func (p *PlaywrightPage) Clear(ctx context.Context, loc models.Locator) error {
	return scriptAction(ctx, p, "clear", loc, false)
}

func (p *PlaywrightPage) SetChecked(ctx context.Context, loc models.Locator, checked bool) error {
	l, err := p.target(ctx, loc)
	if err != nil {
		return err
	}
	if checked {
		err = l.Check()
	} else {
		err = l.Uncheck()
	}
	if err != nil {
		return fmt.Errorf("failed to set checked=%v on %s: %w", checked, loc, err)
	}
	return nil
}

func (p *PlaywrightPage) SetFiles(ctx context.Context, loc models.Locator, files []models.FilePayload) error {
	l, err := p.target(ctx, loc)
	if err != nil {
		return err
	}
	inputs := make([]playwright.InputFile, 0, len(files))
	for _, f := range files {
		inputs = append(inputs, playwright.InputFile{
			Name:     filepath.Base(f.Name),
			MimeType: f.MimeType,
			Buffer:   f.Content,
		})
	}
	if err := l.SetInputFiles(inputs); err != nil {
		return fmt.Errorf("failed to set files on %s: %w", loc, err)
	}
	return nil
}

func (p *PlaywrightPage) URL(ctx context.Context) (string, error) {
	return p.page.URL(), nil
}

func (p *PlaywrightPage) Navigate(ctx context.Context, url string) error {
	if _, err := p.page.Goto(url, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateDomcontentloaded,
		Timeout:   timeoutFrom(ctx),
	}); err != nil {
		return fmt.Errorf("failed to navigate to %s: %w", url, err)
	}
	return nil
}

func (p *PlaywrightPage) HTML(ctx context.Context) (string, error) {
	html, err := p.page.Content()
	if err != nil {
		return "", fmt.Errorf("failed to read page html: %w", err)
	}
	return html, nil
}

// Screenshot captures the full page as PNG
func (p *PlaywrightPage) Screenshot(ctx context.Context) ([]byte, error) {
	buf, err := p.page.Screenshot(playwright.PageScreenshotOptions{
		FullPage: playwright.Bool(true),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to capture screenshot: %w", err)
	}
	return buf, nil
}

// Requests returns the responses observed since the page was created
func (p *PlaywrightPage) Requests() []models.RequestRecord {
	return p.tracker.Requests()
}

// Close shuts the browser and the playwright driver
func (p *PlaywrightPage) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return nil
	}
	p.closed = true

	if err := p.browser.Close(); err != nil {
		p.logger.Warn().Err(err).Msg("Failed to close browser")
	}
	return p.pw.Stop()
}
