package controls

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/uicontrols/pkg/browser"
	"github.com/ternarybob/uicontrols/pkg/fixtures"
	"github.com/ternarybob/uicontrols/pkg/models"
)

const testTimeoutMs = 300

// testSettings shortens every wait so failing checks give up quickly
func testSettings() models.Settings {
	s := *models.DefaultSettings()
	s.Timeouts = models.TimeoutSettings{
		DefaultMs:        testTimeoutMs,
		WaitForElementMs: testTimeoutMs,
		WaitForButtonMs:  testTimeoutMs,
		ElementWaitMs:    testTimeoutMs,
		HistoryReloadMs:  testTimeoutMs,
		VirusScanMs:      testTimeoutMs,
		DownloadMs:       testTimeoutMs,
		DownloadPollMs:   20,
		ErrorFileMs:      testTimeoutMs,
		ErrorFilePollMs:  20,
		ErrorHeaderMs:    testTimeoutMs,
		FileWithFileMs:   testTimeoutMs,
	}
	s.Settle = models.SettleSettings{}
	s.PollMs = 10
	return s
}

type harness struct {
	page *browser.DocumentPage
	ctl  *Controls
	fs   afero.Fs
}

// newHarness accepts *rapid.T as well as *testing.T
func newHarness(t require.TestingT, html string, opts ...Option) *harness {
	logger := arbor.NewLogger()
	page, err := browser.NewDocumentPage(html, logger)
	require.NoError(t, err)

	fs := afero.NewMemMapFs()
	base := []Option{
		WithSettings(testSettings()),
		WithFs(fs),
		WithFixtures(fixtures.NewStore(fs, "fixtures", logger)),
		WithDownloads(fixtures.NewDownloads(fs, "downloads")),
		WithBaseURL("http://app.test/"),
	}
	return &harness{
		page: page,
		ctl:  New(page, logger, append(base, opts...)...),
		fs:   fs,
	}
}

func writeFile(h *harness, name string, data []byte) error {
	return afero.WriteFile(h.fs, name, data, 0o644)
}

func htmlPage(body string) string {
	return "<html><body>" + body + "</body></html>"
}

type fakeRecorder struct {
	mu    sync.Mutex
	names []string
	err   error
}

func (r *fakeRecorder) Capture(ctx context.Context, page browser.Page, name string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return "", err
	}
	r.names = append(r.names, name)
	return "snap_" + name, r.err
}

func (r *fakeRecorder) captured() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.names...)
}

func TestStep_FailureCapturedOnceByOutermostHelper(t *testing.T) {
	recorder := &fakeRecorder{}
	h := newHarness(t, htmlPage(`<h2 id="confirmationHeading">Delete?</h2>`), WithRecorder(recorder))

	err := h.ctl.ValidateConfirmationMessage(context.Background(), "Cancel Job?", "msg", "Yes", "No")
	require.Error(t, err)

	var ae *AssertionError
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, "ValidateText", ae.Operation, "innermost helper names the failure")
	assert.ErrorIs(t, err, ErrMismatch)
	assert.Equal(t, []string{"ValidateConfirmationMessage"}, recorder.captured())
	assert.Equal(t, "snap_ValidateConfirmationMessage", h.ctl.LastSnapshot())
}

func TestStep_CaptureSurvivesCancelledContext(t *testing.T) {
	recorder := &fakeRecorder{}
	h := newHarness(t, htmlPage(``), WithRecorder(recorder))

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	err := h.ctl.ValidateText(ctx, "missing", "x", true, 5000)
	require.Error(t, err)
	assert.Equal(t, []string{"ValidateText"}, recorder.captured())
}

func TestStep_CaptureErrorDoesNotMaskFailure(t *testing.T) {
	recorder := &fakeRecorder{err: errors.New("disk full")}
	h := newHarness(t, htmlPage(``), WithRecorder(recorder))

	err := h.ctl.ValidateElement(context.Background(), "missing", true)
	require.Error(t, err)
	assert.Equal(t, "NotFound", KindName(err))
	assert.Empty(t, h.ctl.LastSnapshot())
}

func TestStep_SuccessDoesNotCapture(t *testing.T) {
	recorder := &fakeRecorder{}
	h := newHarness(t, htmlPage(`<p id="greeting">Hello</p>`), WithRecorder(recorder))

	require.NoError(t, h.ctl.ValidateText(context.Background(), "greeting", "Hello", true, 0))
	assert.Empty(t, recorder.captured())
}

func TestExpect_NotFoundWithinTimeoutBound(t *testing.T) {
	h := newHarness(t, htmlPage(``))

	start := time.Now()
	err := h.ctl.ValidateElement(context.Background(), "ghost", true)
	elapsed := time.Since(start)

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.GreaterOrEqual(t, elapsed, time.Duration(testTimeoutMs)*time.Millisecond)
	assert.Less(t, elapsed, time.Duration(testTimeoutMs)*time.Millisecond+500*time.Millisecond)

	var ae *AssertionError
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, "#ghost", ae.Target)
	assert.Positive(t, ae.Elapsed)
}

func TestExpect_WaitsForLateElement(t *testing.T) {
	h := newHarness(t, htmlPage(`<div id="root"></div>`))

	go func() {
		time.Sleep(50 * time.Millisecond)
		assert.NoError(t, h.page.SetHTML(htmlPage(`<div id="root"><span id="late">ready</span></div>`)))
	}()
	require.NoError(t, h.ctl.ValidateText(context.Background(), "late", "ready", true, 0))
}

func TestExpect_ElementInFinalIntervalIsFound(t *testing.T) {
	settings := testSettings()
	settings.PollMs = 200
	h := newHarness(t, htmlPage(`<div id="root"></div>`), WithSettings(settings))

	go func() {
		time.Sleep(250 * time.Millisecond)
		assert.NoError(t, h.page.SetHTML(htmlPage(`<div id="root"><span id="late">ready</span></div>`)))
	}()
	require.NoError(t, h.ctl.ValidateElement(context.Background(), "late", true))
}

func TestNew_Defaults(t *testing.T) {
	p, err := browser.NewDocumentPage(htmlPage(``), arbor.NewLogger())
	require.NoError(t, err)

	c := New(p, arbor.NewLogger())
	assert.Equal(t, *models.DefaultSettings(), c.Settings())
	assert.Same(t, p, c.Page())
	assert.NotNil(t, c.fixtures)
	assert.NotNil(t, c.downloads)
	assert.Equal(t, "downloads", c.downloads.Dir())
}
