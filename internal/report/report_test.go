package report

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/uicontrols/pkg/browser"
	"github.com/ternarybob/uicontrols/pkg/models"
)

type screenshotPage struct {
	*browser.DocumentPage
	png []byte
	err error
}

func (p *screenshotPage) Screenshot(ctx context.Context) ([]byte, error) {
	return p.png, p.err
}

func TestWriter_CaptureDocumentPage(t *testing.T) {
	fs := afero.NewMemMapFs()
	writer := NewWriter(fs, "results/run1", arbor.NewLogger())

	page, err := browser.NewDocumentPage(`<html><body><h1>Job History</h1><p>No rows</p></body></html>`, arbor.NewLogger())
	require.NoError(t, err)

	base, err := writer.Capture(context.Background(), page, "ValidateText #tcHeader")
	require.NoError(t, err)
	assert.Equal(t, "01_ValidateText_tcHeader", base)

	html, err := afero.ReadFile(fs, "results/run1/"+base+".html")
	require.NoError(t, err)
	assert.Contains(t, string(html), "Job History")

	markdown, err := afero.ReadFile(fs, "results/run1/"+base+".md")
	require.NoError(t, err)
	assert.Contains(t, string(markdown), "# Job History")

	exists, err := afero.Exists(fs, "results/run1/"+base+".png")
	require.NoError(t, err)
	assert.False(t, exists, "document pages cannot render screenshots")
}

func TestWriter_CaptureScreenshot(t *testing.T) {
	fs := afero.NewMemMapFs()
	writer := NewWriter(fs, "out", arbor.NewLogger())

	doc, err := browser.NewDocumentPage(`<p>x</p>`, arbor.NewLogger())
	require.NoError(t, err)

	base, err := writer.Capture(context.Background(), &screenshotPage{DocumentPage: doc, png: []byte{0x89, 'P', 'N', 'G'}}, "first")
	require.NoError(t, err)
	png, err := afero.ReadFile(fs, "out/"+base+".png")
	require.NoError(t, err)
	assert.Equal(t, []byte{0x89, 'P', 'N', 'G'}, png)

	base, err = writer.Capture(context.Background(), &screenshotPage{DocumentPage: doc, err: errors.New("no display")}, "second")
	require.NoError(t, err, "screenshot failures do not fail the capture")
	assert.Equal(t, "02_second", base)
}

func TestWriteSummary(t *testing.T) {
	fs := afero.NewMemMapFs()
	writer := NewWriter(fs, "out", arbor.NewLogger())

	run := &models.RunResult{
		ID:        "run-1",
		Scenario:  "cancel job",
		Backend:   "document",
		StartedAt: time.Date(2026, 10, 15, 9, 0, 0, 0, time.UTC),
		Duration:  1500 * time.Millisecond,
		Steps: []models.StepResult{
			{Name: "open", Action: "ClickButton", Passed: true},
			{Name: "check | row", Action: "ValidateTableRow", Passed: false, Kind: "mismatch", Error: "want Cancelled", Snapshot: "02_check"},
		},
	}

	require.NoError(t, writer.WriteSummary(run))

	markdown, err := afero.ReadFile(fs, "out/summary.md")
	require.NoError(t, err)
	assert.Contains(t, string(markdown), "# cancel job: FAILED")
	assert.Contains(t, string(markdown), `check \| row`)
	assert.Contains(t, string(markdown), "mismatch: want Cancelled")

	page, err := afero.ReadFile(fs, "out/summary.html")
	require.NoError(t, err)
	assert.Contains(t, string(page), "<table>")
	assert.Contains(t, string(page), `<a href="02_check.html">snapshot</a>`)

	exists, err := afero.Exists(fs, "out/results.json")
	require.NoError(t, err)
	assert.True(t, exists)
}
