package report

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"

	"github.com/ternarybob/uicontrols/pkg/models"
)

// Markdown renders a run as a Markdown document with a GFM step table
func Markdown(run *models.RunResult) string {
	var b strings.Builder

	status := "PASSED"
	if !run.Passed() {
		status = "FAILED"
	}
	fmt.Fprintf(&b, "# %s: %s\n\n", run.Scenario, status)
	fmt.Fprintf(&b, "- Run: `%s`\n", run.ID)
	fmt.Fprintf(&b, "- Backend: %s\n", run.Backend)
	fmt.Fprintf(&b, "- Started: %s\n", run.StartedAt.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(&b, "- Duration: %s\n", run.Duration.Round(time.Millisecond))
	fmt.Fprintf(&b, "- Steps: %d, failures: %d\n\n", len(run.Steps), run.Failures())

	b.WriteString("| # | Step | Action | Result | Duration | Detail |\n")
	b.WriteString("|---|---|---|---|---|---|\n")
	for i, step := range run.Steps {
		result := "ok"
		if !step.Passed {
			result = "**fail**"
		}
		detail := step.Error
		if step.Kind != "" {
			detail = step.Kind + ": " + detail
		}
		if step.Snapshot != "" {
			detail += fmt.Sprintf(" ([snapshot](%s.html))", step.Snapshot)
		}
		fmt.Fprintf(&b, "| %d | %s | %s | %s | %s | %s |\n",
			i+1, cell(step.Name), cell(step.Action), result, step.Duration.Round(time.Millisecond), cell(detail))
	}
	return b.String()
}

// cell escapes text for a table cell
func cell(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)
	return strings.ReplaceAll(s, "\n", " ")
}

// RenderHTML converts Markdown to a standalone HTML page
func RenderHTML(title, markdown string) (string, error) {
	converter := goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
		),
		goldmark.WithRendererOptions(
			html.WithXHTML(),
		),
	)

	var buf bytes.Buffer
	if err := converter.Convert([]byte(markdown), &buf); err != nil {
		return "", fmt.Errorf("failed to render summary: %w", err)
	}

	return "<!DOCTYPE html>\n<html><head><meta charset=\"utf-8\"><title>" + title +
		"</title></head><body>\n" + buf.String() + "</body></html>\n", nil
}

// WriteSummary writes summary.md, summary.html and results.json for a run
func (w *Writer) WriteSummary(run *models.RunResult) error {
	markdown := Markdown(run)
	if err := w.write("summary.md", []byte(markdown)); err != nil {
		return err
	}

	page, err := RenderHTML(run.Scenario, markdown)
	if err != nil {
		return err
	}
	if err := w.write("summary.html", []byte(page)); err != nil {
		return err
	}

	data, err := json.MarshalIndent(run, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode results: %w", err)
	}
	if err := w.write("results.json", data); err != nil {
		return err
	}

	w.logger.Info().
		Str("dir", w.dir).
		Int("steps", len(run.Steps)).
		Int("failures", run.Failures()).
		Msg("Run summary written")
	return nil
}
