// Package report writes failure snapshots and run summaries.
package report

import (
	"context"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
	"sync"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/spf13/afero"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/uicontrols/pkg/browser"
)

var unsafeName = regexp.MustCompile(`[^a-zA-Z0-9._-]+`)

// Writer stores report files under one run directory
type Writer struct {
	fs     afero.Fs
	dir    string
	logger arbor.ILogger

	mu  sync.Mutex
	seq int
}

// NewWriter creates a writer rooted at dir on fs
func NewWriter(fs afero.Fs, dir string, logger arbor.ILogger) *Writer {
	return &Writer{fs: fs, dir: dir, logger: logger}
}

// Dir returns the run directory
func (w *Writer) Dir() string {
	return w.dir
}

func (w *Writer) next(name string) string {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.seq++
	clean := strings.Trim(unsafeName.ReplaceAllString(name, "_"), "_")
	if clean == "" {
		clean = "snapshot"
	}
	return fmt.Sprintf("%02d_%s", w.seq, clean)
}

func (w *Writer) write(name string, data []byte) error {
	if err := w.fs.MkdirAll(w.dir, 0755); err != nil {
		return fmt.Errorf("failed to create report dir: %w", err)
	}
	if err := afero.WriteFile(w.fs, filepath.Join(w.dir, name), data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", name, err)
	}
	return nil
}

// Capture saves the page's HTML, a Markdown rendering of it and, when the backend
// supports it, a PNG screenshot. Returns the base name shared by the files.
func (w *Writer) Capture(ctx context.Context, page browser.Page, name string) (string, error) {
	base := w.next(name)

	html, err := page.HTML(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to read page html: %w", err)
	}
	if err := w.write(base+".html", []byte(html)); err != nil {
		return "", err
	}

	markdown, err := HTMLToMarkdown(html)
	if err != nil {
		w.logger.Warn().Err(err).Str("snapshot", base).Msg("Failed to convert snapshot to markdown")
	} else if err := w.write(base+".md", []byte(markdown)); err != nil {
		return "", err
	}

	if shooter, ok := page.(browser.Screenshotter); ok {
		png, err := shooter.Screenshot(ctx)
		if err != nil {
			w.logger.Warn().Err(err).Str("snapshot", base).Msg("Failed to capture screenshot")
		} else if err := w.write(base+".png", png); err != nil {
			return "", err
		}
	}

	w.logger.Info().Str("dir", w.dir).Str("snapshot", base).Msg("Snapshot captured")
	return base, nil
}

// HTMLToMarkdown renders page HTML as Markdown for readable diffs of failed states
func HTMLToMarkdown(html string) (string, error) {
	converter := md.NewConverter("", true, nil)
	converted, err := converter.ConvertString(html)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(converted), nil
}
