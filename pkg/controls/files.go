package controls

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/ternarybob/uicontrols/internal/poll"
	"github.com/ternarybob/uicontrols/pkg/browser"
	"github.com/ternarybob/uicontrols/pkg/fixtures"
	"github.com/ternarybob/uicontrols/pkg/models"
)

const (
	fileInput      = `input[type="file"]`
	virusScanIcon  = ".vtx-icon-bug"
	infoCircleIcon = ".vtx-icon-info-circle"
	tooltip        = ".ant-tooltip"
)

// Virus scan icon colours
const (
	VirusRed   = "red"
	VirusBlue  = "blue"
	VirusGreen = "green"
)

// ValidateFileSelectNoFile checks the empty file picker. required expects the required-file
// message; a non-empty info is checked in the tooltip of the last info icon.
func (c *Controls) ValidateFileSelectNoFile(ctx context.Context, id, info, dragText, dragInfo string, required bool) error {
	detail := fmt.Sprintf("id=%s info=%s drag_text=%s drag_info=%s required=%t", id, info, dragText, dragInfo, required)
	return c.step(ctx, "ValidateFileSelectNoFile", detail, func() error {
		if err := c.expect(ctx, models.ByID(id), c.defaultTimeout(), exists()); err != nil {
			return err
		}
		if err := c.ValidateText(ctx, "fileUploadDragDropText", dragText, true, 0); err != nil {
			return err
		}
		if err := c.ValidateText(ctx, "fileUploadDragDropInformation", dragInfo, true, 0); err != nil {
			return err
		}
		if required {
			if err := c.ValidateText(ctx, "fileUploadValidation", c.settings.Messages.RequiredFile, true, 0); err != nil {
				return err
			}
		}
		if info == "" {
			return nil
		}

		icon := models.CSS(infoCircleIcon).Last()
		if err := c.hover(ctx, icon, false); err != nil {
			return err
		}
		if err := c.expect(ctx, models.CSS(tooltip), c.defaultTimeout(), visible()); err != nil {
			return err
		}
		if err := c.expect(ctx, models.ByID("fileInformation"), c.defaultTimeout(), textEq(info)); err != nil {
			return err
		}
		return c.hover(ctx, icon, true)
	})
}

// ValidateFileSelectWithFile checks the picker after a file was chosen. timeoutMs bounds the
// wait for the file name.
func (c *Controls) ValidateFileSelectWithFile(ctx context.Context, id, fileName, fileType string, timeoutMs int) error {
	detail := fmt.Sprintf("id=%s file=%s type=%s", id, fileName, fileType)
	return c.step(ctx, "ValidateFileSelectWithFile", detail, func() error {
		if err := c.expect(ctx, models.ByID(id), c.defaultTimeout(), exists()); err != nil {
			return err
		}
		t := models.OrDefault(timeoutMs, c.settings.Timeouts.FileWithFileMs)
		if err := c.ValidateText(ctx, "fileName", fileName, false, t); err != nil {
			return err
		}
		if err := c.ValidateButton(ctx, "removeButton", "Remove", true, 0); err != nil {
			return err
		}
		return c.expect(ctx, models.ByID("fileUploadValidation"), c.defaultTimeout(), notExists())
	})
}

// FileSelect attaches a fixture to the file input and waits for the virus scan icon.
// A zip archive is attached as raw bytes, anything else as text; an empty fileType is
// detected from the content. A scan that does not finish in scanTimeoutMs fails as Timeout.
func (c *Controls) FileSelect(ctx context.Context, id, fileName, fileType string, scanTimeoutMs int) error {
	detail := fmt.Sprintf("id=%s file=%s type=%s", id, fileName, fileType)
	return c.step(ctx, "FileSelect", detail, func() error {
		payload, err := c.fixtures.Load(fileName, fileType)
		if err != nil {
			return fixtureError(fileName, err)
		}

		input := models.CSS(fileInput)
		if err := c.expect(ctx, input, c.defaultTimeout(), exists()); err != nil {
			return err
		}
		if err := c.page.SetFiles(ctx, input, []models.FilePayload{payload}); err != nil {
			return actionError("attach", input, err)
		}

		t := c.timeout(scanTimeoutMs, c.settings.Timeouts.VirusScanMs)
		if err := c.expect(ctx, models.CSS(virusScanIcon), t, visible()); err != nil {
			return asTimeout(err)
		}
		return nil
	})
}

func fixtureError(name string, err error) error {
	if errors.Is(err, fixtures.ErrFixtureNotFound) {
		return &AssertionError{Kind: ErrNotFound, Target: name, Check: "fixture", Cause: err}
	}
	return fmt.Errorf("fixture %s: %w", name, err)
}

// ValidateVirusIcon hovers the last scan icon of the colour and checks its tooltip.
// red also runs the green check afterwards; every colour other than blue runs the green check.
func (c *Controls) ValidateVirusIcon(ctx context.Context, color string) error {
	return c.step(ctx, "ValidateVirusIcon", "color="+color, func() error {
		if color == VirusRed {
			if err := c.virusTooltip(ctx, VirusRed); err != nil {
				return err
			}
		}
		if color == VirusBlue {
			return c.virusTooltip(ctx, VirusBlue)
		}
		return c.virusTooltip(ctx, VirusGreen)
	})
}

func (c *Controls) virusTooltip(ctx context.Context, color string) error {
	icon := models.CSS(".vtx-icon-color-" + color + virusScanIcon).Last()
	if err := c.hover(ctx, icon, false); err != nil {
		return err
	}
	return c.expect(ctx, models.CSS(tooltip), c.defaultTimeout(), visible())
}

// waitForDownload polls the download directory for a completed file
func (c *Controls) waitForDownload(ctx context.Context, name string, timeoutMs, intervalMs int) error {
	check := func(ctx context.Context) error {
		ok, err := c.downloads.Exists(name)
		if err != nil {
			return err
		}
		if !ok {
			return poll.Retry(notFound(c.downloads.Path(name), "download"))
		}
		return nil
	}
	out, err := poll.Until(ctx, models.Millis(timeoutMs), models.Millis(intervalMs), check)
	if err != nil {
		return asTimeout(pollFailure(err, out))
	}
	c.logger.Debug().Str("file", name).Int("attempts", out.Attempts).Msg("Download found")
	return nil
}

// ValidateFileDownload waits for name to finish downloading
func (c *Controls) ValidateFileDownload(ctx context.Context, name string, timeoutMs int) error {
	return c.step(ctx, "ValidateFileDownload", "file="+name, func() error {
		t := models.OrDefault(timeoutMs, c.settings.Timeouts.DownloadMs)
		return c.waitForDownload(ctx, name, t, c.settings.Timeouts.DownloadPollMs)
	})
}

// ValidateFilesContains compares two files after turning every line break into a space
func (c *Controls) ValidateFilesContains(ctx context.Context, source, downloaded string) error {
	detail := fmt.Sprintf("source=%s downloaded=%s", source, downloaded)
	return c.step(ctx, "ValidateFilesContains", detail, func() error {
		want, err := c.readNormalized(source)
		if err != nil {
			return err
		}
		got, err := c.readNormalized(downloaded)
		if err != nil {
			return err
		}
		if got != want {
			return &AssertionError{
				Kind:     ErrMismatch,
				Target:   downloaded,
				Check:    "file content",
				Expected: want,
				Actual:   got,
			}
		}
		return nil
	})
}

func (c *Controls) readNormalized(path string) (string, error) {
	text, err := fixtures.ReadNormalized(c.fs, path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", &AssertionError{Kind: ErrNotFound, Target: path, Check: "file", Cause: err}
		}
		return "", err
	}
	return text, nil
}

// ErrorFileName is the name of the error report exported for fileName: " - Errors" goes
// before the four-character extension
func ErrorFileName(fileName string) string {
	if len(fileName) < 4 {
		return fileName + " - Errors"
	}
	cut := len(fileName) - 4
	return fileName[:cut] + " - Errors" + fileName[cut:]
}

// ValidateErrorFile opens the error report viewer for fileName, exports the report and
// waits for the download
func (c *Controls) ValidateErrorFile(ctx context.Context, fileName string, timeoutMs int) error {
	errorFile := ErrorFileName(fileName)
	return c.step(ctx, "ValidateErrorFile", "file="+errorFile, func() error {
		if err := c.ValidateText(ctx, "fileViewerHeader", errorFile, true, c.settings.Timeouts.ErrorHeaderMs); err != nil {
			return err
		}
		if err := c.ValidateButton(ctx, "exportButton", "Export", true, 0); err != nil {
			return err
		}
		if err := c.ValidateButton(ctx, "closeButton", "Close", true, 0); err != nil {
			return err
		}
		if err := c.ClickButton(ctx, "exportButton"); err != nil {
			return err
		}
		t := models.OrDefault(timeoutMs, c.settings.Timeouts.ErrorFileMs)
		if err := c.waitForDownload(ctx, errorFile, t, c.settings.Timeouts.ErrorFilePollMs); err != nil {
			return err
		}
		return c.ClickButton(ctx, "closeButton")
	})
}

// UploadFileRequest posts a fixture straight to the upload endpoint with a bearer token and
// records the exchange under alias for WaitForRequest
func (c *Controls) UploadFileRequest(ctx context.Context, fileName, alias, token string) error {
	return c.step(ctx, "UploadFileRequest", fmt.Sprintf("file=%s alias=%s", fileName, alias), func() error {
		endpoint := c.settings.Upload.Endpoint
		if endpoint == "" {
			return errors.New("no upload endpoint configured")
		}
		payload, err := c.fixtures.LoadRaw(fileName)
		if err != nil {
			return fixtureError(fileName, err)
		}

		record, err := c.uploader.Upload(ctx, endpoint, c.settings.Upload.FieldName, token, payload)
		if err != nil {
			return err
		}
		record.Alias = alias

		c.mu.Lock()
		c.requests[alias] = record
		c.mu.Unlock()
		return nil
	})
}

// WaitForRequest returns the exchange recorded under alias
func (c *Controls) WaitForRequest(ctx context.Context, alias string, timeoutMs int) (models.RequestRecord, error) {
	var record models.RequestRecord
	err := c.step(ctx, "WaitForRequest", "alias="+alias, func() error {
		check := func(ctx context.Context) error {
			c.mu.Lock()
			r, ok := c.requests[alias]
			c.mu.Unlock()
			if !ok {
				return poll.Retry(notFound("@"+alias, "request"))
			}
			record = r
			return nil
		}
		t := c.timeout(timeoutMs, c.settings.Upload.TimeoutMs)
		out, err := poll.Until(ctx, t, c.interval(), check)
		if err != nil {
			return asTimeout(pollFailure(err, out))
		}
		return nil
	})
	return record, err
}

// WaitForResponse waits until the browser has seen a response with method (empty matches any)
// whose URL contains fragment. Backends that do not observe traffic fail as NotFound.
func (c *Controls) WaitForResponse(ctx context.Context, method, fragment string, timeoutMs int) (models.RequestRecord, error) {
	var record models.RequestRecord
	err := c.step(ctx, "WaitForResponse", fmt.Sprintf("method=%s url=%s", method, fragment), func() error {
		watcher, ok := c.page.(browser.RequestWatcher)
		if !ok {
			return &AssertionError{Kind: ErrNotFound, Target: fragment, Check: "request tracking unsupported by backend"}
		}
		check := func(ctx context.Context) error {
			for _, r := range watcher.Requests() {
				if method != "" && !strings.EqualFold(r.Method, method) {
					continue
				}
				if strings.Contains(r.URL, fragment) {
					record = r
					return nil
				}
			}
			return poll.Retry(notFound(fragment, "response"))
		}
		t := c.timeout(timeoutMs, c.settings.Timeouts.DefaultMs)
		if out, err := poll.Until(ctx, t, c.interval(), check); err != nil {
			return asTimeout(pollFailure(err, out))
		}
		return nil
	})
	return record, err
}
