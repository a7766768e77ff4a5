package httpclient

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/uicontrols/pkg/models"
)

// maxResponseBody bounds how much of an upload response is retained
const maxResponseBody = 1 << 20

// NewDefaultHTTPClient creates a simple HTTP client with a timeout
func NewDefaultHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Timeout: timeout,
	}
}

// Uploader posts fixture files to an upload endpoint as multipart forms
type Uploader struct {
	client *http.Client
	logger arbor.ILogger
}

// NewUploader creates an uploader. A nil client uses NewDefaultHTTPClient(timeout).
func NewUploader(client *http.Client, timeout time.Duration, logger arbor.ILogger) *Uploader {
	if client == nil {
		client = NewDefaultHTTPClient(timeout)
	}
	return &Uploader{client: client, logger: logger}
}

// Upload sends file as form field to endpoint with a bearer token and returns the exchange.
// Non-2xx responses are returned as records, not errors.
func (u *Uploader) Upload(ctx context.Context, endpoint, field, token string, file models.FilePayload) (models.RequestRecord, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`, field, file.Name))
	contentType := file.MimeType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	header.Set("Content-Type", contentType)

	part, err := writer.CreatePart(header)
	if err != nil {
		return models.RequestRecord{}, fmt.Errorf("failed to create form part: %w", err)
	}
	if _, err := part.Write(file.Content); err != nil {
		return models.RequestRecord{}, fmt.Errorf("failed to write form part: %w", err)
	}
	if err := writer.Close(); err != nil {
		return models.RequestRecord{}, fmt.Errorf("failed to close form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, &body)
	if err != nil {
		return models.RequestRecord{}, fmt.Errorf("failed to create upload request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	startTime := time.Now()
	resp, err := u.client.Do(req)
	if err != nil {
		return models.RequestRecord{}, fmt.Errorf("upload to %s failed: %w", endpoint, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody))
	if err != nil {
		return models.RequestRecord{}, fmt.Errorf("failed to read upload response: %w", err)
	}

	u.logger.Info().
		Str("endpoint", endpoint).
		Str("file", file.Name).
		Int("status", resp.StatusCode).
		Dur("elapsed", time.Since(startTime)).
		Msg("Upload request completed")

	return models.RequestRecord{
		Method:     http.MethodPost,
		URL:        endpoint,
		Status:     resp.StatusCode,
		Body:       respBody,
		ObservedAt: time.Now(),
	}, nil
}
