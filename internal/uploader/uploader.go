package uploader

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"time"
)

// Uploader transfers a finished recording to the backend in a single
// synchronous multipart request. There is no retry or resume: on failure the
// error is reported to the caller and the local file stays put, so the user
// can record again.
type Uploader struct {
	endpoint   string
	httpClient *http.Client
}

// New creates an uploader posting to endpoint (the backend's /api/stt URL).
func New(endpoint string) *Uploader {
	return &Uploader{
		endpoint:   endpoint,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// Upload sends the whole file as the multipart field "audio".
func (u *Uploader) Upload(ctx context.Context, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open recording: %w", err)
	}
	defer f.Close()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	part, err := writer.CreateFormFile("audio", filepath.Base(path))
	if err != nil {
		return fmt.Errorf("create form file: %w", err)
	}
	if _, err := io.Copy(part, f); err != nil {
		return fmt.Errorf("copy recording: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("finalize form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", u.endpoint, &body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := u.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("send recording: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("upload rejected: %s - %s", resp.Status, string(respBody))
	}
	return nil
}
