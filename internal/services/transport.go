package services

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Uploader PUTs file bodies to signed upload URLs.
type Uploader struct {
	httpClient *http.Client
}

func NewUploader() *Uploader {
	return &Uploader{
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

func (u *Uploader) Upload(ctx context.Context, signedURL, contentType string, body io.Reader, size int64, onProgress func(sent int64)) error {
	reader := &progressReader{reader: body, onProgress: onProgress}
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, signedURL, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.ContentLength = size
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := u.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrTransferFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("%w: status %d, body: %s", ErrTransferFailed, resp.StatusCode, string(respBody))
	}

	return nil
}

// progressReader reports the cumulative byte count for this file on every
// read the HTTP transport makes.
type progressReader struct {
	reader     io.Reader
	sent       int64
	onProgress func(sent int64)
}

func (r *progressReader) Read(p []byte) (int, error) {
	n, err := r.reader.Read(p)
	if n > 0 {
		r.sent += int64(n)
		if r.onProgress != nil {
			r.onProgress(r.sent)
		}
	}
	return n, err
}
