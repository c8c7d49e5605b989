// Package fetch downloads remote inputs to local files, resuming partial
// downloads where the server allows it.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"time"

	"go.uber.org/zap"
)

// DefaultResponseHeaderTimeout is the default timeout for receiving response headers.
const DefaultResponseHeaderTimeout = 30 * time.Second

// Downloader fetches URLs to files.
type Downloader struct {
	client *http.Client
	logger *zap.Logger
}

// Option configures a Downloader.
type Option func(*Downloader)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(d *Downloader) { d.client = client }
}

// WithTimeout bounds each whole request, body included.
func WithTimeout(timeout time.Duration) Option {
	return func(d *Downloader) { d.client = &http.Client{Timeout: timeout} }
}

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(d *Downloader) { d.logger = logger }
}

// New creates a Downloader. Large planet files take hours, so there is no
// overall request timeout by default.
func New(opts ...Option) *Downloader {
	d := &Downloader{
		client: &http.Client{
			Transport: &http.Transport{
				Proxy:                 http.ProxyFromEnvironment,
				ResponseHeaderTimeout: DefaultResponseHeaderTimeout,
				IdleConnTimeout:       90 * time.Second,
				TLSHandshakeTimeout:   10 * time.Second,
				ExpectContinueTimeout: 1 * time.Second,
			},
		},
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Fetch downloads url to destPath and returns the file's final size.
// An existing partial file is resumed with a Range request; if the server
// ignores the range the download starts over.
func (d *Downloader) Fetch(ctx context.Context, url, destPath string, progress ProgressFunc) (int64, error) {
	var offset int64
	if info, err := os.Stat(destPath); err == nil {
		offset = info.Size()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, fmt.Errorf("creating request: %w", err)
	}
	if offset > 0 {
		req.Header.Set("Range", fmt.Sprintf("bytes=%d-", offset))
	}

	resp, err := d.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("downloading: %w", err)
	}
	defer resp.Body.Close()

	flags := os.O_WRONLY | os.O_CREATE
	var total int64
	switch resp.StatusCode {
	case http.StatusOK:
		flags |= os.O_TRUNC
		offset = 0
		total = resp.ContentLength
	case http.StatusPartialContent:
		flags |= os.O_APPEND
		total = parseContentRangeTotal(resp.Header.Get("Content-Range"), offset+resp.ContentLength)
		d.logger.Debug("resuming download", zap.String("url", url), zap.Int64("offset", offset))
	case http.StatusRequestedRangeNotSatisfiable:
		if offset > 0 {
			// The partial file is already complete.
			return offset, nil
		}
		return 0, fmt.Errorf("unexpected status: %s", resp.Status)
	default:
		return 0, fmt.Errorf("unexpected status: %s", resp.Status)
	}

	file, err := os.OpenFile(destPath, flags, 0o644)
	if err != nil {
		return 0, fmt.Errorf("opening file: %w", err)
	}

	start := time.Now()
	pw := &progressWriter{w: file, written: offset, total: total, start: start, fn: progress}
	_, copyErr := io.Copy(pw, resp.Body)
	closeErr := file.Close()
	if copyErr != nil {
		return pw.written, fmt.Errorf("reading response: %w", copyErr)
	}
	if closeErr != nil {
		return pw.written, fmt.Errorf("closing file: %w", closeErr)
	}

	d.logger.Debug("download finished",
		zap.String("url", url),
		zap.Int64("bytes", pw.written),
		zap.Duration("elapsed", time.Since(start)),
	)
	return pw.written, nil
}

// ContentLength returns the size of url without downloading it, or zero if
// the server does not report one.
func (d *Downloader) ContentLength(ctx context.Context, url string) (int64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, url, nil)
	if err != nil {
		return 0, err
	}

	resp, err := d.client.Do(req)
	if err != nil {
		return 0, err
	}
	resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("unexpected status: %s", resp.Status)
	}

	length := resp.Header.Get("Content-Length")
	if length == "" {
		return 0, nil
	}
	return strconv.ParseInt(length, 10, 64)
}

// parseContentRangeTotal extracts the complete length from a header like
// "bytes 100-999/1000", falling back to def.
func parseContentRangeTotal(header string, def int64) int64 {
	var start, end, total int64
	if _, err := fmt.Sscanf(header, "bytes %d-%d/%d", &start, &end, &total); err != nil {
		return def
	}
	return total
}
