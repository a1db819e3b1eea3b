package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/CORAZONPERFECTO/hecho-docs/internal/application/port"
)

// HTTPFetcher implements port.FileFetcher over plain HTTP(S).
// Failed fetches are never retried; the caller degrades in place
// (placeholder box, bundle omission).
type HTTPFetcher struct {
	client   *http.Client
	maxBytes int64
	logger   *zap.Logger
}

// NewHTTPFetcher creates a new HTTP file fetcher
func NewHTTPFetcher(timeout time.Duration, maxBytes int64, logger *zap.Logger) port.FileFetcher {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	if maxBytes <= 0 {
		maxBytes = 50 * 1024 * 1024
	}
	return &HTTPFetcher{
		client:   &http.Client{Timeout: timeout},
		maxBytes: maxBytes,
		logger:   logger,
	}
}

// Fetch downloads the file at url into memory
func (f *HTTPFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		f.logger.Warn("File fetch failed",
			zap.String("url", url),
			zap.Error(err))
		return nil, fmt.Errorf("failed to fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		f.logger.Warn("File fetch returned non-OK status",
			zap.String("url", url),
			zap.Int("status", resp.StatusCode))
		return nil, fmt.Errorf("fetch %s failed with status %d", url, resp.StatusCode)
	}

	content, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	if int64(len(content)) > f.maxBytes {
		return nil, fmt.Errorf("file at %s exceeds size limit of %d bytes", url, f.maxBytes)
	}

	f.logger.Debug("File fetched",
		zap.String("url", url),
		zap.Int("size", len(content)))

	return content, nil
}
