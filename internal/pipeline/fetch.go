package pipeline

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"server/internal/domain"
)

// HTTPFetcher streams the resolved audio payload over plain HTTP.
type HTTPFetcher struct {
	client *http.Client
}

// NewHTTPFetcher constructs a fetcher. A nil client gets a default with a
// generous timeout since media payloads can be large.
func NewHTTPFetcher(client *http.Client) *HTTPFetcher {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Minute}
	}
	return &HTTPFetcher{client: client}
}

// Fetch opens the audio stream at streamURL. The caller owns the returned
// body and must close it.
func (f *HTTPFetcher) Fetch(ctx context.Context, streamURL string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, streamURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build stream request: %w", domain.ErrSourceUnavailable)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch audio stream: %v: %w", err, domain.ErrSourceUnavailable)
	}
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusPartialContent {
		resp.Body.Close()
		return nil, fmt.Errorf("fetch audio stream: status %d: %w", resp.StatusCode, domain.ErrSourceUnavailable)
	}
	return resp.Body, nil
}
