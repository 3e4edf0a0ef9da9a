package feed

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

const DefaultUserAgent = "DailyPick/1.0 (+feed collector)"

// MaxBodySize caps the bytes read from a feed or article response.
const MaxBodySize = 10 << 20

// Fetcher performs timed GET requests for feeds and article pages.
type Fetcher struct {
	httpClient *http.Client
	userAgent  string
}

// NewFetcher creates a fetcher using httpClient and userAgent. A nil client
// or empty user agent falls back to the defaults.
func NewFetcher(httpClient *http.Client, userAgent string) *Fetcher {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	return &Fetcher{
		httpClient: httpClient,
		userAgent:  userAgent,
	}
}

// Fetch downloads url within timeout. Every failure is returned as a
// network_error IngestError.
func (f *Fetcher) Fetch(ctx context.Context, name, url string, timeout time.Duration) ([]byte, error) {
	data, err := f.fetch(ctx, url, timeout)
	if err != nil {
		return nil, &IngestError{Kind: KindNetwork, Source: name, Err: err}
	}
	return data, nil
}

func (f *Fetcher) fetch(ctx context.Context, url string, timeout time.Duration) ([]byte, error) {
	status, data, err := f.get(ctx, url, timeout)
	if err != nil {
		return nil, err
	}

	if status < 200 || status > 299 {
		return nil, fmt.Errorf("HTTP error: %d %s", status, http.StatusText(status))
	}

	return data, nil
}

// get performs the request and returns the status code and body regardless
// of the status.
func (f *Fetcher) get(ctx context.Context, url string, timeout time.Duration) (int, []byte, error) {
	timeoutCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(timeoutCtx, http.MethodGet, url, nil)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", f.userAgent)

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to fetch: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, MaxBodySize+1))
	if err != nil {
		return 0, nil, fmt.Errorf("failed to read response body: %w", err)
	}
	if len(data) > MaxBodySize {
		return 0, nil, fmt.Errorf("response body exceeds %d bytes", MaxBodySize)
	}

	return resp.StatusCode, data, nil
}
