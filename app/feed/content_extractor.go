package feed

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"codeberg.org/readeck/go-readability/v2"
	"github.com/temoto/robotstxt"
)

const MaxExcerptLength = 1000

var ErrDisallowed = errors.New("disallowed by robots.txt")

// ContentExtractor fetches an article page and returns a plain-text excerpt
// of its main content.
type ContentExtractor struct {
	fetcher *Fetcher
	timeout time.Duration
}

func NewContentExtractor(fetcher *Fetcher, timeout time.Duration) *ContentExtractor {
	return &ContentExtractor{
		fetcher: fetcher,
		timeout: timeout,
	}
}

func (e *ContentExtractor) Run(ctx context.Context, link string) (string, error) {
	pageURL, err := url.Parse(link)
	if err != nil {
		return "", fmt.Errorf("invalid article URL: %w", err)
	}

	if !e.allowed(ctx, pageURL) {
		return "", fmt.Errorf("%w: %s", ErrDisallowed, link)
	}

	data, err := e.fetcher.Fetch(ctx, pageURL.Host, link, e.timeout)
	if err != nil {
		return "", err
	}

	return e.Extract(data, pageURL)
}

// allowed reports whether the site's robots.txt permits fetching pageURL.
// An unreachable robots.txt allows everything.
func (e *ContentExtractor) allowed(ctx context.Context, pageURL *url.URL) bool {
	robotsURL := pageURL.Scheme + "://" + pageURL.Host + "/robots.txt"

	status, data, err := e.fetcher.get(ctx, robotsURL, e.timeout)
	if err != nil {
		slog.Debug("robots.txt unavailable", "url", robotsURL, "error", err)
		return true
	}

	robots, err := robotstxt.FromStatusAndBytes(status, data)
	if err != nil {
		slog.Debug("robots.txt unreadable", "url", robotsURL, "error", err)
		return true
	}

	return robots.TestAgent(pageURL.Path, e.fetcher.userAgent)
}

func (e *ContentExtractor) Extract(data []byte, pageURL *url.URL) (string, error) {
	if len(data) == 0 {
		return "", fmt.Errorf("HTML data is empty")
	}

	article, err := readability.FromReader(bytes.NewReader(data), pageURL)
	if err != nil {
		return "", fmt.Errorf("failed to extract content: %w", err)
	}

	var text strings.Builder
	if err := article.RenderText(&text); err != nil {
		return "", fmt.Errorf("failed to render content: %w", err)
	}

	content := strings.Join(strings.Fields(text.String()), " ")
	if content == "" {
		return "", fmt.Errorf("no content extracted from HTML data")
	}

	slog.Debug("Content extracted successfully", "url", pageURL.String(), "content_length", len(content))

	return Truncate(content, MaxExcerptLength), nil
}
