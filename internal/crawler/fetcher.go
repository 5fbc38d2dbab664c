package crawler

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

// ErrFetchFailed is returned when a page could not be retrieved within
// the retry budget. The task is abandoned; the run continues.
var ErrFetchFailed = errors.New("fetch failed")

const (
	// defaultMaxBodySize caps how much of a page body we read. Directory
	// pages are well under 1MB; anything larger is not worth parsing.
	defaultMaxBodySize = 5 * 1024 * 1024

	defaultAttempts = 3
	defaultBackoff  = 2 * time.Second
)

// Fetcher issues page fetches with a fixed identity and a bounded retry
// budget. Transport errors and 5xx responses are retried with a fixed
// pause between attempts; 4xx responses are terminal immediately, since
// repeating a request the server already understood cannot help.
type Fetcher struct {
	client      *http.Client
	userAgent   string
	maxBodySize int64
	attempts    int
	backoff     time.Duration
	cookie      string
	headers     map[string]string
	logger      *slog.Logger
}

// FetcherOption configures a Fetcher.
type FetcherOption func(*Fetcher)

// WithFetchClient sets the HTTP client used for page fetches. Its
// timeout bounds each individual attempt.
func WithFetchClient(client *http.Client) FetcherOption {
	return func(f *Fetcher) {
		f.client = client
	}
}

// WithMaxBodySize caps the number of response bytes read per page.
func WithMaxBodySize(n int64) FetcherOption {
	return func(f *Fetcher) {
		f.maxBodySize = n
	}
}

// WithRetry sets the attempt budget and the pause between attempts.
func WithRetry(attempts int, backoff time.Duration) FetcherOption {
	return func(f *Fetcher) {
		if attempts > 0 {
			f.attempts = attempts
		}
		f.backoff = backoff
	}
}

// WithCookie sets a Cookie header sent with every request. Some
// directories sit behind a consent interstitial that a session cookie
// bypasses.
func WithCookie(cookie string) FetcherOption {
	return func(f *Fetcher) {
		f.cookie = cookie
	}
}

// WithHeaders sets extra headers sent with every request.
func WithHeaders(headers map[string]string) FetcherOption {
	return func(f *Fetcher) {
		f.headers = headers
	}
}

// WithFetchLogger sets the structured logger.
func WithFetchLogger(logger *slog.Logger) FetcherOption {
	return func(f *Fetcher) {
		f.logger = logger
	}
}

// NewFetcher creates a Fetcher identifying itself with the given user agent.
func NewFetcher(userAgent string, opts ...FetcherOption) *Fetcher {
	f := &Fetcher{
		client:      &http.Client{Timeout: 20 * time.Second},
		userAgent:   userAgent,
		maxBodySize: defaultMaxBodySize,
		attempts:    defaultAttempts,
		backoff:     defaultBackoff,
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Fetch retrieves the page body at pageURL, retrying retryable failures
// up to the attempt budget.
func (f *Fetcher) Fetch(ctx context.Context, pageURL string) ([]byte, error) {
	var lastErr error
	for attempt := 1; attempt <= f.attempts; attempt++ {
		if attempt > 1 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(f.backoff):
			}
			f.logger.Debug("retrying fetch", "url", pageURL, "attempt", attempt)
		}

		body, retryable, err := f.fetchOnce(ctx, pageURL)
		if err == nil {
			return body, nil
		}
		lastErr = err
		if !retryable {
			break
		}
	}
	return nil, fmt.Errorf("%w: %s: %v", ErrFetchFailed, pageURL, lastErr)
}

// fetchOnce performs a single request. retryable reports whether the
// failure is worth another attempt.
func (f *Fetcher) fetchOnce(ctx context.Context, pageURL string) (body []byte, retryable bool, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, false, fmt.Errorf("invalid URL: %w", err)
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")
	for key, value := range f.headers {
		req.Header.Set(key, value)
	}
	if f.cookie != "" {
		req.Header.Set("Cookie", f.cookie)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, true, err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode >= http.StatusInternalServerError:
		return nil, true, fmt.Errorf("server returned %s", resp.Status)
	case resp.StatusCode != http.StatusOK:
		return nil, false, fmt.Errorf("server returned %s", resp.Status)
	}

	body, err = io.ReadAll(io.LimitReader(resp.Body, f.maxBodySize))
	if err != nil {
		return nil, true, fmt.Errorf("failed to read body: %w", err)
	}
	return body, false, nil
}
