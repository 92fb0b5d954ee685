package feed

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sethvargo/go-retry"
)

const (
	// DefaultURL is the campus events feed this system was built for.
	DefaultURL = "https://experiencebu.brocku.ca/events.rss"

	userAgent      = "campus-events/1.0 (github.com/pfrederiksen/campus-events)"
	defaultTimeout = 30 * time.Second
	maxRetries     = 3
	retryBase      = 500 * time.Millisecond

	// maxBodySize caps how much feed text we are willing to read.
	maxBodySize = 8 << 20
)

// FetchError indicates the feed could not be retrieved: a transport failure
// (StatusCode zero) or a non-2xx response.
type FetchError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetching %s: unexpected status code %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("fetching %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// retryable reports whether another attempt could plausibly succeed.
func (e *FetchError) retryable() bool {
	if e.StatusCode == 0 {
		return true
	}
	return e.StatusCode >= 500 || e.StatusCode == http.StatusTooManyRequests
}

// Client fetches raw feed text over HTTP. Transient failures are retried with
// capped fibonacci backoff; the per-call context bounds the whole exchange.
type Client struct {
	httpClient *http.Client
}

// NewClient creates a feed client with the default request timeout.
func NewClient() *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
	}
}

// Fetch retrieves the raw feed text at url. Any non-2xx response or transport
// error surfaces as a *FetchError after retries are exhausted.
func (c *Client) Fetch(ctx context.Context, url string) ([]byte, error) {
	var body []byte

	backoff := retry.WithMaxRetries(maxRetries, retry.NewFibonacci(retryBase))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		b, err := c.fetchOnce(ctx, url)
		if err != nil {
			var fe *FetchError
			if errors.As(err, &fe) && fe.retryable() {
				return retry.RetryableError(err)
			}
			return err
		}
		body = b
		return nil
	})
	if err != nil {
		return nil, err
	}

	return body, nil
}

func (c *Client) fetchOnce(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &FetchError{URL: url, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &FetchError{URL: url, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, &FetchError{URL: url, Err: fmt.Errorf("reading body: %w", err)}
	}

	return body, nil
}
