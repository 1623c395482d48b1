package fetcher

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

const userAgent = "ScamScan/1.0"

// FetchError is a network or HTTP failure retrieving one resource. It is
// recoverable inside a crawl: callers skip the resource and continue.
type FetchError struct {
	URL string
	Err error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("failed to fetch %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// Client retrieves a single resource's textual content over HTTP, serving
// built-in demo fixtures for known demo hostnames.
type Client struct {
	http *http.Client
}

// New creates a fetcher with a tuned HTTP client.
func New() *Client {
	return &Client{
		http: &http.Client{
			Timeout: 30 * time.Second,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
}

// Fetch returns the body of rawURL. Demo hostnames resolve to fixtures
// without touching the network. Any transport or non-2xx outcome is a
// *FetchError.
func (c *Client) Fetch(ctx context.Context, rawURL string) (string, error) {
	if fixture, ok := lookupDemoSite(rawURL); ok {
		return fixture, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", &FetchError{URL: rawURL, Err: err}
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", &FetchError{URL: rawURL, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &FetchError{URL: rawURL, Err: fmt.Errorf("HTTP %d: %s", resp.StatusCode, resp.Status)}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &FetchError{URL: rawURL, Err: err}
	}

	return string(body), nil
}
