// Package fetch downloads versioned title documents and reference feeds from
// the eCFR API.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

const DefaultBaseURL = "https://www.ecfr.gov"

// Client calls the eCFR versioner and admin APIs. Transient failures (HTTP
// 429/5xx, network errors) are retried with capped exponential backoff.
type Client struct {
	baseURL    string
	httpClient *http.Client
	retries    int

	// Stats records call latencies for the /api/stats/fetch endpoint.
	Stats *FetchStats
}

func NewClient(baseURL string, timeout time.Duration, retries int) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	if retries < 0 {
		retries = 0
	}
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		retries: retries,
		Stats:   NewFetchStats(time.Hour),
	}
}

// TitleXML downloads the full XML of one title at one effective date.
func (c *Client) TitleXML(ctx context.Context, date string, title int) ([]byte, error) {
	url := fmt.Sprintf("%s/api/versioner/v1/full/%s/title-%d.xml", c.baseURL, date, title)
	return c.get(ctx, url)
}

// Agencies downloads the agency reference feed.
func (c *Client) Agencies(ctx context.Context) ([]byte, error) {
	return c.get(ctx, c.baseURL+"/api/admin/v1/agencies.json")
}

// TitlesSummary downloads the titles summary feed.
func (c *Client) TitlesSummary(ctx context.Context) ([]byte, error) {
	return c.get(ctx, c.baseURL+"/api/versioner/v1/titles.json")
}

func (c *Client) get(ctx context.Context, url string) ([]byte, error) {
	var lastErr error
	for attempt := 0; ; attempt++ {
		data, err := c.getOnce(ctx, url)
		if err == nil {
			return data, nil
		}
		lastErr = err
		if !IsRetryable(err) || attempt >= c.retries {
			return nil, lastErr
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(Backoff(attempt)):
		}
	}
}

func (c *Client) getOnce(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if c.Stats != nil {
		c.Stats.Record(time.Since(start))
	}
	if err != nil {
		return nil, &RetryableError{Err: fmt.Errorf("fetch %s: %w", url, err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, &RetryableError{
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("fetch %s: status %d: %s", url, resp.StatusCode, string(body)),
		}
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("fetch %s: status %d: %s", url, resp.StatusCode, string(body))
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &RetryableError{Err: fmt.Errorf("read %s: %w", url, err)}
	}
	return data, nil
}

// Close releases idle connections.
func (c *Client) Close() {
	c.httpClient.CloseIdleConnections()
}
