// Package feed fetches raw listing documents over HTTP.
package feed

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

// Client implements pipeline.Fetcher with a plain HTTP GET per listing.
type Client struct {
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a listing fetcher with the given request timeout.
func NewClient(timeout time.Duration, logger *slog.Logger) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

// Fetch retrieves one listing document. Transport failures and non-success
// statuses both surface as errors; the pipeline treats either as a
// run-aborting fetch failure for that source.
func (c *Client) Fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch listing: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("fetch listing: status %d from %s", resp.StatusCode, url)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read listing body: %w", err)
	}
	c.logger.Debug("listing fetched", "url", url, "bytes", len(body))
	return body, nil
}
