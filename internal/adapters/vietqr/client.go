package vietqr

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/admincheck123/payos-payout/internal/config"
	"github.com/admincheck123/payos-payout/internal/metrics"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const upstreamName = "vietqr"

// Client fetches the public VietQR bank listing. It sends no credentials.
type Client struct {
	url        string
	timeout    time.Duration
	httpClient *http.Client
	metrics    *metrics.Metrics
}

func NewClient(cfg config.ListingConfig, m *metrics.Metrics) *Client {
	return &Client{
		url:     cfg.URL,
		timeout: cfg.Timeout,
		httpClient: &http.Client{
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		metrics: m,
	}
}

func (c *Client) FetchBankListing(ctx context.Context) ([]byte, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, fmt.Errorf("error creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.metrics.ObserveUpstream(upstreamName, "banks", "error", time.Since(start).Seconds())
		return nil, fmt.Errorf("error making request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	c.metrics.ObserveUpstream(upstreamName, "banks", strconv.Itoa(resp.StatusCode), time.Since(start).Seconds())
	if err != nil {
		return nil, fmt.Errorf("error reading response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("bank listing returned status %d", resp.StatusCode)
	}
	return body, nil
}
