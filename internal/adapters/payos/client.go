package payos

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/admincheck123/payos-payout/internal/config"
	"github.com/admincheck123/payos-payout/internal/core/domain"
	"github.com/admincheck123/payos-payout/internal/metrics"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const (
	headerClientID       = "x-client-id"
	headerAPIKey         = "x-api-key"
	headerIdempotencyKey = "x-idempotency-key"
	headerSignature      = "x-signature"

	upstreamName = "payos"
)

type HTTPClient struct {
	baseURL        string
	clientID       string
	apiKey         string
	requestTimeout time.Duration
	payoutTimeout  time.Duration
	probeTimeout   time.Duration
	httpClient     *http.Client
	metrics        *metrics.Metrics
	logger         *slog.Logger
}

func NewClient(cfg config.PayOSConfig, probeTimeout time.Duration, m *metrics.Metrics, logger *slog.Logger) *HTTPClient {
	return &HTTPClient{
		baseURL:        cfg.BaseURL,
		clientID:       cfg.ClientID,
		apiKey:         cfg.APIKey,
		requestTimeout: cfg.RequestTimeout,
		payoutTimeout:  cfg.PayoutTimeout,
		probeTimeout:   probeTimeout,
		httpClient: &http.Client{
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		metrics: m,
		logger:  logger.With("component", "payos"),
	}
}

func (c *HTTPClient) GetBalance(ctx context.Context) (json.RawMessage, error) {
	return c.send(ctx, request{
		operation: "balance",
		method:    http.MethodGet,
		path:      "/v1/payouts-account/balance",
		timeout:   c.requestTimeout,
	})
}

// CreatePayout posts payload exactly as given, with the idempotency key and signature attached.
func (c *HTTPClient) CreatePayout(ctx context.Context, payload map[string]any, idempotencyKey, signature string) (json.RawMessage, error) {
	return c.send(ctx, request{
		operation: "payouts.create",
		method:    http.MethodPost,
		path:      "/v1/payouts",
		body:      payload,
		headers: map[string]string{
			headerIdempotencyKey: idempotencyKey,
			headerSignature:      signature,
		},
		timeout: c.payoutTimeout,
	})
}

// ListPayouts forwards params untouched to the processor's payout listing.
func (c *HTTPClient) ListPayouts(ctx context.Context, params url.Values) (json.RawMessage, error) {
	return c.send(ctx, request{
		operation: "payouts.list",
		method:    http.MethodGet,
		path:      "/v1/payouts",
		query:     params,
		timeout:   c.payoutTimeout,
	})
}

func (c *HTTPClient) ProbeBankCodes(ctx context.Context, candidate domain.EndpointCandidate) ([]byte, error) {
	return c.send(ctx, request{
		operation: "bankcodes " + candidate.String(),
		method:    candidate.Method,
		path:      candidate.Path,
		timeout:   c.probeTimeout,
	})
}

type request struct {
	operation string
	method    string
	path      string
	query     url.Values
	body      any
	headers   map[string]string
	timeout   time.Duration
}

// send performs one authenticated call. Non-2xx answers and transport failures become *domain.UpstreamError.
func (c *HTTPClient) send(ctx context.Context, r request) (json.RawMessage, error) {
	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	var bodyReader io.Reader
	if r.body != nil {
		jsonData, err := json.Marshal(r.body)
		if err != nil {
			return nil, fmt.Errorf("error marshalling json: %w", err)
		}
		bodyReader = bytes.NewReader(jsonData)
	}

	fullURL := c.baseURL + r.path
	if len(r.query) > 0 {
		fullURL += "?" + r.query.Encode()
	}

	httpReq, err := http.NewRequestWithContext(ctx, r.method, fullURL, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("error creating request: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set(headerClientID, c.clientID)
	httpReq.Header.Set(headerAPIKey, c.apiKey)
	for k, v := range r.headers {
		httpReq.Header.Set(k, v)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		c.metrics.ObserveUpstream(upstreamName, r.operation, "error", time.Since(start).Seconds())
		return nil, &domain.UpstreamError{Operation: r.operation, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	c.metrics.ObserveUpstream(upstreamName, r.operation, strconv.Itoa(resp.StatusCode), time.Since(start).Seconds())
	if err != nil {
		return nil, &domain.UpstreamError{Operation: r.operation, StatusCode: resp.StatusCode, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.logger.DebugContext(ctx, "upstream rejected request",
			"operation", r.operation,
			"status", resp.StatusCode,
		)
		return nil, &domain.UpstreamError{
			Operation:  r.operation,
			StatusCode: resp.StatusCode,
			Body:       rawBody(body),
		}
	}

	return rawBody(body), nil
}
