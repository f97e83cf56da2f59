// Package http is the request/response translation layer for the Shwary API.
// It builds URLs, attaches merchant credentials, enforces a per-request timeout,
// and turns every outcome into either a parsed Response or a shwary.Error.
package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Tresor-Kasenda/shwary-go"
)

// APIVersion is the path segment inserted between the base URL and every endpoint.
const APIVersion = "api/v1"

// Header names carrying merchant credentials.
const (
	HeaderMerchantID  = "x-merchant-id"
	HeaderMerchantKey = "x-merchant-key"
	HeaderRequestID   = "X-Request-ID"
)

// Client sends authenticated JSON requests to the API.
//
// Client holds no per-request state and is safe for concurrent use.
type Client struct {
	// BaseURL is the API host without a trailing slash.
	BaseURL string

	MerchantID  string
	MerchantKey string

	// Timeout bounds each request, including reading the response body.
	Timeout time.Duration

	// HTTPClient performs the requests. It must not be nil.
	HTTPClient *http.Client

	// Logger receives request diagnostics. Credentials are always masked.
	Logger shwary.Logger

	// Metrics records request counts and latency. Nil disables metrics.
	Metrics *Metrics
}

// Response is a successful (2xx) API response.
type Response struct {
	StatusCode int
	Header     http.Header

	// Body is the decoded JSON value, the raw text when the body is not JSON,
	// or nil when the body is empty or unreadable.
	Body any

	// RequestID is the X-Request-ID sent with the request.
	RequestID string
}

// ClientOption configures a Client.
type ClientOption func(*Client) error

// NewClient creates a Client from a validated configuration.
func NewClient(cfg shwary.Config, opts ...ClientOption) (*Client, error) {
	cfg = cfg.WithDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	client := &Client{
		BaseURL:     cfg.BaseURL,
		MerchantID:  cfg.MerchantID,
		MerchantKey: cfg.MerchantKey,
		Timeout:     cfg.Timeout,
		HTTPClient: &http.Client{
			Transport: &http.Transport{
				Proxy:               http.ProxyFromEnvironment,
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		Logger: shwary.NopLogger(),
	}

	for _, opt := range opts {
		if err := opt(client); err != nil {
			return nil, err
		}
	}

	return client, nil
}

// WithHTTPClient sets the underlying HTTP client.
// Its Timeout field is left alone; the per-request Timeout still applies.
func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(c *Client) error {
		if httpClient == nil {
			return errors.New("http client cannot be nil")
		}
		c.HTTPClient = httpClient
		return nil
	}
}

// WithLogger sets the diagnostic logger.
func WithLogger(logger shwary.Logger) ClientOption {
	return func(c *Client) error {
		c.Logger = shwary.LoggerOrNop(logger)
		return nil
	}
}

// WithMetrics enables request metrics.
func WithMetrics(metrics *Metrics) ClientOption {
	return func(c *Client) error {
		c.Metrics = metrics
		return nil
	}
}

// BuildURL joins base, the API version and endpoint.
// Absolute endpoints (http:// or https://) are returned unchanged.
func BuildURL(base, endpoint string) string {
	if strings.HasPrefix(endpoint, "https://") || strings.HasPrefix(endpoint, "http://") {
		return endpoint
	}
	return strings.TrimRight(base, "/") + "/" + APIVersion + "/" + strings.TrimLeft(endpoint, "/")
}

// Do sends one request and classifies the outcome.
//
// body is marshaled to JSON when non-nil. Errors are always *shwary.Error:
//   - transport failure or timeout: network error (code 0)
//   - 401: invalid credentials
//   - 502: bad gateway
//   - any other non-2xx: API error from the response
//
// Do never retries.
func (c *Client) Do(ctx context.Context, method, endpoint string, body any) (*Response, error) {
	logger := shwary.LoggerOrNop(c.Logger)
	target := BuildURL(c.BaseURL, endpoint)
	requestID := uuid.NewString()
	start := time.Now()

	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return nil, shwary.NewNetworkError("failed to encode request body", err)
		}
	}

	ctx, cancel := context.WithTimeout(ctx, c.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, method, target, bytes.NewReader(payload))
	if err != nil {
		return nil, shwary.NewNetworkError("failed to create request", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set(HeaderMerchantID, c.MerchantID)
	req.Header.Set(HeaderMerchantKey, c.MerchantKey)
	req.Header.Set(HeaderRequestID, requestID)

	logger.Debug("shwary request",
		"method", method,
		"url", target,
		"requestId", requestID,
		"headers", MaskHeaders(req.Header),
		"body", SanitizeBody(body),
	)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		apiErr := c.transportError(ctx, err)
		apiErr.Context["requestId"] = requestID
		logger.Error("shwary request failed",
			"method", method,
			"url", target,
			"requestId", requestID,
			"error", apiErr.Message,
		)
		c.Metrics.observe(method, endpoint, "error", time.Since(start))
		return nil, apiErr
	}
	defer resp.Body.Close()

	parsed, err := readBody(resp)
	if err != nil && ctx.Err() != nil {
		apiErr := c.transportError(ctx, err)
		apiErr.Context["requestId"] = requestID
		logger.Error("shwary response read failed",
			"method", method,
			"url", target,
			"requestId", requestID,
			"status", resp.StatusCode,
			"error", apiErr.Message,
		)
		c.Metrics.observe(method, endpoint, "error", time.Since(start))
		return nil, apiErr
	}
	c.Metrics.observe(method, endpoint, fmt.Sprintf("%d", resp.StatusCode), time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := classify(resp.StatusCode, parsed)
		apiErr.Context["requestId"] = requestID
		logger.Error("shwary request rejected",
			"method", method,
			"url", target,
			"requestId", requestID,
			"status", resp.StatusCode,
			"error", apiErr.Message,
		)
		return nil, apiErr
	}

	logger.Info("shwary request completed",
		"method", method,
		"url", target,
		"requestId", requestID,
		"status", resp.StatusCode,
		"duration", time.Since(start),
	)

	return &Response{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       parsed,
		RequestID:  requestID,
	}, nil
}

// Get is Do with GET and no body.
func (c *Client) Get(ctx context.Context, endpoint string) (*Response, error) {
	return c.Do(ctx, http.MethodGet, endpoint, nil)
}

// Post is Do with POST.
func (c *Client) Post(ctx context.Context, endpoint string, body any) (*Response, error) {
	return c.Do(ctx, http.MethodPost, endpoint, body)
}

// transportError maps a failed round trip to a network error.
// A fired deadline is reported as a timeout.
func (c *Client) transportError(ctx context.Context, err error) *shwary.Error {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) || errors.Is(err, context.DeadlineExceeded) {
		return shwary.NewNetworkError(
			fmt.Sprintf("request timeout after %dms", c.Timeout.Milliseconds()), err)
	}
	if errors.Is(err, context.Canceled) {
		return shwary.NewNetworkError("request canceled", err)
	}
	return shwary.NewNetworkError("network request failed", err)
}

// classify maps a non-2xx status to the error taxonomy.
func classify(status int, body any) *shwary.Error {
	switch status {
	case http.StatusUnauthorized:
		return shwary.NewInvalidCredentialsError(body)
	case http.StatusBadGateway:
		return shwary.NewBadGatewayError(body)
	default:
		return shwary.NewAPIErrorFromResponse(status, body)
	}
}

// readBody decodes a response body on a best-effort basis.
// A failed read yields a nil body together with the read error.
func readBody(resp *http.Response) (any, error) {
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}

	if strings.Contains(strings.ToLower(resp.Header.Get("Content-Type")), "json") {
		var decoded any
		if err := json.Unmarshal(data, &decoded); err == nil {
			return decoded, nil
		}
	}
	return string(data), nil
}
