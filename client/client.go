// Package client is the entry point for merchants: it validates payment input,
// sends it to the Shwary API and decodes transactions.
//
// Use New for an instance owned by the caller, or Init and the package-level
// functions for a process-wide default client.
package client

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/Tresor-Kasenda/shwary-go"
	shwaryhttp "github.com/Tresor-Kasenda/shwary-go/http"
)

const (
	paymentPath        = "merchants/payment/"
	sandboxPaymentPath = "merchants/payment/sandbox/"
	transactionPath    = "merchants/transactions/"
)

// Client sends payments and looks up transactions for one merchant.
// The configuration is fixed at construction. Client is safe for concurrent use.
type Client struct {
	config shwary.Config
	http   *shwaryhttp.Client
	logger shwary.Logger
}

type options struct {
	logger     shwary.Logger
	httpClient *http.Client
	metrics    *shwaryhttp.Metrics
}

// Option configures a Client.
type Option func(*options)

// WithLogger sets the diagnostic logger. *slog.Logger satisfies shwary.Logger.
func WithLogger(logger shwary.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(o *options) {
		o.httpClient = httpClient
	}
}

// WithMetrics records request metrics.
func WithMetrics(metrics *shwaryhttp.Metrics) Option {
	return func(o *options) {
		o.metrics = metrics
	}
}

// New validates cfg and creates a Client.
func New(cfg shwary.Config, opts ...Option) (*Client, error) {
	cfg = cfg.WithDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var o options
	for _, opt := range opts {
		opt(&o)
	}
	logger := shwary.LoggerOrNop(o.logger)

	httpOpts := []shwaryhttp.ClientOption{
		shwaryhttp.WithLogger(logger),
		shwaryhttp.WithMetrics(o.metrics),
	}
	if o.httpClient != nil {
		httpOpts = append(httpOpts, shwaryhttp.WithHTTPClient(o.httpClient))
	}

	transport, err := shwaryhttp.NewClient(cfg, httpOpts...)
	if err != nil {
		return nil, err
	}

	return &Client{
		config: cfg,
		http:   transport,
		logger: logger,
	}, nil
}

// Config returns the configuration the client was built with.
func (c *Client) Config() shwary.Config {
	return c.config
}

// IsSandbox reports whether payments are routed to the sandbox endpoint.
func (c *Client) IsSandbox() bool {
	return c.config.Sandbox
}

// Pay validates the input and initiates a payment.
// An empty callbackURL sends no callback.
func (c *Client) Pay(ctx context.Context, amount float64, phone string, country shwary.CountryMetadata, callbackURL string) (*shwary.Transaction, error) {
	req, err := shwary.NewPaymentRequest(amount, phone, country, callbackURL)
	if err != nil {
		return nil, err
	}
	return c.CreatePayment(ctx, req)
}

// PayDRC initiates a payment in the Democratic Republic of the Congo.
func (c *Client) PayDRC(ctx context.Context, amount float64, phone, callbackURL string) (*shwary.Transaction, error) {
	return c.Pay(ctx, amount, phone, shwary.DRC, callbackURL)
}

// PayKenya initiates a payment in Kenya.
func (c *Client) PayKenya(ctx context.Context, amount float64, phone, callbackURL string) (*shwary.Transaction, error) {
	return c.Pay(ctx, amount, phone, shwary.Kenya, callbackURL)
}

// PayUganda initiates a payment in Uganda.
func (c *Client) PayUganda(ctx context.Context, amount float64, phone, callbackURL string) (*shwary.Transaction, error) {
	return c.Pay(ctx, amount, phone, shwary.Uganda, callbackURL)
}

// CreatePayment sends a validated request to the live or sandbox endpoint
// depending on the configuration.
func (c *Client) CreatePayment(ctx context.Context, req *shwary.PaymentRequest) (*shwary.Transaction, error) {
	return c.createPayment(ctx, req, c.config.Sandbox)
}

// CreateSandboxPayment always targets the sandbox endpoint.
func (c *Client) CreateSandboxPayment(ctx context.Context, req *shwary.PaymentRequest) (*shwary.Transaction, error) {
	return c.createPayment(ctx, req, true)
}

func (c *Client) createPayment(ctx context.Context, req *shwary.PaymentRequest, sandbox bool) (*shwary.Transaction, error) {
	if req == nil {
		return nil, shwary.NewMissingRequiredFieldError("paymentRequest")
	}

	endpoint := paymentPath + string(req.Country().Code)
	if sandbox {
		endpoint = sandboxPaymentPath + string(req.Country().Code)
	}

	c.logger.Info("creating payment",
		"country", string(req.Country().Code),
		"amount", req.Amount(),
		"sandbox", sandbox,
	)

	resp, err := c.http.Post(ctx, endpoint, req.Payload())
	if err != nil {
		if e, ok := shwary.AsError(err); ok && e.Kind == shwary.KindAPI && e.Code == http.StatusNotFound {
			notFound := shwary.NewClientNotFoundError(req.ClientPhoneNumber())
			notFound.Err = e
			return nil, notFound
		}
		return nil, err
	}

	return decodeTransaction(resp)
}

// GetTransaction fetches a transaction by id. An empty id fails without a network call.
func (c *Client) GetTransaction(ctx context.Context, id string) (*shwary.Transaction, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, shwary.NewMissingRequiredFieldError("transactionId")
	}

	resp, err := c.http.Get(ctx, transactionPath+url.PathEscape(id))
	if err != nil {
		return nil, err
	}
	return decodeTransaction(resp)
}

// ParseWebhook decodes a webhook body leniently.
func (c *Client) ParseWebhook(payload []byte) (*shwary.Transaction, error) {
	return shwary.ParseWebhook(payload)
}

// ParseWebhookStrict validates a webhook body against the transaction schema.
func (c *Client) ParseWebhookStrict(payload []byte) (*shwary.Transaction, error) {
	return shwary.ParseWebhookStrict(payload)
}

func decodeTransaction(resp *shwaryhttp.Response) (*shwary.Transaction, error) {
	raw, ok := resp.Body.(map[string]any)
	if !ok {
		return nil, shwary.NewUnexpectedResponseError(resp.StatusCode, resp.Body)
	}
	return shwary.TransactionFromAPIResponse(raw), nil
}
