package client

import (
	"context"
	"errors"
	"sync"

	"github.com/Tresor-Kasenda/shwary-go"
)

// ErrNotInitialized is returned by the package-level functions before Init
// or after Reset.
var ErrNotInitialized = errors.New("shwary: client not initialized, call client.Init first")

var (
	mu            sync.RWMutex
	defaultClient *Client
)

// Init builds the process-wide client. Calling Init again replaces it.
// On error the previous client, if any, is kept.
func Init(cfg shwary.Config, opts ...Option) (*Client, error) {
	c, err := New(cfg, opts...)
	if err != nil {
		return nil, err
	}

	mu.Lock()
	defaultClient = c
	mu.Unlock()
	return c, nil
}

// Default returns the process-wide client or ErrNotInitialized.
func Default() (*Client, error) {
	mu.RLock()
	defer mu.RUnlock()
	if defaultClient == nil {
		return nil, ErrNotInitialized
	}
	return defaultClient, nil
}

// Reset discards the process-wide client.
func Reset() {
	mu.Lock()
	defaultClient = nil
	mu.Unlock()
}

// Pay calls Pay on the default client.
func Pay(ctx context.Context, amount float64, phone string, country shwary.CountryMetadata, callbackURL string) (*shwary.Transaction, error) {
	c, err := Default()
	if err != nil {
		return nil, err
	}
	return c.Pay(ctx, amount, phone, country, callbackURL)
}

// PayDRC calls PayDRC on the default client.
func PayDRC(ctx context.Context, amount float64, phone, callbackURL string) (*shwary.Transaction, error) {
	c, err := Default()
	if err != nil {
		return nil, err
	}
	return c.PayDRC(ctx, amount, phone, callbackURL)
}

// PayKenya calls PayKenya on the default client.
func PayKenya(ctx context.Context, amount float64, phone, callbackURL string) (*shwary.Transaction, error) {
	c, err := Default()
	if err != nil {
		return nil, err
	}
	return c.PayKenya(ctx, amount, phone, callbackURL)
}

// PayUganda calls PayUganda on the default client.
func PayUganda(ctx context.Context, amount float64, phone, callbackURL string) (*shwary.Transaction, error) {
	c, err := Default()
	if err != nil {
		return nil, err
	}
	return c.PayUganda(ctx, amount, phone, callbackURL)
}

// CreatePayment calls CreatePayment on the default client.
func CreatePayment(ctx context.Context, req *shwary.PaymentRequest) (*shwary.Transaction, error) {
	c, err := Default()
	if err != nil {
		return nil, err
	}
	return c.CreatePayment(ctx, req)
}

// CreateSandboxPayment calls CreateSandboxPayment on the default client.
func CreateSandboxPayment(ctx context.Context, req *shwary.PaymentRequest) (*shwary.Transaction, error) {
	c, err := Default()
	if err != nil {
		return nil, err
	}
	return c.CreateSandboxPayment(ctx, req)
}

// GetTransaction calls GetTransaction on the default client.
func GetTransaction(ctx context.Context, id string) (*shwary.Transaction, error) {
	c, err := Default()
	if err != nil {
		return nil, err
	}
	return c.GetTransaction(ctx, id)
}

// ParseWebhook calls ParseWebhook on the default client.
func ParseWebhook(payload []byte) (*shwary.Transaction, error) {
	c, err := Default()
	if err != nil {
		return nil, err
	}
	return c.ParseWebhook(payload)
}

// ParseWebhookStrict calls ParseWebhookStrict on the default client.
func ParseWebhookStrict(payload []byte) (*shwary.Transaction, error) {
	c, err := Default()
	if err != nil {
		return nil, err
	}
	return c.ParseWebhookStrict(payload)
}

// IsSandbox reports the sandbox flag of the default client.
func IsSandbox() (bool, error) {
	c, err := Default()
	if err != nil {
		return false, err
	}
	return c.IsSandbox(), nil
}

// Config returns the configuration of the default client.
func Config() (shwary.Config, error) {
	c, err := Default()
	if err != nil {
		return shwary.Config{}, err
	}
	return c.Config(), nil
}
