// Package helpers provides the webhook processing shared by the stdlib, Chi,
// Gin, Echo and PocketBase receivers so that every adapter answers the API
// with the same status codes and body.
package helpers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/Tresor-Kasenda/shwary-go"
)

// DefaultMaxBodyBytes caps webhook bodies when no limit is configured.
const DefaultMaxBodyBytes int64 = 1 << 20

// ErrBodyTooLarge is returned by ReadBody when the body exceeds the limit.
var ErrBodyTooLarge = errors.New("webhook body too large")

// Config configures a webhook receiver. It is re-exported as
// WebhookConfig by the parent http package.
type Config struct {
	// Handler receives each parsed transaction. A nil Handler acknowledges
	// every valid webhook.
	Handler shwary.TransactionHandler

	// Strict validates bodies against the transaction schema before parsing.
	Strict bool

	Logger shwary.Logger

	// MaxBodyBytes caps the request body. Zero means DefaultMaxBodyBytes.
	MaxBodyBytes int64
}

// ServeRequest validates the method, reads the body and processes the webhook.
// It returns the status code and body the adapter must write.
// A nil config uses the defaults.
func ServeRequest(r *http.Request, config *Config) (int, shwary.WebhookResponse) {
	var opts Config
	if config != nil {
		opts = *config
	}
	logger := shwary.LoggerOrNop(opts.Logger)

	if r.Method != http.MethodPost {
		return http.StatusMethodNotAllowed, shwary.NewWebhookResponse(false, "method not allowed")
	}

	body, err := ReadBody(r.Body, opts.MaxBodyBytes)
	if err != nil {
		if errors.Is(err, ErrBodyTooLarge) {
			logger.Error("webhook rejected", "error", err)
			return http.StatusRequestEntityTooLarge, shwary.NewWebhookResponse(false, err.Error())
		}
		logger.Error("failed to read webhook body", "error", err)
		return http.StatusBadRequest, shwary.NewWebhookResponse(false, "failed to read webhook body")
	}

	return ProcessWebhook(r.Context(), body, opts.Strict, opts.Handler, logger)
}

// ReadBody reads at most limit bytes from r. A limit of zero or less means
// DefaultMaxBodyBytes.
func ReadBody(r io.Reader, limit int64) ([]byte, error) {
	if r == nil {
		return nil, nil
	}
	if limit <= 0 {
		limit = DefaultMaxBodyBytes
	}

	data, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > limit {
		return nil, fmt.Errorf("%w: limit is %d bytes", ErrBodyTooLarge, limit)
	}
	return data, nil
}

// ProcessWebhook parses body and hands the transaction to handler.
//
// Status codes:
//   - 200 when the handler accepted the transaction
//   - 400 when the body is not a valid webhook
//   - 500 when the handler returned an error
func ProcessWebhook(ctx context.Context, body []byte, strict bool, handler shwary.TransactionHandler, logger shwary.Logger) (int, shwary.WebhookResponse) {
	logger = shwary.LoggerOrNop(logger)

	parse := shwary.ParseWebhook
	if strict {
		parse = shwary.ParseWebhookStrict
	}

	tx, err := parse(body)
	if err != nil {
		logger.Error("invalid webhook payload", "error", err, "strict", strict)
		message := err.Error()
		if e, ok := shwary.AsError(err); ok {
			message = e.Message
		}
		return http.StatusBadRequest, shwary.NewWebhookResponse(false, message)
	}

	logger.Info("webhook received",
		"transactionId", tx.ID,
		"status", string(tx.Status),
		"sandbox", tx.IsSandbox,
	)

	if handler != nil {
		if err := handler(ctx, tx); err != nil {
			logger.Error("webhook handler failed", "transactionId", tx.ID, "error", err)
			return http.StatusInternalServerError, shwary.NewWebhookResponse(false, "webhook handler failed")
		}
	}

	return http.StatusOK, shwary.NewWebhookResponse(true, "webhook processed")
}
