package http

import (
	"encoding/json"
	"net/http"

	"github.com/Tresor-Kasenda/shwary-go/http/internal/helpers"
)

// WebhookConfig configures a webhook receiver. Every adapter under http/
// accepts the same configuration.
type WebhookConfig = helpers.Config

// NewWebhookHandler returns a net/http receiver for transaction webhooks.
//
// Example usage:
//
//	handler := shwaryhttp.NewWebhookHandler(&shwaryhttp.WebhookConfig{
//	    Handler: func(ctx context.Context, tx *shwary.Transaction) error {
//	        if tx.IsCompleted() {
//	            return orders.MarkPaid(ctx, tx.ReferenceID)
//	        }
//	        return nil
//	    },
//	})
//	http.Handle("/webhooks/shwary", handler)
func NewWebhookHandler(config *WebhookConfig) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		status, resp := helpers.ServeRequest(r, config)
		if status == http.StatusMethodNotAllowed {
			w.Header().Set("Allow", http.MethodPost)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(resp)
	})
}
