// Package pocketbase provides a PocketBase route handler that receives Shwary
// transaction webhooks.
package pocketbase

import (
	"github.com/pocketbase/pocketbase/core"

	shwaryhttp "github.com/Tresor-Kasenda/shwary-go/http"
	"github.com/Tresor-Kasenda/shwary-go/http/internal/helpers"
)

// NewPocketBaseWebhookHandler returns a route handler for the webhook endpoint.
//
// Example usage:
//
//	app.OnServe().BindFunc(func(se *core.ServeEvent) error {
//	    se.Router.POST("/webhooks/shwary", NewPocketBaseWebhookHandler(&shwaryhttp.WebhookConfig{
//	        Handler: onTransaction,
//	    }))
//	    return se.Next()
//	})
func NewPocketBaseWebhookHandler(config *shwaryhttp.WebhookConfig) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		status, resp := helpers.ServeRequest(e.Request, config)
		return e.JSON(status, resp)
	}
}
