// Package gin provides a Gin handler that receives Shwary transaction webhooks.
// This package is a thin adapter that translates gin.Context to stdlib http
// patterns and delegates processing to the shared helpers.
package gin

import (
	"net/http"

	"github.com/gin-gonic/gin"

	shwaryhttp "github.com/Tresor-Kasenda/shwary-go/http"
	"github.com/Tresor-Kasenda/shwary-go/http/internal/helpers"
)

// NewGinWebhookHandler returns a gin.HandlerFunc for the webhook route.
//
// Example usage:
//
//	r := gin.Default()
//	r.POST("/webhooks/shwary", NewGinWebhookHandler(&shwaryhttp.WebhookConfig{
//	    Handler: onTransaction,
//	    Strict:  true,
//	}))
//
// The handler aborts the chain on any non-200 outcome.
func NewGinWebhookHandler(config *shwaryhttp.WebhookConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		status, resp := helpers.ServeRequest(c.Request, config)
		if status != http.StatusOK {
			if status == http.StatusMethodNotAllowed {
				c.Header("Allow", http.MethodPost)
			}
			c.AbortWithStatusJSON(status, resp)
			return
		}
		c.JSON(status, resp)
	}
}
