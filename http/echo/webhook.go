// Package echo provides an Echo handler that receives Shwary transaction webhooks.
package echo

import (
	"net/http"

	"github.com/labstack/echo/v4"

	shwaryhttp "github.com/Tresor-Kasenda/shwary-go/http"
	"github.com/Tresor-Kasenda/shwary-go/http/internal/helpers"
)

// NewEchoWebhookHandler returns an echo.HandlerFunc for the webhook route.
//
//	e := echo.New()
//	e.POST("/webhooks/shwary", NewEchoWebhookHandler(&shwaryhttp.WebhookConfig{Handler: onTransaction}))
func NewEchoWebhookHandler(config *shwaryhttp.WebhookConfig) echo.HandlerFunc {
	return func(c echo.Context) error {
		status, resp := helpers.ServeRequest(c.Request(), config)
		if status == http.StatusMethodNotAllowed {
			c.Response().Header().Set(echo.HeaderAllow, http.MethodPost)
		}
		return c.JSON(status, resp)
	}
}
