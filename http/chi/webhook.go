// Package chi provides a Chi router that receives Shwary transaction webhooks.
// This package is a thin adapter that delegates parsing and handler dispatch
// to the shared helpers and writes responses with go-chi/render.
package chi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	shwaryhttp "github.com/Tresor-Kasenda/shwary-go/http"
	"github.com/Tresor-Kasenda/shwary-go/http/internal/helpers"
)

// NewChiWebhookRouter returns a router accepting webhooks with POST on "/".
// Mount it wherever the callback URL points:
//
//	r := chi.NewRouter()
//	r.Use(middleware.Recoverer)
//	r.Mount("/webhooks/shwary", NewChiWebhookRouter(&shwaryhttp.WebhookConfig{
//	    Handler: onTransaction,
//	}))
//
// Other methods on "/" receive 405 with the standard webhook response body.
func NewChiWebhookRouter(config *shwaryhttp.WebhookConfig) chi.Router {
	serve := func(w http.ResponseWriter, r *http.Request) {
		status, resp := helpers.ServeRequest(r, config)
		if status == http.StatusMethodNotAllowed {
			w.Header().Set("Allow", http.MethodPost)
		}
		render.Status(r, status)
		render.JSON(w, r, resp)
	}

	r := chi.NewRouter()
	r.Post("/", serve)
	r.MethodNotAllowed(serve)
	return r
}
