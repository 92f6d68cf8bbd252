// internal/app/features/payments/routes.go
package payments

import "github.com/go-chi/chi/v5"

// Routes returns the /payments subtree. The webhook endpoint is public;
// its authentication is the Stripe payload signature.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Post("/checkout", h.ServeCheckout)
	r.Post("/webhook", h.ServeWebhook)
	r.Get("/", h.ServeList)
	return r
}
