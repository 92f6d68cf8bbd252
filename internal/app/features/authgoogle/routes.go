// internal/app/features/authgoogle/routes.go
package authgoogle

import (
	"github.com/dalemusser/launchdesk/internal/app/system/ratelimit"
	"github.com/go-chi/chi/v5"
)

// Routes returns a subrouter for Google OAuth endpoints, throttled per
// client IP. Mounted under /auth/google.
func Routes(h *Handler, limiter *ratelimit.Limiter) chi.Router {
	r := chi.NewRouter()
	if limiter != nil {
		r.Use(limiter.Middleware)
	}
	r.Get("/", h.ServeLogin)
	r.Get("/callback", h.ServeCallback)
	return r
}
