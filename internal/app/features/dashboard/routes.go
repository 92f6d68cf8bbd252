// internal/app/features/dashboard/routes.go
package dashboard

import "github.com/go-chi/chi/v5"

// Routes returns the admin dashboard subtree, mounted at /dashboard. The
// handler gates on the admin role itself, so the mount point needs no
// role middleware of its own.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.ServeDashboard)
	return r
}
