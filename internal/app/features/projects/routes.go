// internal/app/features/projects/routes.go
package projects

import "github.com/go-chi/chi/v5"

// Routes returns the /projects subtree. Authorization happens inside the
// handlers so anonymous callers get JSON errors, not redirects.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Post("/", h.ServeCreate)
	r.Get("/", h.ServeList)
	r.Get("/{projectID}", h.ServeGet)
	r.Put("/{projectID}", h.ServeAdminUpdate)
	return r
}
