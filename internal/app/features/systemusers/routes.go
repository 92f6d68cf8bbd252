// internal/app/features/systemusers/routes.go
package systemusers

import "github.com/go-chi/chi/v5"

// Routes returns the /admin/users subtree. Bootstrap mounts it inside the
// admin group; the handlers still gate so a misplaced mount fails closed.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.ServeList)
	r.Put("/{userID}/role", h.ServeSetRole)
	r.Put("/{userID}/status", h.ServeSetStatus)
	return r
}
