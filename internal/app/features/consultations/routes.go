// internal/app/features/consultations/routes.go
package consultations

import "github.com/go-chi/chi/v5"

// Routes returns the /consultations subtree.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Post("/", h.ServeCreate)
	r.Get("/", h.ServeList)
	r.Get("/{consultationID}", h.ServeGet)
	r.Post("/{consultationID}/messages", h.ServeAppendMessage)
	r.Put("/{consultationID}/recommendations", h.ServeSetRecommendations)
	return r
}
