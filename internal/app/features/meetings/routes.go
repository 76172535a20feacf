// internal/app/features/meetings/routes.go
package meetings

import (
	"github.com/bmsit/facultymeet/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes mounts all Meeting routes under the base path
// (typically "/meetings" from bootstrap).
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()

	// Read and availability routes - any signed-in faculty member
	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)

		pr.Get("/", h.ServeList)
		pr.Get("/{id}", h.ServeView)
		pr.Post("/availability", h.HandleAvailability)
	})

	// Scheduling routes - HODs, deans and admins only
	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)
		pr.Use(sm.RequireDesignation("HOD", "DEAN", "ADMIN"))

		pr.Post("/", h.HandleCreate)
		pr.Put("/{id}", h.HandleEdit)
		pr.Post("/{id}/cancel", h.HandleCancel)
	})

	return r
}
