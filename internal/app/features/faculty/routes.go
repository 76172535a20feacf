// internal/app/features/faculty/routes.go
package faculty

import (
	"github.com/bmsit/facultymeet/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes mounts all Faculty routes under the base path
// (typically "/faculty" from bootstrap).
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()

	// Any signed-in faculty member can browse the directory and register
	// their own device token.
	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)

		pr.Get("/", h.ServeList)
		pr.Get("/designations", h.ServeDesignations)
		pr.Get("/{id}", h.ServeView)
		pr.Post("/token", h.HandleRegisterToken)
	})

	// Record management is admin-only.
	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)
		pr.Use(sm.RequireDesignation("ADMIN"))

		pr.Post("/", h.HandleCreate)
		pr.Put("/{id}", h.HandleEdit)
		pr.Delete("/{id}", h.HandleDelete)
	})

	return r
}
