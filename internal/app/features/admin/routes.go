// internal/app/features/admin/routes.go
package admin

import (
	"github.com/dalemusser/agenseek/internal/app/system/auth"
	"github.com/dalemusser/agenseek/internal/domain/models"
	"github.com/go-chi/chi/v5"
)

// Routes mounts the admin endpoints, typically at "/admin".
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)
		pr.Use(sm.RequireRole(models.RoleAdmin))

		pr.Get("/stats", h.ServeStats)
		pr.Get("/users", h.ServeUsers)
		pr.Get("/users.csv", h.ServeUsersCSV)
		pr.Put("/users/{userID}/role", h.HandleRole)
		pr.Put("/users/{userID}/status", h.HandleStatus)
	})

	return r
}
