// internal/app/features/profile/routes.go
package profile

import (
	"github.com/dalemusser/agenseek/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes mounts the profile endpoints under /profile.
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()
	r.Use(sm.RequireSignedIn)
	r.Get("/", h.ServeProfile)
	r.Put("/", h.HandleUpdate)
	r.Put("/password", h.HandlePassword)
	r.Get("/timezones", h.ServeTimeZones)
	return r
}
