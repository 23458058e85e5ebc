// internal/app/features/guides/routes.go
package guides

import (
	"github.com/dalemusser/agenseek/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes mounts the guide endpoints under /guides. Static paths are
// registered before {guideID} so "search" and "path" are never read as IDs.
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()
	r.Use(sm.RequireSignedIn)

	r.Get("/", h.ServeList)
	r.Get("/search", h.ServeSearch)
	r.Get("/path", h.ServePath)

	r.Get("/{guideID}", h.ServeDetail)
	r.Put("/{guideID}/progress", h.HandleProgress)
	r.Post("/{guideID}/complete", h.HandleComplete)
	return r
}
