// internal/app/features/progress/routes.go
package progress

import (
	"github.com/dalemusser/agenseek/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes mounts the progress page at "/" and its CSV export.
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()
	r.Use(sm.RequireSignedIn)
	r.Get("/", h.ServeProgress)
	r.Get("/export.csv", h.ServeExport)
	return r
}
