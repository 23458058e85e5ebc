// internal/app/features/notes/routes.go
package notes

import (
	"github.com/dalemusser/agenseek/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()
	r.Use(sm.RequireSignedIn)

	r.Get("/", h.ServeList)
	r.Post("/", h.HandleCreate)
	r.Get("/tags", h.ServeTags)

	r.Get("/{noteID}", h.ServeNote)
	r.Put("/{noteID}", h.HandleUpdate)
	r.Delete("/{noteID}", h.HandleDelete)
	return r
}
