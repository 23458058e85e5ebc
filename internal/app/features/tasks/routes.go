// internal/app/features/tasks/routes.go
package tasks

import (
	"github.com/dalemusser/agenseek/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()
	r.Use(sm.RequireSignedIn)

	r.Get("/", h.ServeBoard)
	r.Post("/", h.HandleCreate)
	r.Put("/{taskID}", h.HandleUpdate)
	r.Delete("/{taskID}", h.HandleDelete)
	r.Post("/{taskID}/move", h.HandleMove)
	return r
}
