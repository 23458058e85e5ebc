// internal/app/features/login/routes.go
package login

import "github.com/go-chi/chi/v5"

// LoginRoutes is mounted at /login.
func LoginRoutes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Post("/", h.HandleLogin)
	return r
}

// RegisterRoutes is mounted at /register.
func RegisterRoutes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Post("/", h.HandleRegister)
	return r
}
