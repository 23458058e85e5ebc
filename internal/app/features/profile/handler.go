// internal/app/features/profile/handler.go
package profile

import (
	uierrors "github.com/dalemusser/agenseek/internal/app/features/errors"
	profilestore "github.com/dalemusser/agenseek/internal/app/store/profiles"
	userstore "github.com/dalemusser/agenseek/internal/app/store/users"
	"github.com/dalemusser/agenseek/internal/app/system/auth"
	"go.uber.org/zap"
)

// Handler serves the signed-in user's own profile and password.
type Handler struct {
	Users         *userstore.Store
	Profiles      *profilestore.Store
	SessionMgr    *auth.SessionManager
	ErrLog        *uierrors.ErrorLogger
	Log           *zap.Logger
	AvatarBaseURL string
	DefaultTZ     string
}

func NewHandler(users *userstore.Store, profiles *profilestore.Store, sm *auth.SessionManager,
	errLog *uierrors.ErrorLogger, avatarBaseURL, defaultTZ string, logger *zap.Logger) *Handler {
	return &Handler{
		Users:         users,
		Profiles:      profiles,
		SessionMgr:    sm,
		ErrLog:        errLog,
		Log:           logger,
		AvatarBaseURL: avatarBaseURL,
		DefaultTZ:     defaultTZ,
	}
}
