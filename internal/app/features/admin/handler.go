// internal/app/features/admin/handler.go
package admin

import (
	"time"

	uierrors "github.com/dalemusser/agenseek/internal/app/features/errors"
	profilestore "github.com/dalemusser/agenseek/internal/app/store/profiles"
	progressstore "github.com/dalemusser/agenseek/internal/app/store/progress"
	userstore "github.com/dalemusser/agenseek/internal/app/store/users"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler serves the admin endpoints: platform counts and account
// management.
type Handler struct {
	DB       *mongo.Database
	Users    *userstore.Store
	Profiles *profilestore.Store
	Progress *progressstore.Store
	ErrLog   *uierrors.ErrorLogger
	Log      *zap.Logger

	now func() time.Time
}

func NewHandler(db *mongo.Database, users *userstore.Store, profiles *profilestore.Store,
	progress *progressstore.Store, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		DB:       db,
		Users:    users,
		Profiles: profiles,
		Progress: progress,
		ErrLog:   errLog,
		Log:      logger,
		now:      time.Now,
	}
}
