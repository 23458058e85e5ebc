// internal/app/features/guides/handler.go
package guides

import (
	"github.com/dalemusser/agenseek/internal/app/catalog"
	uierrors "github.com/dalemusser/agenseek/internal/app/features/errors"
	"github.com/dalemusser/agenseek/internal/app/features/shared"
	progressstore "github.com/dalemusser/agenseek/internal/app/store/progress"
	"go.uber.org/zap"
)

// Handler serves the guide catalog and the signed-in user's reading
// progress through it.
type Handler struct {
	Catalog  *catalog.Catalog
	Path     *shared.PathBuilder
	Progress *progressstore.Store
	Tracker  *shared.Tracker
	ErrLog   *uierrors.ErrorLogger
	Log      *zap.Logger
}

func NewHandler(cat *catalog.Catalog, path *shared.PathBuilder, progress *progressstore.Store,
	tracker *shared.Tracker, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		Catalog:  cat,
		Path:     path,
		Progress: progress,
		Tracker:  tracker,
		ErrLog:   errLog,
		Log:      logger,
	}
}
