// internal/app/features/progress/handler.go
package progress

import (
	"time"

	"github.com/dalemusser/agenseek/internal/app/catalog"
	uierrors "github.com/dalemusser/agenseek/internal/app/features/errors"
	"github.com/dalemusser/agenseek/internal/app/features/shared"
	"github.com/dalemusser/agenseek/internal/app/store/activity"
	notestore "github.com/dalemusser/agenseek/internal/app/store/notes"
	progressstore "github.com/dalemusser/agenseek/internal/app/store/progress"
	taskstore "github.com/dalemusser/agenseek/internal/app/store/tasks"
	"go.uber.org/zap"
)

// Handler serves the progress page and the progress export.
type Handler struct {
	Catalog    *catalog.Catalog
	Path       *shared.PathBuilder
	Progress   *progressstore.Store
	Activity   *activity.Store
	Notes      *notestore.Store
	Tasks      *taskstore.Store
	DefaultLoc *time.Location
	ErrLog     *uierrors.ErrorLogger
	Log        *zap.Logger

	now func() time.Time
}

func NewHandler(cat *catalog.Catalog, path *shared.PathBuilder, progress *progressstore.Store,
	act *activity.Store, notes *notestore.Store, tasks *taskstore.Store,
	defaultLoc *time.Location, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	if defaultLoc == nil {
		defaultLoc = time.UTC
	}
	return &Handler{
		Catalog:    cat,
		Path:       path,
		Progress:   progress,
		Activity:   act,
		Notes:      notes,
		Tasks:      tasks,
		DefaultLoc: defaultLoc,
		ErrLog:     errLog,
		Log:        logger,
		now:        time.Now,
	}
}
