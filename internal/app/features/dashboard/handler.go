// internal/app/features/dashboard/handler.go
package dashboard

import (
	"time"

	"github.com/dalemusser/agenseek/internal/app/catalog"
	uierrors "github.com/dalemusser/agenseek/internal/app/features/errors"
	"github.com/dalemusser/agenseek/internal/app/features/shared"
	"github.com/dalemusser/agenseek/internal/app/store/activity"
	notestore "github.com/dalemusser/agenseek/internal/app/store/notes"
	progressstore "github.com/dalemusser/agenseek/internal/app/store/progress"
	taskstore "github.com/dalemusser/agenseek/internal/app/store/tasks"
	"github.com/dalemusser/agenseek/internal/app/system/metrics"
	"go.uber.org/zap"
)

// Limits caps the list panels of the dashboard.
type Limits struct {
	InProgress int
	Popular    int
	Feed       int
}

// DefaultLimits are used for zero fields of the configured limits.
var DefaultLimits = Limits{InProgress: 3, Popular: 5, Feed: 20}

type Handler struct {
	Catalog    *catalog.Catalog
	Path       *shared.PathBuilder
	Progress   *progressstore.Store
	Activity   *activity.Store
	Notes      *notestore.Store
	Tasks      *taskstore.Store
	Metrics    *metrics.Metrics
	Limits     Limits
	DefaultLoc *time.Location
	ErrLog     *uierrors.ErrorLogger
	Log        *zap.Logger

	now func() time.Time
}

func NewHandler(cat *catalog.Catalog, path *shared.PathBuilder, progress *progressstore.Store,
	act *activity.Store, notes *notestore.Store, tasks *taskstore.Store, m *metrics.Metrics,
	limits Limits, defaultLoc *time.Location, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	if limits.InProgress <= 0 {
		limits.InProgress = DefaultLimits.InProgress
	}
	if limits.Popular <= 0 {
		limits.Popular = DefaultLimits.Popular
	}
	if limits.Feed <= 0 {
		limits.Feed = DefaultLimits.Feed
	}
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
		Metrics:    m,
		Limits:     limits,
		DefaultLoc: defaultLoc,
		ErrLog:     errLog,
		Log:        logger,
		now:        time.Now,
	}
}
