// internal/app/features/tasks/handler.go
package tasks

import (
	"errors"
	"net/http"

	"github.com/dalemusser/agenseek/internal/app/catalog"
	uierrors "github.com/dalemusser/agenseek/internal/app/features/errors"
	"github.com/dalemusser/agenseek/internal/app/features/shared"
	taskstore "github.com/dalemusser/agenseek/internal/app/store/tasks"
	"github.com/dalemusser/agenseek/internal/app/system/respond"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Handler serves the learner's kanban board.
type Handler struct {
	Tasks   *taskstore.Store
	Catalog *catalog.Catalog
	Tracker *shared.Tracker
	ErrLog  *uierrors.ErrorLogger
	Log     *zap.Logger
}

func NewHandler(tasks *taskstore.Store, cat *catalog.Catalog, tracker *shared.Tracker,
	errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		Tasks:   tasks,
		Catalog: cat,
		Tracker: tracker,
		ErrLog:  errLog,
		Log:     logger,
	}
}

func taskID(w http.ResponseWriter, r *http.Request) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "taskID"))
	if err != nil {
		respond.Error(w, http.StatusNotFound, "Task not found.")
		return primitive.NilObjectID, false
	}
	return id, true
}

// failed maps store errors to responses and reports whether err was set.
func (h *Handler) failed(w http.ResponseWriter, r *http.Request, err error, msg string) bool {
	switch {
	case err == nil:
		return false
	case errors.Is(err, taskstore.ErrNotFound):
		respond.Error(w, http.StatusNotFound, "Task not found.")
	case errors.Is(err, taskstore.ErrTitleRequired):
		respond.Error(w, http.StatusBadRequest, "Title is required.")
	case errors.Is(err, taskstore.ErrBadStatus):
		respond.Error(w, http.StatusBadRequest, "Unknown status.")
	default:
		h.ErrLog.LogServerError(w, r, msg, err, "")
	}
	return true
}
