// internal/app/features/notes/handler.go
package notes

import (
	"net/http"

	"github.com/dalemusser/agenseek/internal/app/catalog"
	uierrors "github.com/dalemusser/agenseek/internal/app/features/errors"
	"github.com/dalemusser/agenseek/internal/app/features/shared"
	notestore "github.com/dalemusser/agenseek/internal/app/store/notes"
	"github.com/dalemusser/agenseek/internal/app/system/respond"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type Handler struct {
	Notes   *notestore.Store
	Catalog *catalog.Catalog
	Tracker *shared.Tracker
	ErrLog  *uierrors.ErrorLogger
	Log     *zap.Logger
}

func NewHandler(notes *notestore.Store, cat *catalog.Catalog, tracker *shared.Tracker,
	errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		Notes:   notes,
		Catalog: cat,
		Tracker: tracker,
		ErrLog:  errLog,
		Log:     logger,
	}
}

// noteID parses {noteID}. A malformed ID answers 404 like a missing note.
func noteID(w http.ResponseWriter, r *http.Request) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "noteID"))
	if err != nil {
		respond.Error(w, http.StatusNotFound, "Note not found.")
		return primitive.NilObjectID, false
	}
	return id, true
}
