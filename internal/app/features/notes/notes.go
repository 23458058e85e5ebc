// internal/app/features/notes/notes.go
package notes

import (
	"errors"
	"net/http"

	uierrors "github.com/dalemusser/agenseek/internal/app/features/errors"
	notestore "github.com/dalemusser/agenseek/internal/app/store/notes"
	"github.com/dalemusser/agenseek/internal/app/system/authz"
	"github.com/dalemusser/agenseek/internal/app/system/inputval"
	"github.com/dalemusser/agenseek/internal/app/system/respond"
	"github.com/dalemusser/agenseek/internal/app/system/timeouts"
	"github.com/dalemusser/agenseek/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/query"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type noteInput struct {
	Title   string   `json:"title" validate:"required,notblank,max=200" label:"Title"`
	Content string   `json:"content" validate:"max=100000" label:"Content"`
	Tags    []string `json:"tags" validate:"max=20,dive,max=50" label:"Tags"`
	GuideID string   `json:"guide_id" validate:"max=100" label:"Guide"`
	Pinned  bool     `json:"pinned"`
}

type listResponse struct {
	Notes []models.Note `json:"notes"`
	Total int           `json:"total"`
}

// ServeList handles GET /notes?q=&tag=&guide=.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	_, _, uid, _ := authz.UserCtx(r)

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "list notes")
	defer cancel()

	list, err := h.Notes.List(ctx, uid, notestore.ListFilter{
		Query:   query.Get(r, "q"),
		Tag:     query.Get(r, "tag"),
		GuideID: query.Get(r, "guide"),
	})
	if err != nil {
		h.ErrLog.LogServerError(w, r, "list notes failed", err, "")
		return
	}
	respond.OK(w, listResponse{Notes: list, Total: len(list)})
}

// ServeTags handles GET /notes/tags.
func (h *Handler) ServeTags(w http.ResponseWriter, r *http.Request) {
	_, _, uid, _ := authz.UserCtx(r)

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "note tags")
	defer cancel()

	tags, err := h.Notes.Tags(ctx, uid)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "list note tags failed", err, "")
		return
	}
	respond.OK(w, map[string][]string{"tags": tags})
}

// decode reads and validates a note body. Guide links must name a guide in
// the catalog.
func (h *Handler) decode(w http.ResponseWriter, r *http.Request) (noteInput, bool) {
	var in noteInput
	if err := respond.Decode(w, r, &in); err != nil {
		respond.Error(w, http.StatusBadRequest, err.Error())
		return in, false
	}
	if res := inputval.Validate(in); res.HasErrors() {
		uierrors.Invalid(w, res)
		return in, false
	}
	if in.GuideID != "" && !h.Catalog.Has(in.GuideID) {
		respond.Error(w, http.StatusBadRequest, "Unknown guide.")
		return in, false
	}
	return in, true
}

func (in noteInput) note(userID primitive.ObjectID) models.Note {
	return models.Note{
		UserID:  userID,
		Title:   in.Title,
		Content: in.Content,
		Tags:    in.Tags,
		GuideID: in.GuideID,
		Pinned:  in.Pinned,
	}
}

// HandleCreate handles POST /notes.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	_, _, uid, _ := authz.UserCtx(r)
	in, ok := h.decode(w, r)
	if !ok {
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "create note")
	defer cancel()

	n, err := h.Notes.Create(ctx, in.note(uid))
	if errors.Is(err, notestore.ErrTitleRequired) {
		respond.Error(w, http.StatusBadRequest, "Title is required.")
		return
	}
	if err != nil {
		h.ErrLog.LogServerError(w, r, "create note failed", err, "")
		return
	}

	h.Tracker.Record(ctx, uid, models.ActivityNoteCreate, n.ID.Hex(), map[string]string{"title": n.Title})
	h.Log.Debug("note created", zap.String("user_id", uid.Hex()), zap.String("note_id", n.ID.Hex()))
	respond.JSON(w, http.StatusCreated, n)
}

// ServeNote handles GET /notes/{noteID}.
func (h *Handler) ServeNote(w http.ResponseWriter, r *http.Request) {
	_, _, uid, _ := authz.UserCtx(r)
	id, ok := noteID(w, r)
	if !ok {
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "get note")
	defer cancel()

	n, err := h.Notes.Get(ctx, uid, id)
	if h.failed(w, r, err, "get note failed") {
		return
	}
	respond.OK(w, n)
}

// HandleUpdate handles PUT /notes/{noteID}.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	_, _, uid, _ := authz.UserCtx(r)
	id, ok := noteID(w, r)
	if !ok {
		return
	}
	in, ok := h.decode(w, r)
	if !ok {
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "update note")
	defer cancel()

	n := in.note(uid)
	n.ID = id
	updated, err := h.Notes.Update(ctx, uid, n)
	if h.failed(w, r, err, "update note failed") {
		return
	}
	respond.OK(w, updated)
}

// HandleDelete handles DELETE /notes/{noteID}.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	_, _, uid, _ := authz.UserCtx(r)
	id, ok := noteID(w, r)
	if !ok {
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "delete note")
	defer cancel()

	if h.failed(w, r, h.Notes.Delete(ctx, uid, id), "delete note failed") {
		return
	}
	respond.NoContent(w)
}

// failed writes the response for a store error and reports whether there
// was one. Notes owned by someone else look missing.
func (h *Handler) failed(w http.ResponseWriter, r *http.Request, err error, msg string) bool {
	switch {
	case err == nil:
		return false
	case errors.Is(err, notestore.ErrNotFound):
		respond.Error(w, http.StatusNotFound, "Note not found.")
	case errors.Is(err, notestore.ErrTitleRequired):
		respond.Error(w, http.StatusBadRequest, "Title is required.")
	default:
		h.ErrLog.LogServerError(w, r, msg, err, "")
	}
	return true
}
