// internal/app/features/tasks/tasks.go
package tasks

import (
	"net/http"
	"time"

	uierrors "github.com/dalemusser/agenseek/internal/app/features/errors"
	"github.com/dalemusser/agenseek/internal/app/system/authz"
	"github.com/dalemusser/agenseek/internal/app/system/inputval"
	"github.com/dalemusser/agenseek/internal/app/system/respond"
	"github.com/dalemusser/agenseek/internal/app/system/timeouts"
	"github.com/dalemusser/agenseek/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type taskInput struct {
	Title       string     `json:"title" validate:"required,notblank,max=200" label:"Title"`
	Description string     `json:"description" validate:"max=5000" label:"Description"`
	Status      string     `json:"status" validate:"omitempty,taskstatus" label:"Status"`
	Priority    string     `json:"priority" validate:"omitempty,priority" label:"Priority"`
	GuideID     string     `json:"guide_id" validate:"max=100" label:"Guide"`
	DueDate     *time.Time `json:"due_date"`
}

type moveInput struct {
	Status   string `json:"status" validate:"required,taskstatus" label:"Status"`
	Position int    `json:"position" validate:"gte=0" label:"Position"`
}

func (in taskInput) task(userID primitive.ObjectID) models.Task {
	return models.Task{
		UserID:      userID,
		Title:       in.Title,
		Description: in.Description,
		Status:      in.Status,
		Priority:    in.Priority,
		GuideID:     in.GuideID,
		DueDate:     in.DueDate,
	}
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := respond.Decode(w, r, v); err != nil {
		respond.Error(w, http.StatusBadRequest, err.Error())
		return false
	}
	if res := inputval.Validate(v); res.HasErrors() {
		uierrors.Invalid(w, res)
		return false
	}
	return true
}

func (h *Handler) decodeTask(w http.ResponseWriter, r *http.Request) (taskInput, bool) {
	var in taskInput
	if !h.decode(w, r, &in) {
		return in, false
	}
	if in.GuideID != "" && !h.Catalog.Has(in.GuideID) {
		respond.Error(w, http.StatusBadRequest, "Unknown guide.")
		return in, false
	}
	return in, true
}

// ServeBoard handles GET /tasks.
func (h *Handler) ServeBoard(w http.ResponseWriter, r *http.Request) {
	_, _, uid, _ := authz.UserCtx(r)

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "task board")
	defer cancel()

	board, err := h.Tasks.Board(ctx, uid)
	if h.failed(w, r, err, "load task board failed") {
		return
	}
	respond.OK(w, map[string]any{"columns": board})
}

// HandleCreate handles POST /tasks. New cards go to the end of their column.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	_, _, uid, _ := authz.UserCtx(r)
	in, ok := h.decodeTask(w, r)
	if !ok {
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "create task")
	defer cancel()

	t, err := h.Tasks.Create(ctx, in.task(uid))
	if h.failed(w, r, err, "create task failed") {
		return
	}

	meta := map[string]string{"title": t.Title}
	h.Tracker.Record(ctx, uid, models.ActivityTaskCreate, t.ID.Hex(), meta)
	if t.Status == models.TaskDone {
		h.Tracker.Record(ctx, uid, models.ActivityTaskComplete, t.ID.Hex(), meta)
	}
	respond.JSON(w, http.StatusCreated, t)
}

// HandleUpdate handles PUT /tasks/{taskID}. Status in the body is ignored;
// columns change through move.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	_, _, uid, _ := authz.UserCtx(r)
	id, ok := taskID(w, r)
	if !ok {
		return
	}
	in, ok := h.decodeTask(w, r)
	if !ok {
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "update task")
	defer cancel()

	t := in.task(uid)
	t.ID = id
	updated, err := h.Tasks.Update(ctx, uid, t)
	if h.failed(w, r, err, "update task failed") {
		return
	}
	respond.OK(w, updated)
}

// HandleMove handles POST /tasks/{taskID}/move.
func (h *Handler) HandleMove(w http.ResponseWriter, r *http.Request) {
	_, _, uid, _ := authz.UserCtx(r)
	id, ok := taskID(w, r)
	if !ok {
		return
	}
	var in moveInput
	if !h.decode(w, r, &in) {
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "move task")
	defer cancel()

	t, entered, err := h.Tasks.Move(ctx, uid, id, in.Status, in.Position)
	if h.failed(w, r, err, "move task failed") {
		return
	}
	if entered {
		h.Tracker.Record(ctx, uid, models.ActivityTaskComplete, t.ID.Hex(), map[string]string{"title": t.Title})
		h.Log.Debug("task completed", zap.String("user_id", uid.Hex()), zap.String("task_id", t.ID.Hex()))
	}
	respond.OK(w, t)
}

// HandleDelete handles DELETE /tasks/{taskID}.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	_, _, uid, _ := authz.UserCtx(r)
	id, ok := taskID(w, r)
	if !ok {
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "delete task")
	defer cancel()

	if h.failed(w, r, h.Tasks.Delete(ctx, uid, id), "delete task failed") {
		return
	}
	respond.NoContent(w)
}
