// internal/app/features/guides/detail.go
package guides

import (
	"errors"
	"net/http"

	"github.com/dalemusser/agenseek/internal/app/catalog"
	uierrors "github.com/dalemusser/agenseek/internal/app/features/errors"
	progressstore "github.com/dalemusser/agenseek/internal/app/store/progress"
	"github.com/dalemusser/agenseek/internal/app/system/authz"
	"github.com/dalemusser/agenseek/internal/app/system/inputval"
	"github.com/dalemusser/agenseek/internal/app/system/respond"
	"github.com/dalemusser/agenseek/internal/app/system/timeouts"
	"github.com/dalemusser/agenseek/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type detailResponse struct {
	Guide    models.Guide         `json:"guide"`
	Bucket   string               `json:"bucket"`
	Progress models.GuideProgress `json:"progress"`
}

type progressInput struct {
	ProgressPercent  int   `json:"progress_percent" validate:"gte=0,lte=100" label:"Progress"`
	TimeSpentSeconds int64 `json:"time_spent_seconds" validate:"gte=0,lte=86400" label:"Time spent"`
}

func (h *Handler) guide(w http.ResponseWriter, r *http.Request) (models.Guide, bool) {
	g, err := h.Catalog.Get(chi.URLParam(r, "guideID"))
	if errors.Is(err, catalog.ErrNotFound) {
		respond.Error(w, http.StatusNotFound, "Guide not found.")
		return models.Guide{}, false
	}
	if err != nil {
		h.ErrLog.LogServerError(w, r, "load guide failed", err, "")
		return models.Guide{}, false
	}
	return g, true
}

// ServeDetail handles GET /guides/{guideID}. Each successful call is logged
// as a guide view, which feeds the popular-guides panel.
func (h *Handler) ServeDetail(w http.ResponseWriter, r *http.Request) {
	_, _, uid, _ := authz.UserCtx(r)
	g, ok := h.guide(w, r)
	if !ok {
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "guide detail")
	defer cancel()

	p, err := h.Progress.Get(ctx, uid, g.ID)
	if err != nil && !errors.Is(err, progressstore.ErrNotFound) {
		h.ErrLog.LogServerError(w, r, "load progress failed", err, "")
		return
	}
	p.GuideID = g.ID

	buckets, err := h.Path.Classify(ctx, uid)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "load profile failed", err, "")
		return
	}

	h.Tracker.Record(ctx, uid, models.ActivityGuideView, g.ID, map[string]string{"title": g.Title})
	respond.OK(w, detailResponse{Guide: g, Bucket: buckets.BucketOf(g.ID), Progress: p})
}

// HandleProgress handles PUT /guides/{guideID}/progress.
func (h *Handler) HandleProgress(w http.ResponseWriter, r *http.Request) {
	_, _, uid, _ := authz.UserCtx(r)
	g, ok := h.guide(w, r)
	if !ok {
		return
	}

	var in progressInput
	if err := respond.Decode(w, r, &in); err != nil {
		respond.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	if res := inputval.Validate(in); res.HasErrors() {
		uierrors.Invalid(w, res)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "update progress")
	defer cancel()

	p, completedNow, err := h.Progress.Update(ctx, uid, g.ID, in.ProgressPercent, in.TimeSpentSeconds)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "update progress failed", err, "")
		return
	}
	if completedNow {
		h.completed(r, g)
	}
	respond.OK(w, p)
}

// HandleComplete handles POST /guides/{guideID}/complete. Completing an
// already completed guide is a no-op.
func (h *Handler) HandleComplete(w http.ResponseWriter, r *http.Request) {
	_, _, uid, _ := authz.UserCtx(r)
	g, ok := h.guide(w, r)
	if !ok {
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "complete guide")
	defer cancel()

	p, completedNow, err := h.Progress.MarkComplete(ctx, uid, g.ID)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "complete guide failed", err, "")
		return
	}
	if completedNow {
		h.completed(r, g)
	}
	respond.OK(w, p)
}

func (h *Handler) completed(r *http.Request, g models.Guide) {
	_, _, uid, _ := authz.UserCtx(r)
	h.Tracker.Record(r.Context(), uid, models.ActivityGuideComplete, g.ID, map[string]string{"title": g.Title})
	h.Log.Info("guide completed", zap.String("user_id", uid.Hex()), zap.String("guide_id", g.ID))
}
