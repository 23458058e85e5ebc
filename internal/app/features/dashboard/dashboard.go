// internal/app/features/dashboard/dashboard.go
package dashboard

import (
	"net/http"
	"time"

	"github.com/dalemusser/agenseek/internal/app/analytics"
	"github.com/dalemusser/agenseek/internal/app/features/shared"
	"github.com/dalemusser/agenseek/internal/app/system/authz"
	"github.com/dalemusser/agenseek/internal/app/system/respond"
	"github.com/dalemusser/agenseek/internal/app/system/timeouts"
	"github.com/dalemusser/agenseek/internal/domain/models"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type dashboardResponse struct {
	InProgress []analytics.InProgressGuide `json:"in_progress"`
	Popular    []analytics.PopularGuide    `json:"popular"`
	Feed       analytics.Feed              `json:"feed"`
	Weekly     analytics.WeeklyStats       `json:"weekly"`
	Path       shared.Path                 `json:"path"`
	TimeZone   string                      `json:"time_zone"`
}

// ServeDashboard handles GET /dashboard. The store reads run concurrently;
// the first failure cancels the rest and fails the request.
func (h *Handler) ServeDashboard(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	_, _, uid, _ := authz.UserCtx(r)
	loc := authz.UserLocation(r, h.DefaultLoc)
	now := h.now()
	twoWeeks := now.Add(-2 * analytics.Week)

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "dashboard")
	defer cancel()

	var (
		records  []models.GuideProgress
		recent   []models.GuideProgress
		views    []models.Activity
		feed     []models.Activity
		noteTS   []time.Time
		taskTS   []time.Time
		activeTS []time.Time
		path     shared.Path
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		records, err = h.Progress.ListByUser(gctx, uid)
		return err
	})
	g.Go(func() (err error) {
		recent, err = h.Progress.ListReadSince(gctx, uid, twoWeeks)
		return err
	})
	g.Go(func() (err error) {
		views, err = h.Activity.ListByTypeSince(gctx, models.ActivityGuideView, twoWeeks)
		return err
	})
	g.Go(func() (err error) {
		feed, err = h.Activity.ListByUser(gctx, uid, int64(h.Limits.Feed))
		return err
	})
	g.Go(func() (err error) {
		noteTS, err = h.Notes.CreatedTimesSince(gctx, uid, twoWeeks)
		return err
	})
	g.Go(func() (err error) {
		taskTS, err = h.Tasks.CreatedTimesSince(gctx, uid, twoWeeks)
		return err
	})
	g.Go(func() (err error) {
		// Streaks can run back past the two-week window.
		activeTS, err = h.Activity.TimesByUser(gctx, uid, time.Time{})
		return err
	})
	g.Go(func() (err error) {
		path, err = h.Path.Build(gctx, uid)
		return err
	})
	if err := g.Wait(); err != nil {
		h.Metrics.StoreError("dashboard")
		h.ErrLog.LogServerError(w, r, "dashboard load failed", err, "")
		return
	}

	resp := dashboardResponse{
		InProgress: analytics.InProgress(records, h.Catalog, h.Limits.InProgress),
		Popular:    analytics.PopularThisWeek(views, h.Catalog, now, h.Limits.Popular),
		Feed:       analytics.GroupFeed(feed, now, loc),
		Weekly: analytics.ComputeWeeklyStats(analytics.WeeklyInput{
			Progress:      recent,
			NoteCreatedAt: noteTS,
			TaskCreatedAt: taskTS,
			ActivityTimes: activeTS,
		}, now, loc),
		Path:     path,
		TimeZone: loc.String(),
	}

	h.Metrics.ObserveDashboard(time.Since(start))
	h.Log.Debug("dashboard served", zap.String("user_id", uid.Hex()), zap.Int("feed", resp.Feed.Len()))
	respond.OK(w, resp)
}
