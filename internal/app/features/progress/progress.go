// internal/app/features/progress/progress.go
package progress

import (
	"net/http"
	"time"

	"github.com/dalemusser/agenseek/internal/app/achievements"
	"github.com/dalemusser/agenseek/internal/app/analytics"
	"github.com/dalemusser/agenseek/internal/app/features/shared"
	"github.com/dalemusser/agenseek/internal/app/system/authz"
	"github.com/dalemusser/agenseek/internal/app/system/respond"
	"github.com/dalemusser/agenseek/internal/app/system/timeouts"
	"golang.org/x/sync/errgroup"
)

type progressResponse struct {
	Path             shared.Path           `json:"path"`
	CurrentStreak    int                   `json:"current_streak"`
	LongestStreak    int                   `json:"longest_streak"`
	TimeSpentSeconds int64                 `json:"time_spent_seconds"`
	TimeSpentMinutes int                   `json:"time_spent_minutes"`
	NotesCreated     int64                 `json:"notes_created"`
	TasksCompleted   int64                 `json:"tasks_completed"`
	Achievements     []achievements.Status `json:"achievements"`
}

// ServeProgress handles GET /progress.
func (h *Handler) ServeProgress(w http.ResponseWriter, r *http.Request) {
	_, _, uid, _ := authz.UserCtx(r)
	loc := authz.UserLocation(r, h.DefaultLoc)

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "progress page")
	defer cancel()

	var (
		path      shared.Path
		active    []time.Time
		spent     int64
		notes     int64
		tasksDone int64
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		path, err = h.Path.Build(gctx, uid)
		return err
	})
	g.Go(func() (err error) {
		active, err = h.Activity.TimesByUser(gctx, uid, time.Time{})
		return err
	})
	g.Go(func() (err error) {
		spent, err = h.Progress.TotalTimeSpent(gctx, uid)
		return err
	})
	g.Go(func() (err error) {
		notes, err = h.Notes.Count(gctx, uid)
		return err
	})
	g.Go(func() (err error) {
		tasksDone, err = h.Tasks.CountDone(gctx, uid)
		return err
	})
	if err := g.Wait(); err != nil {
		h.ErrLog.LogServerError(w, r, "progress load failed", err, "")
		return
	}

	current := analytics.LoginStreak(active, h.now(), loc)
	longest := analytics.LongestStreak(active, loc)

	respond.OK(w, progressResponse{
		Path:             path,
		CurrentStreak:    current,
		LongestStreak:    longest,
		TimeSpentSeconds: spent,
		TimeSpentMinutes: int(spent / 60),
		NotesCreated:     notes,
		TasksCompleted:   tasksDone,
		Achievements: achievements.Evaluate(achievements.Stats{
			GuidesCompleted: len(path.Completed),
			CoreComplete:    path.Progress.Core.IsComplete(),
			CurrentStreak:   current,
			LongestStreak:   longest,
			NotesCreated:    int(notes),
			TasksCompleted:  int(tasksDone),
		}),
	})
}
