// internal/app/analytics/trends.go
package analytics

import (
	"math"
	"time"

	"github.com/dalemusser/agenseek/internal/domain/models"
)

// Trend is the week-over-week change in percent. Going from zero to any
// positive value counts as +100; zero to zero is 0.
func Trend(current, previous int) int {
	if previous == 0 {
		if current > 0 {
			return 100
		}
		return 0
	}
	return int(math.Round(float64(current-previous) / float64(previous) * 100))
}

// Metric is one weekly statistic with its previous-week value.
type Metric struct {
	Current  int `json:"current"`
	Previous int `json:"previous"`
	Trend    int `json:"trend"`
}

func newMetric(current, previous int) Metric {
	return Metric{Current: current, Previous: previous, Trend: Trend(current, previous)}
}

// WeeklyStats compares the last 7 days with the 7 days before them.
type WeeklyStats struct {
	ReadingMinutes  Metric `json:"reading_minutes"`
	GuidesCompleted Metric `json:"guides_completed"`
	Notes           Metric `json:"notes"`
	Tasks           Metric `json:"tasks"`
	Streak          Metric `json:"streak"`
}

// WeeklyInput is everything WeeklyStats needs from the stores.
type WeeklyInput struct {
	Progress      []models.GuideProgress
	NoteCreatedAt []time.Time
	TaskCreatedAt []time.Time
	ActivityTimes []time.Time
}

// ComputeWeeklyStats builds the five dashboard metrics. Reading time counts
// the time spent on guides last read inside each window.
func ComputeWeeklyStats(in WeeklyInput, now time.Time, loc *time.Location) WeeklyStats {
	thisStart := now.Add(-Week)
	lastStart := now.Add(-2 * Week)

	var readThis, readLast int64
	var doneThis, doneLast int
	for _, p := range in.Progress {
		switch {
		case inWindow(p.LastReadAt, thisStart, now):
			readThis += p.TimeSpentSeconds
		case inWindow(p.LastReadAt, lastStart, thisStart):
			readLast += p.TimeSpentSeconds
		}
		if p.Completed && p.CompletedAt != nil {
			switch {
			case inWindow(*p.CompletedAt, thisStart, now):
				doneThis++
			case inWindow(*p.CompletedAt, lastStart, thisStart):
				doneLast++
			}
		}
	}

	notesThis, notesLast := countWindows(in.NoteCreatedAt, lastStart, thisStart, now)
	tasksThis, tasksLast := countWindows(in.TaskCreatedAt, lastStart, thisStart, now)

	return WeeklyStats{
		ReadingMinutes:  newMetric(secondsToMinutes(readThis), secondsToMinutes(readLast)),
		GuidesCompleted: newMetric(doneThis, doneLast),
		Notes:           newMetric(notesThis, notesLast),
		Tasks:           newMetric(tasksThis, tasksLast),
		Streak: newMetric(
			LoginStreak(in.ActivityTimes, now, loc),
			LoginStreak(notAfter(in.ActivityTimes, thisStart), thisStart, loc),
		),
	}
}

// notAfter returns the timestamps at or before t.
func notAfter(ts []time.Time, t time.Time) []time.Time {
	out := make([]time.Time, 0, len(ts))
	for _, x := range ts {
		if !x.After(t) {
			out = append(out, x)
		}
	}
	return out
}

func countWindows(ts []time.Time, lastStart, thisStart, now time.Time) (this, last int) {
	for _, t := range ts {
		switch {
		case inWindow(t, thisStart, now):
			this++
		case inWindow(t, lastStart, thisStart):
			last++
		}
	}
	return this, last
}

func secondsToMinutes(s int64) int {
	return int(math.Round(float64(s) / 60))
}
