// Package analytics assembles the dashboard and progress views from records
// returned by the stores. The functions here do no I/O; handlers fetch the
// records and pass them in together with "now" and the user's location.
package analytics

import "time"

// Rolling window used for "this week" comparisons.
const Week = 7 * 24 * time.Hour

// startOfDay returns local midnight of t's calendar day in loc.
func startOfDay(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}

// dayKey identifies t's calendar day in loc.
func dayKey(t time.Time, loc *time.Location) string {
	return t.In(loc).Format("2006-01-02")
}

// daysAgo counts calendar-day boundaries between t and now in loc.
// Today is 0, yesterday is 1. DST shifts do not affect the count.
func daysAgo(t, now time.Time, loc *time.Location) int {
	a := t.In(loc)
	b := now.In(loc)
	da := time.Date(a.Year(), a.Month(), a.Day(), 0, 0, 0, 0, time.UTC)
	db := time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, time.UTC)
	return int(db.Sub(da).Hours() / 24)
}

func locOrUTC(loc *time.Location) *time.Location {
	if loc == nil {
		return time.UTC
	}
	return loc
}

// inWindow reports whether t is in [start, end).
func inWindow(t, start, end time.Time) bool {
	return !t.Before(start) && t.Before(end)
}
