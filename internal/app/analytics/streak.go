// internal/app/analytics/streak.go
package analytics

import "time"

// LoginStreak counts consecutive calendar days with activity, walking back
// one day at a time from now's day until a day without activity.
// No activity today means a streak of 0. Timestamps after now count as now.
func LoginStreak(timestamps []time.Time, now time.Time, loc *time.Location) int {
	loc = locOrUTC(loc)

	days := make(map[string]struct{}, len(timestamps))
	for _, ts := range timestamps {
		if ts.After(now) {
			ts = now
		}
		days[dayKey(ts, loc)] = struct{}{}
	}

	streak := 0
	day := startOfDay(now, loc)
	for {
		if _, ok := days[dayKey(day, loc)]; !ok {
			return streak
		}
		streak++
		day = day.AddDate(0, 0, -1)
	}
}

// LongestStreak returns the longest run of consecutive active days.
func LongestStreak(timestamps []time.Time, loc *time.Location) int {
	loc = locOrUTC(loc)

	days := make(map[string]time.Time, len(timestamps))
	for _, ts := range timestamps {
		d := startOfDay(ts, loc)
		days[dayKey(d, loc)] = d
	}

	longest := 0
	for _, d := range days {
		// Only start counting at the first day of a run.
		if _, ok := days[dayKey(d.AddDate(0, 0, -1), loc)]; ok {
			continue
		}
		n := 0
		for cur := d; ; cur = cur.AddDate(0, 0, 1) {
			if _, ok := days[dayKey(cur, loc)]; !ok {
				break
			}
			n++
		}
		if n > longest {
			longest = n
		}
	}
	return longest
}
