// internal/app/analytics/feed.go
package analytics

import (
	"sort"
	"time"

	"github.com/dalemusser/agenseek/internal/domain/models"
)

// Feed groups activity by calendar day relative to now.
type Feed struct {
	Today     []models.Activity `json:"today"`
	Yesterday []models.Activity `json:"yesterday"`
	ThisWeek  []models.Activity `json:"this_week"`
	Earlier   []models.Activity `json:"earlier"`
}

// Len is the number of activities across all groups.
func (f Feed) Len() int {
	return len(f.Today) + len(f.Yesterday) + len(f.ThisWeek) + len(f.Earlier)
}

// GroupFeed buckets activities by calendar day in loc: today, yesterday,
// this week (2 to 6 days ago) and earlier. Each group is newest first.
// Activities dated after now count as today.
func GroupFeed(events []models.Activity, now time.Time, loc *time.Location) Feed {
	loc = locOrUTC(loc)

	sorted := make([]models.Activity, len(events))
	copy(sorted, events)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].CreatedAt.After(sorted[j].CreatedAt)
	})

	f := Feed{
		Today:     []models.Activity{},
		Yesterday: []models.Activity{},
		ThisWeek:  []models.Activity{},
		Earlier:   []models.Activity{},
	}
	for _, e := range sorted {
		switch d := daysAgo(e.CreatedAt, now, loc); {
		case d <= 0:
			f.Today = append(f.Today, e)
		case d == 1:
			f.Yesterday = append(f.Yesterday, e)
		case d < 7:
			f.ThisWeek = append(f.ThisWeek, e)
		default:
			f.Earlier = append(f.Earlier, e)
		}
	}
	return f
}
