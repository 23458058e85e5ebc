// internal/app/analytics/popular.go
package analytics

import (
	"sort"
	"time"

	"github.com/dalemusser/agenseek/internal/domain/models"
)

// PopularGuide is a guide with its view counts for this week and last week.
type PopularGuide struct {
	Guide         models.Guide `json:"guide"`
	Views         int          `json:"views"`
	PreviousViews int          `json:"previous_views"`
	Trending      bool         `json:"trending"`
}

// PopularThisWeek counts guide_view events over the last 7 days and the 7
// days before. Guides without views this week are left out. Ties break on
// guide ID so the order is stable.
func PopularThisWeek(events []models.Activity, guides GuideLookup, now time.Time, limit int) []PopularGuide {
	thisStart := now.Add(-Week)
	lastStart := now.Add(-2 * Week)

	current := map[string]int{}
	previous := map[string]int{}
	for _, e := range events {
		if e.ActivityType != models.ActivityGuideView || e.TargetID == "" {
			continue
		}
		switch {
		case inWindow(e.CreatedAt, thisStart, now):
			current[e.TargetID]++
		case inWindow(e.CreatedAt, lastStart, thisStart):
			previous[e.TargetID]++
		}
	}

	out := []PopularGuide{}
	for id, views := range current {
		g, err := guides.Get(id)
		if err != nil {
			continue
		}
		out = append(out, PopularGuide{
			Guide:         g,
			Views:         views,
			PreviousViews: previous[id],
			Trending:      views > previous[id],
		})
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Views != out[j].Views {
			return out[i].Views > out[j].Views
		}
		return out[i].Guide.ID < out[j].Guide.ID
	})

	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}
