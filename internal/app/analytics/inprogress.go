// internal/app/analytics/inprogress.go
package analytics

import (
	"sort"
	"time"

	"github.com/dalemusser/agenseek/internal/domain/models"
)

// InProgressGuide is a started but unfinished guide.
type InProgressGuide struct {
	Guide            models.Guide `json:"guide"`
	ProgressPercent  int          `json:"progress_percent"`
	TimeSpentSeconds int64        `json:"time_spent_seconds"`
	LastReadAt       time.Time    `json:"last_read_at"`
}

// GuideLookup resolves catalog guides by ID.
type GuideLookup interface {
	Get(id string) (models.Guide, error)
}

// InProgress lists unfinished guides with some progress, most recently read
// first. Records for guides missing from the catalog are skipped.
func InProgress(records []models.GuideProgress, guides GuideLookup, limit int) []InProgressGuide {
	out := []InProgressGuide{}
	for _, r := range records {
		if r.Completed || r.ProgressPercent <= 0 {
			continue
		}
		g, err := guides.Get(r.GuideID)
		if err != nil {
			continue
		}
		out = append(out, InProgressGuide{
			Guide:            g,
			ProgressPercent:  r.ProgressPercent,
			TimeSpentSeconds: r.TimeSpentSeconds,
			LastReadAt:       r.LastReadAt,
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].LastReadAt.After(out[j].LastReadAt)
	})

	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}
