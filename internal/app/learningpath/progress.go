// internal/app/learningpath/progress.go
package learningpath

import (
	"math"

	"github.com/dalemusser/agenseek/internal/domain/models"
)

// CompletionSet is the set of guide IDs a user has finished.
type CompletionSet map[string]struct{}

// NewCompletionSet builds a set from guide IDs.
func NewCompletionSet(ids ...string) CompletionSet {
	s := make(CompletionSet, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

// Has reports whether id is in the set. A nil set is empty.
func (s CompletionSet) Has(id string) bool {
	_, ok := s[id]
	return ok
}

// CategoryProgress is the completion rollup of one bucket.
type CategoryProgress struct {
	Completed  int `json:"completed"`
	Total      int `json:"total"`
	Percentage int `json:"percentage"`
}

// IsComplete reports whether every guide of a non-empty bucket is done.
// An empty bucket is never complete.
func (p CategoryProgress) IsComplete() bool {
	return p.Percentage == 100 && p.Total > 0
}

// Progress is the rollup of all four buckets plus the overall total.
type Progress struct {
	Core        CategoryProgress `json:"core"`
	Recommended CategoryProgress `json:"recommended"`
	Interests   CategoryProgress `json:"interests"`
	Optional    CategoryProgress `json:"optional"`
	Overall     CategoryProgress `json:"overall"`
}

// CategoryProgressOf counts how many of the guides are in the completion set.
func CategoryProgressOf(guides []models.Guide, completed CompletionSet) CategoryProgress {
	done := 0
	for _, g := range guides {
		if completed.Has(g.ID) {
			done++
		}
	}
	return newCategoryProgress(done, len(guides))
}

// AllCategoryProgress applies CategoryProgressOf to each bucket.
func AllCategoryProgress(b Buckets, completed CompletionSet) Progress {
	p := Progress{
		Core:        CategoryProgressOf(b.Core, completed),
		Recommended: CategoryProgressOf(b.Recommended, completed),
		Interests:   CategoryProgressOf(b.Interests, completed),
		Optional:    CategoryProgressOf(b.Optional, completed),
	}
	done := p.Core.Completed + p.Recommended.Completed + p.Interests.Completed + p.Optional.Completed
	total := p.Core.Total + p.Recommended.Total + p.Interests.Total + p.Optional.Total
	p.Overall = newCategoryProgress(done, total)
	return p
}

// Percent is round(part/total*100), or 0 when total is 0.
func Percent(part, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(float64(part) / float64(total) * 100))
}

func newCategoryProgress(done, total int) CategoryProgress {
	return CategoryProgress{
		Completed:  done,
		Total:      total,
		Percentage: Percent(done, total),
	}
}
