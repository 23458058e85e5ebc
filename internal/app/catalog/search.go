// internal/app/catalog/search.go
package catalog

import (
	"strings"

	"github.com/dalemusser/agenseek/internal/domain/models"
	"github.com/sahilm/fuzzy"
)

// SearchResult is a guide ranked by fuzzy score. Higher scores rank first.
type SearchResult struct {
	Guide models.Guide `json:"guide"`
	Score int          `json:"score"`
}

// searchSource exposes the guides' searchable text to the fuzzy matcher.
type searchSource []models.Guide

func (s searchSource) String(i int) string {
	g := s[i]
	return strings.ToLower(g.Title + " " + g.Description + " " + strings.Join(g.Tags, " ") + " " + g.Category)
}

func (s searchSource) Len() int { return len(s) }

// Search ranks guides against a free-text query. An empty query returns
// nothing. At most limit results are returned when limit > 0.
func (c *Catalog) Search(query string, limit int) []SearchResult {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return []SearchResult{}
	}

	matches := fuzzy.FindFrom(q, searchSource(c.guides))
	out := make([]SearchResult, 0, len(matches))
	for _, m := range matches {
		out = append(out, SearchResult{Guide: c.guides[m.Index], Score: m.Score})
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out
}
