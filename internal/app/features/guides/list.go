// internal/app/features/guides/list.go
package guides

import (
	"net/http"
	"strconv"

	"github.com/dalemusser/agenseek/internal/app/catalog"
	"github.com/dalemusser/agenseek/internal/app/system/authz"
	"github.com/dalemusser/agenseek/internal/app/system/normalize"
	"github.com/dalemusser/agenseek/internal/app/system/respond"
	"github.com/dalemusser/agenseek/internal/app/system/timeouts"
	"github.com/dalemusser/agenseek/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/query"
)

const (
	defaultSearchLimit = 10
	maxSearchLimit     = 50
)

// listItem is a catalog guide plus the caller's progress on it.
type listItem struct {
	models.Guide
	ProgressPercent int  `json:"progress_percent"`
	Completed       bool `json:"completed"`
}

type listResponse struct {
	Guides       []listItem `json:"guides"`
	Total        int        `json:"total"`
	TotalMinutes int        `json:"total_minutes"`
}

// ServeList handles GET /guides?category=&difficulty=.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	_, _, uid, _ := authz.UserCtx(r)
	found := h.Catalog.Filter(query.Get(r, "category"), query.Get(r, "difficulty"))

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "list guides")
	defer cancel()

	records, err := h.Progress.ListByUser(ctx, uid)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "list progress failed", err, "")
		return
	}
	byGuide := make(map[string]models.GuideProgress, len(records))
	for _, p := range records {
		byGuide[p.GuideID] = p
	}

	resp := listResponse{Guides: make([]listItem, 0, len(found))}
	for _, g := range found {
		p := byGuide[g.ID]
		resp.Guides = append(resp.Guides, listItem{Guide: g, ProgressPercent: p.ProgressPercent, Completed: p.Completed})
		resp.TotalMinutes += g.EstimatedMinutes
	}
	resp.Total = len(resp.Guides)
	respond.OK(w, resp)
}

type searchResponse struct {
	Query   string                 `json:"query"`
	Results []catalog.SearchResult `json:"results"`
}

// ServeSearch handles GET /guides/search?q=&limit=.
func (h *Handler) ServeSearch(w http.ResponseWriter, r *http.Request) {
	q := normalize.QueryParam(query.Get(r, "q"))
	limit := defaultSearchLimit
	if s := query.Get(r, "limit"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			limit = min(n, maxSearchLimit)
		}
	}
	respond.OK(w, searchResponse{Query: q, Results: h.Catalog.Search(q, limit)})
}
