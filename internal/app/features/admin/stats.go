// internal/app/features/admin/stats.go
package admin

import (
	"net/http"

	metricsstore "github.com/dalemusser/agenseek/internal/app/store/metrics"
	"github.com/dalemusser/agenseek/internal/app/system/respond"
	"github.com/dalemusser/agenseek/internal/app/system/timeouts"
	"go.uber.org/zap"
)

type statsResponse struct {
	Counts        metricsstore.Counts `json:"counts"`
	LearningRoles map[string]int      `json:"learning_roles"`
	Partial       bool                `json:"partial"`
}

// ServeStats handles GET /admin/stats. A failed counter reads as zero and
// marks the response partial instead of failing it.
func (h *Handler) ServeStats(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "admin stats")
	defer cancel()

	counts, failed := metricsstore.FetchAdminCounts(ctx, h.DB, h.now())
	roles, err := h.Profiles.CountByRole(ctx)
	if err != nil {
		failed = append(failed, "learning_roles")
		roles = map[string]int{}
	}
	if len(failed) > 0 {
		h.Log.Warn("admin stats partially failed", zap.Strings("counters", failed))
	}

	respond.OK(w, statsResponse{Counts: counts, LearningRoles: roles, Partial: len(failed) > 0})
}
