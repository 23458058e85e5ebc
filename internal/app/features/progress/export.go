// internal/app/features/progress/export.go
package progress

import (
	"net/http"
	"strconv"

	"github.com/dalemusser/agenseek/internal/app/system/authz"
	"github.com/dalemusser/agenseek/internal/app/system/csvutil"
	"github.com/dalemusser/agenseek/internal/app/system/timeouts"
	"go.uber.org/zap"
)

var exportHeader = []string{
	"guide_id", "title", "category", "progress_percent", "completed",
	"time_spent_minutes", "last_read_at", "completed_at",
}

// ServeExport handles GET /progress/export.csv: one row per progress record,
// most recently read first. Guides no longer in the catalog keep their row
// with an empty title.
func (h *Handler) ServeExport(w http.ResponseWriter, r *http.Request) {
	_, _, uid, _ := authz.UserCtx(r)

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Export(), h.Log, "progress export")
	defer cancel()

	records, err := h.Progress.ListByUser(ctx, uid)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "load progress for export failed", err, "")
		return
	}

	cw, err := csvutil.Attach(w, csvutil.Filename("progress", h.now()))
	if err != nil {
		h.Log.Error("CSV write failed (BOM)", zap.Error(err))
		return
	}
	_ = cw.Write(exportHeader)
	for _, p := range records {
		g, _ := h.Catalog.Get(p.GuideID)
		last := p.LastReadAt
		_ = cw.Write([]string{
			p.GuideID,
			g.Title,
			g.Category,
			strconv.Itoa(p.ProgressPercent),
			strconv.FormatBool(p.Completed),
			strconv.FormatInt(p.TimeSpentSeconds/60, 10),
			csvutil.FormatTime(&last),
			csvutil.FormatTime(p.CompletedAt),
		})
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		h.Log.Error("CSV write failed", zap.String("user_id", uid.Hex()), zap.Error(err))
	}
}
