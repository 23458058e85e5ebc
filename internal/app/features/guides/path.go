// internal/app/features/guides/path.go
package guides

import (
	"net/http"

	"github.com/dalemusser/agenseek/internal/app/system/authz"
	"github.com/dalemusser/agenseek/internal/app/system/respond"
	"github.com/dalemusser/agenseek/internal/app/system/timeouts"
)

// ServePath handles GET /guides/path: the caller's four learning-path
// buckets with completion rollups. Completions of guides no longer in the
// catalog are ignored.
func (h *Handler) ServePath(w http.ResponseWriter, r *http.Request) {
	_, _, uid, _ := authz.UserCtx(r)

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "learning path")
	defer cancel()

	p, err := h.Path.Build(ctx, uid)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "build learning path failed", err, "")
		return
	}
	respond.OK(w, p)
}
