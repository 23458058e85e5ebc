// internal/app/features/profile/timezones.go
package profile

import (
	"net/http"

	"github.com/dalemusser/agenseek/internal/app/system/auth"
	"github.com/dalemusser/agenseek/internal/app/system/respond"
	"github.com/dalemusser/agenseek/internal/app/system/timezones"
)

type timeZonesResponse struct {
	Current      string                `json:"current"`
	CurrentLabel string                `json:"current_label"`
	Groups       []timezones.ZoneGroup `json:"groups"`
}

// ServeTimeZones handles GET /profile/timezones: the picker options plus the
// zone the session is using now.
func (h *Handler) ServeTimeZones(w http.ResponseWriter, r *http.Request) {
	groups, err := timezones.Groups()
	if err != nil {
		h.ErrLog.LogServerError(w, r, "load time zones failed", err, "")
		return
	}

	current := h.DefaultTZ
	if u, ok := auth.CurrentUser(r); ok && u.TimeZone != "" {
		current = u.TimeZone
	}
	respond.OK(w, timeZonesResponse{
		Current:      current,
		CurrentLabel: timezones.Label(current),
		Groups:       groups,
	})
}
