package progress

import "time"

// SetNow replaces the handler's clock for tests in progress_test.
func SetNow(h *Handler, now func() time.Time) { h.now = now }
