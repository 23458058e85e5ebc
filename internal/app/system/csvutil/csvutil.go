// internal/app/system/csvutil/csvutil.go
package csvutil

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// TimeLayout formats timestamps in exported rows.
const TimeLayout = time.RFC3339

// bom lets spreadsheet apps detect UTF-8, which matters for Hebrew titles.
var bom = []byte{0xEF, 0xBB, 0xBF}

// Attach writes the download headers and the UTF-8 BOM and returns a csv
// writer over w. Callers must Flush and check Error when done.
func Attach(w http.ResponseWriter, filename string) (*csv.Writer, error) {
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, url.PathEscape(filename)))
	if _, err := w.Write(bom); err != nil {
		return nil, err
	}
	return csv.NewWriter(w), nil
}

// Filename builds "<prefix>_<yyyymmdd>.csv".
func Filename(prefix string, at time.Time) string {
	return prefix + "_" + at.Format("20060102") + ".csv"
}

// FormatTime renders t, or "" for a nil or zero time.
func FormatTime(t *time.Time) string {
	if t == nil || t.IsZero() {
		return ""
	}
	return t.UTC().Format(TimeLayout)
}
