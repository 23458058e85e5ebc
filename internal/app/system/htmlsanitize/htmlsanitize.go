// Package htmlsanitize cleans note bodies written in the rich-text editor.
package htmlsanitize

import (
	"html"
	"strings"
	"unicode/utf8"

	"github.com/microcosm-cc/bluemonday"
)

var (
	richPolicy  = newRichPolicy()
	stripPolicy = bluemonday.StrictPolicy()
)

func newRichPolicy() *bluemonday.Policy {
	p := bluemonday.UGCPolicy()
	p.AllowElements("u", "s", "sub", "sup", "mark")
	p.AllowAttrs("class").OnElements("table", "tr", "td", "th", "code", "pre")
	p.AllowAttrs("colspan", "rowspan").Matching(bluemonday.Integer).OnElements("td", "th")
	// Notes are mostly Hebrew with embedded English; the editor marks direction.
	p.AllowAttrs("dir").Matching(bluemonday.Direction).Globally()
	return p
}

// Sanitize strips scripts, event handlers and unsafe URLs, keeping the
// formatting the editor produces.
func Sanitize(s string) string {
	if s == "" {
		return ""
	}
	return richPolicy.Sanitize(s)
}

// PlainText removes all markup and unescapes entities.
func PlainText(s string) string {
	if s == "" {
		return ""
	}
	return strings.TrimSpace(html.UnescapeString(stripPolicy.Sanitize(s)))
}

// Excerpt is the first n runes of the plain text, with an ellipsis when cut.
func Excerpt(s string, n int) string {
	t := strings.Join(strings.Fields(PlainText(s)), " ")
	if n <= 0 || utf8.RuneCountInString(t) <= n {
		return t
	}
	r := []rune(t)
	return strings.TrimSpace(string(r[:n])) + "…"
}
