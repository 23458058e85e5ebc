// Package normalize canonicalizes user-entered strings before they are stored
// or compared.
package normalize

import (
	"strings"
	"unicode/utf8"
)

// MaxQueryLen caps search query parameters.
const MaxQueryLen = 200

// Email trims and lowercases an address.
func Email(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Name trims and collapses runs of whitespace. Case is preserved.
func Name(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Tags trims and lowercases each tag, drops empties and repeats, and keeps
// first-seen order. The result is never nil.
func Tags(in []string) []string {
	out := make([]string, 0, len(in))
	seen := make(map[string]struct{}, len(in))
	for _, t := range in {
		t = strings.ToLower(Name(t))
		if t == "" {
			continue
		}
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}

// QueryParam trims a search string and caps it at MaxQueryLen runes.
func QueryParam(s string) string {
	s = strings.TrimSpace(s)
	if utf8.RuneCountInString(s) <= MaxQueryLen {
		return s
	}
	return string([]rune(s)[:MaxQueryLen])
}
