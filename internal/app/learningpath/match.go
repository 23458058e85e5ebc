// internal/app/learningpath/match.go
package learningpath

import "strings"

// TagMatches reports whether a guide tag and a keyword loosely match:
// case-insensitive substring containment in either direction. An empty tag
// or keyword is contained in everything, so it always matches.
//
// The match is deliberately loose; short tags can match unrelated keywords.
// Classification outcomes depend on it, so keep all matching behind this helper.
func TagMatches(tag, keyword string) bool {
	t := strings.ToLower(tag)
	k := strings.ToLower(keyword)
	return strings.Contains(t, k) || strings.Contains(k, t)
}

// anyTagMatches reports whether any tag matches any keyword.
func anyTagMatches(tags, keywords []string) bool {
	for _, tag := range tags {
		for _, kw := range keywords {
			if TagMatches(tag, kw) {
				return true
			}
		}
	}
	return false
}

// NormalizeRole turns a free-text role ("Product Manager") into a lookup key
// ("product_manager").
func NormalizeRole(role string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(role)), " ", "_")
}
