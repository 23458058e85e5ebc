// internal/app/learningpath/roles.go
package learningpath

import "sort"

// roleKeywords maps a normalized role key to the tag keywords that make a
// guide relevant to that role.
var roleKeywords = map[string][]string{
	"developer":       {"development", "coding", "api", "agents", "automation", "testing"},
	"product_manager": {"product", "planning", "requirements", "prd", "roadmap"},
	"designer":        {"ux", "ui", "design", "prototype", "wireframe"},
	"architect":       {"architecture", "system", "infrastructure", "scaling"},
	"qa":              {"testing", "quality", "qa", "automation"},
	"data_scientist":  {"data", "analytics", "machine-learning", "research"},
	"manager":         {"management", "team", "leadership", "process", "planning"},
	"executive":       {"strategy", "leadership", "business", "roi"},
	"student":         {"basics", "learning", "beginner", "introduction"},
}

// KnownRoles lists the role keys the classifier has keywords for, sorted.
func KnownRoles() []string {
	out := make([]string, 0, len(roleKeywords))
	for role := range roleKeywords {
		out = append(out, role)
	}
	sort.Strings(out)
	return out
}
