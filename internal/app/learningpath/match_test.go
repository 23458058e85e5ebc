package learningpath

import (
	"sort"
	"testing"
)

func TestTagMatches(t *testing.T) {
	tests := []struct {
		tag, keyword string
		want         bool
	}{
		{"developer", "developer", true},
		{"Developer", "DEVELOPER", true},
		{"api-design", "api", true},
		{"ai", "ai agents", true},
		{"design", "development", false},
		{"cooking", "coding", false},
		{"", "api", true},
		{"api", "", true},
		{"", "", true},
		{"  ", " ", true},
		{" api", "xapi", false},
	}
	for _, tt := range tests {
		if got := TagMatches(tt.tag, tt.keyword); got != tt.want {
			t.Errorf("TagMatches(%q, %q) = %v, want %v", tt.tag, tt.keyword, got, tt.want)
		}
	}
}

func TestNormalizeRole(t *testing.T) {
	tests := map[string]string{
		"Developer":         "developer",
		" Product Manager ": "product_manager",
		"data scientist":    "data_scientist",
		"":                  "",
	}
	for in, want := range tests {
		if got := NormalizeRole(in); got != want {
			t.Errorf("NormalizeRole(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestKnownRoles_SortedAndKeyed(t *testing.T) {
	roles := KnownRoles()
	if len(roles) != len(roleKeywords) {
		t.Fatalf("got %d roles, want %d", len(roles), len(roleKeywords))
	}
	if !sort.StringsAreSorted(roles) {
		t.Errorf("roles not sorted: %v", roles)
	}
	for _, role := range roles {
		if len(roleKeywords[role]) == 0 {
			t.Errorf("role %q has no keywords", role)
		}
	}
}
