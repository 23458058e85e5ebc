package learningpath_test

import (
	"reflect"
	"testing"

	"github.com/dalemusser/agenseek/internal/app/learningpath"
	"github.com/dalemusser/agenseek/internal/domain/models"
)

func exampleCatalog() []models.Guide {
	return []models.Guide{
		{ID: "a", Category: "core", Tags: []string{}},
		{ID: "b", Category: "roles", Tags: []string{"developer"}},
		{ID: "c", Category: "practical", Tags: []string{"design"}},
		{ID: "d", Category: "practical", Tags: []string{"cooking"}},
	}
}

func ids(guides []models.Guide) []string {
	out := []string{}
	for _, g := range guides {
		out = append(out, g.ID)
	}
	return out
}

func assertIDs(t *testing.T, bucket string, got []models.Guide, want ...string) {
	t.Helper()
	if want == nil {
		want = []string{}
	}
	if !reflect.DeepEqual(ids(got), want) {
		t.Errorf("%s: got %v, want %v", bucket, ids(got), want)
	}
}

func TestClassify_RoleAndInterests(t *testing.T) {
	b := learningpath.Classify(exampleCatalog(), learningpath.Profile{
		Role:      "developer",
		Interests: []string{"design"},
	})

	assertIDs(t, "core", b.Core, "a")
	assertIDs(t, "recommended", b.Recommended, "b")
	assertIDs(t, "interests", b.Interests, "c")
	assertIDs(t, "optional", b.Optional, "d")
}

func TestClassify_EmptyProfile(t *testing.T) {
	b := learningpath.Classify(exampleCatalog(), learningpath.Profile{})

	assertIDs(t, "core", b.Core, "a")
	assertIDs(t, "recommended", b.Recommended)
	assertIDs(t, "interests", b.Interests)
	assertIDs(t, "optional", b.Optional, "b", "c", "d")
}

func TestClassify_EmptyCatalog(t *testing.T) {
	b := learningpath.Classify(nil, learningpath.Profile{Role: "developer", Interests: []string{"x"}})
	if b.Len() != 0 {
		t.Fatalf("expected no guides, got %d", b.Len())
	}
	for _, name := range learningpath.BucketNames {
		if got := b.Get(name); got == nil || len(got) != 0 {
			t.Errorf("%s: expected empty non-nil list, got %v", name, got)
		}
	}
}

func TestClassify_CorePrecedence(t *testing.T) {
	catalog := []models.Guide{
		{ID: "onb", Category: "onboarding", Tags: []string{"developer", "design"}},
		{ID: "core", Category: "core", Tags: []string{"api"}},
	}
	b := learningpath.Classify(catalog, learningpath.Profile{
		Role:      "developer",
		Interests: []string{"design", "api"},
	})

	assertIDs(t, "core", b.Core, "onb", "core")
	assertIDs(t, "recommended", b.Recommended)
	assertIDs(t, "interests", b.Interests)
}

func TestClassify_RoleNormalization(t *testing.T) {
	catalog := []models.Guide{
		{ID: "pm", Category: "roles", Tags: []string{"Product_Manager"}},
		{ID: "road", Category: "practical", Tags: []string{"Roadmap"}},
		{ID: "other", Category: "practical", Tags: []string{"poetry"}},
	}
	b := learningpath.Classify(catalog, learningpath.Profile{Role: "  Product Manager "})

	assertIDs(t, "recommended", b.Recommended, "pm", "road")
	assertIDs(t, "optional", b.Optional, "other")
}

func TestClassify_RoleGuideRequiresRolesCategory(t *testing.T) {
	// A guide tagged with the role key but outside the roles category only
	// counts when a keyword matches.
	catalog := []models.Guide{
		{ID: "x", Category: "practical", Tags: []string{"executive"}},
	}
	b := learningpath.Classify(catalog, learningpath.Profile{Role: "executive"})
	assertIDs(t, "optional", b.Optional, "x")
}

func TestClassify_UnknownRoleOnlyMatchesRoleGuides(t *testing.T) {
	catalog := []models.Guide{
		{ID: "r", Category: "roles", Tags: []string{"astronaut"}},
		{ID: "p", Category: "practical", Tags: []string{"astronaut"}},
	}
	b := learningpath.Classify(catalog, learningpath.Profile{Role: "Astronaut"})

	assertIDs(t, "recommended", b.Recommended, "r")
	assertIDs(t, "optional", b.Optional, "p")
}

func TestClassify_InterestsMatchBothDirections(t *testing.T) {
	catalog := []models.Guide{
		{ID: "long", Category: "practical", Tags: []string{"prompt-engineering"}},
		{ID: "short", Category: "practical", Tags: []string{"ai"}},
		{ID: "none", Category: "practical", Tags: []string{"gardening"}},
	}
	b := learningpath.Classify(catalog, learningpath.Profile{Interests: []string{"PROMPT", "ai agents"}})

	assertIDs(t, "interests", b.Interests, "long", "short")
	assertIDs(t, "optional", b.Optional, "none")
}

func TestClassify_EmptyTagMatchesRoleKeywords(t *testing.T) {
	catalog := []models.Guide{
		{ID: "x", Category: "practical", Tags: []string{""}},
		{ID: "y", Category: "practical", Tags: []string{"cooking"}},
	}
	b := learningpath.Classify(catalog, learningpath.Profile{Role: "developer"})

	assertIDs(t, "recommended", b.Recommended, "x")
	assertIDs(t, "optional", b.Optional, "y")
}

func TestClassify_EmptyInterestMatchesEveryTaggedGuide(t *testing.T) {
	catalog := []models.Guide{
		{ID: "x", Category: "practical", Tags: []string{""}},
		{ID: "y", Category: "practical", Tags: []string{"cooking"}},
		{ID: "z", Category: "practical", Tags: []string{}},
	}
	b := learningpath.Classify(catalog, learningpath.Profile{Interests: []string{""}})

	assertIDs(t, "interests", b.Interests, "x", "y")
	assertIDs(t, "optional", b.Optional, "z")
}

func TestClassify_NilTagsTreatedAsEmpty(t *testing.T) {
	catalog := []models.Guide{
		{ID: "n", Category: "roles", Tags: nil},
	}
	b := learningpath.Classify(catalog, learningpath.Profile{Role: "developer", Interests: []string{"x"}})
	assertIDs(t, "optional", b.Optional, "n")
}

func TestClassify_PartitionAndIdempotence(t *testing.T) {
	catalog := []models.Guide{
		{ID: "1", Category: "core", Tags: []string{"basics"}},
		{ID: "2", Category: "roles", Tags: []string{"designer"}},
		{ID: "3", Category: "agents", Tags: []string{"agents", "automation"}},
		{ID: "4", Category: "workflows", Tags: []string{"planning", "prd"}},
		{ID: "5", Category: "practical", Tags: []string{"data"}},
		{ID: "6", Category: "faq", Tags: nil},
		{ID: "7", Category: "onboarding", Tags: []string{"setup"}},
		{ID: "8", Category: "resources", Tags: []string{"ux", "research"}},
	}
	profiles := []learningpath.Profile{
		{},
		{Role: "developer"},
		{Role: "designer", Interests: []string{"data"}},
		{Role: "Product Manager", Interests: []string{"research", "setup"}},
		{Interests: []string{"a"}},
	}

	for _, p := range profiles {
		b := learningpath.Classify(catalog, p)

		seen := map[string]int{}
		for _, name := range learningpath.BucketNames {
			for _, g := range b.Get(name) {
				seen[g.ID]++
			}
		}
		if len(seen) != len(catalog) {
			t.Errorf("profile %+v: %d distinct guides classified, want %d", p, len(seen), len(catalog))
		}
		for id, n := range seen {
			if n != 1 {
				t.Errorf("profile %+v: guide %s classified %d times", p, id, n)
			}
		}

		again := learningpath.Classify(catalog, p)
		if !reflect.DeepEqual(b, again) {
			t.Errorf("profile %+v: classification is not deterministic", p)
		}

		prog := learningpath.AllCategoryProgress(b, nil)
		sum := prog.Core.Total + prog.Recommended.Total + prog.Interests.Total + prog.Optional.Total
		if sum != len(catalog) {
			t.Errorf("profile %+v: bucket totals sum to %d, want %d", p, sum, len(catalog))
		}
	}
}

func TestClassify_EmptyProfilePutsNonCoreInOptional(t *testing.T) {
	catalog := []models.Guide{
		{ID: "1", Category: "core"},
		{ID: "2", Category: "roles", Tags: []string{"developer"}},
		{ID: "3", Category: "agents", Tags: []string{"agents"}},
		{ID: "4", Category: "onboarding"},
	}
	b := learningpath.Classify(catalog, learningpath.Profile{Role: "", Interests: []string{}})
	assertIDs(t, "core", b.Core, "1", "4")
	assertIDs(t, "optional", b.Optional, "2", "3")
}

func TestBuckets_BucketOf(t *testing.T) {
	b := learningpath.Classify(exampleCatalog(), learningpath.Profile{Role: "developer", Interests: []string{"design"}})

	tests := map[string]string{
		"a":       learningpath.BucketCore,
		"b":       learningpath.BucketRecommended,
		"c":       learningpath.BucketInterests,
		"d":       learningpath.BucketOptional,
		"missing": "",
	}
	for id, want := range tests {
		if got := b.BucketOf(id); got != want {
			t.Errorf("BucketOf(%q) = %q, want %q", id, got, want)
		}
	}
}

func TestProfileFrom_Nil(t *testing.T) {
	p := learningpath.ProfileFrom(nil)
	if p.Role != "" || len(p.Interests) != 0 {
		t.Errorf("expected empty profile, got %+v", p)
	}
}
