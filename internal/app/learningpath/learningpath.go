// Package learningpath sorts the guide catalog into a personal learning path
// and rolls completion state up into per-bucket progress.
//
// Everything here is a pure function of its arguments: no I/O, no caching,
// no session state. Callers pass the profile and completion set explicitly.
package learningpath

import (
	"github.com/dalemusser/agenseek/internal/domain/models"
)

// Bucket names.
const (
	BucketCore        = "core"
	BucketRecommended = "recommended"
	BucketInterests   = "interests"
	BucketOptional    = "optional"
)

// BucketNames lists the buckets in classification order.
var BucketNames = []string{BucketCore, BucketRecommended, BucketInterests, BucketOptional}

// coreCategories always land in the core bucket.
var coreCategories = map[string]bool{
	models.CategoryCore:       true,
	models.CategoryOnboarding: true,
}

// Profile is the part of a user's profile the classifier reads.
type Profile struct {
	Role            string
	Interests       []string
	ExperienceLevel string
}

// ProfileFrom adapts a stored profile. A nil profile is an empty one.
func ProfileFrom(p *models.Profile) Profile {
	if p == nil {
		return Profile{}
	}
	return Profile{
		Role:            p.Role,
		Interests:       p.Interests,
		ExperienceLevel: p.ExperienceLevel,
	}
}

// Buckets is the four-way partition of a catalog. Each guide appears in
// exactly one bucket, in catalog order.
type Buckets struct {
	Core        []models.Guide `json:"core"`
	Recommended []models.Guide `json:"recommended"`
	Interests   []models.Guide `json:"interests"`
	Optional    []models.Guide `json:"optional"`
}

// Get returns the bucket with the given name, or nil for an unknown name.
func (b Buckets) Get(name string) []models.Guide {
	switch name {
	case BucketCore:
		return b.Core
	case BucketRecommended:
		return b.Recommended
	case BucketInterests:
		return b.Interests
	case BucketOptional:
		return b.Optional
	}
	return nil
}

// BucketOf returns the name of the bucket holding guideID, or "" if the
// guide is not in any bucket.
func (b Buckets) BucketOf(guideID string) string {
	for _, name := range BucketNames {
		for _, g := range b.Get(name) {
			if g.ID == guideID {
				return name
			}
		}
	}
	return ""
}

// Len is the total number of guides across all buckets.
func (b Buckets) Len() int {
	return len(b.Core) + len(b.Recommended) + len(b.Interests) + len(b.Optional)
}

// Classify partitions the catalog for a profile. First match wins:
// core, then recommended (by role), then interests, then optional.
func Classify(catalog []models.Guide, profile Profile) Buckets {
	out := Buckets{
		Core:        []models.Guide{},
		Recommended: []models.Guide{},
		Interests:   []models.Guide{},
		Optional:    []models.Guide{},
	}
	claimed := make([]bool, len(catalog))

	for i, g := range catalog {
		if coreCategories[g.Category] {
			out.Core = append(out.Core, g)
			claimed[i] = true
		}
	}

	if roleKey := NormalizeRole(profile.Role); roleKey != "" {
		keywords := roleKeywords[roleKey]
		for i, g := range catalog {
			if claimed[i] {
				continue
			}
			byKeyword := anyTagMatches(g.Tags, keywords)
			byRoleGuide := g.Category == models.CategoryRoles && anyTagMatches(g.Tags, []string{roleKey})
			if byKeyword || byRoleGuide {
				out.Recommended = append(out.Recommended, g)
				claimed[i] = true
			}
		}
	}

	if len(profile.Interests) > 0 {
		for i, g := range catalog {
			if claimed[i] {
				continue
			}
			if anyTagMatches(g.Tags, profile.Interests) {
				out.Interests = append(out.Interests, g)
				claimed[i] = true
			}
		}
	}

	for i, g := range catalog {
		if !claimed[i] {
			out.Optional = append(out.Optional, g)
		}
	}

	return out
}
