package shared

import (
	"context"

	"github.com/dalemusser/agenseek/internal/app/catalog"
	"github.com/dalemusser/agenseek/internal/app/learningpath"
	profilestore "github.com/dalemusser/agenseek/internal/app/store/profiles"
	progressstore "github.com/dalemusser/agenseek/internal/app/store/progress"
	"github.com/dalemusser/agenseek/internal/app/system/metrics"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Path is a user's classified catalog with completion rollups.
type Path struct {
	Buckets   learningpath.Buckets  `json:"buckets"`
	Progress  learningpath.Progress `json:"progress"`
	Completed []string              `json:"completed"`
}

// PathBuilder assembles learning paths from the catalog, the user's profile
// and their completed guides. Nothing is cached between calls.
type PathBuilder struct {
	Catalog  *catalog.Catalog
	Profiles *profilestore.Store
	Progress *progressstore.Store
	Metrics  *metrics.Metrics
}

// NewPathBuilder constructs a PathBuilder.
func NewPathBuilder(cat *catalog.Catalog, profiles *profilestore.Store, progress *progressstore.Store, m *metrics.Metrics) *PathBuilder {
	return &PathBuilder{Catalog: cat, Profiles: profiles, Progress: progress, Metrics: m}
}

// Classify loads the user's profile and partitions the catalog with it.
// Users without a profile get the empty-profile partition.
func (b *PathBuilder) Classify(ctx context.Context, userID primitive.ObjectID) (learningpath.Buckets, error) {
	p, err := b.Profiles.GetOrEmpty(ctx, userID)
	if err != nil {
		return learningpath.Buckets{}, err
	}
	out := learningpath.Classify(b.Catalog.All(), learningpath.ProfileFrom(&p))
	for _, name := range learningpath.BucketNames {
		b.Metrics.Classified(name, len(out.Get(name)))
	}
	return out, nil
}

// Completed returns the IDs of completed guides still in the catalog, in
// catalog order.
func (b *PathBuilder) Completed(ctx context.Context, userID primitive.ObjectID) ([]string, error) {
	done, err := b.Progress.CompletedIDs(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(done))
	for _, g := range b.Catalog.All() {
		if done[g.ID] {
			out = append(out, g.ID)
		}
	}
	return out, nil
}

// Build returns the user's buckets and per-bucket progress.
func (b *PathBuilder) Build(ctx context.Context, userID primitive.ObjectID) (Path, error) {
	buckets, err := b.Classify(ctx, userID)
	if err != nil {
		return Path{}, err
	}
	completed, err := b.Completed(ctx, userID)
	if err != nil {
		return Path{}, err
	}
	return Path{
		Buckets:   buckets,
		Progress:  learningpath.AllCategoryProgress(buckets, learningpath.NewCompletionSet(completed...)),
		Completed: completed,
	}, nil
}
