package progressstore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/agenseek/internal/app/system/indexes"
	"github.com/dalemusser/agenseek/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	// ErrNotFound is returned when the user has no record for the guide.
	ErrNotFound = errors.New("progress not found")

	// ErrBadPercent is returned for percentages outside 0..100.
	ErrBadPercent = errors.New("progress percent must be between 0 and 100")
)

type Store struct {
	c   *mongo.Collection
	now func() time.Time
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection(indexes.Progress), now: time.Now}
}

func key(userID primitive.ObjectID, guideID string) bson.M {
	return bson.M{"user_id": userID, "guide_id": guideID}
}

// Get returns the user's record for one guide.
func (s *Store) Get(ctx context.Context, userID primitive.ObjectID, guideID string) (models.GuideProgress, error) {
	var p models.GuideProgress
	if err := s.c.FindOne(ctx, key(userID, guideID)).Decode(&p); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.GuideProgress{}, ErrNotFound
		}
		return models.GuideProgress{}, err
	}
	return p, nil
}

// Update records reading progress for one guide. The stored percent never
// goes down, time spent accumulates and reaching 100 completes the guide.
// Completion is sticky: once completed_at is set it is never moved. The
// bool reports whether this call completed the guide.
func (s *Store) Update(ctx context.Context, userID primitive.ObjectID, guideID string, percent int, addSeconds int64) (models.GuideProgress, bool, error) {
	if percent < 0 || percent > 100 {
		return models.GuideProgress{}, false, ErrBadPercent
	}
	if addSeconds < 0 {
		addSeconds = 0
	}
	now := s.now().UTC()
	update := bson.M{
		"$max":         bson.M{"progress_percent": percent},
		"$inc":         bson.M{"time_spent_seconds": addSeconds},
		"$set":         bson.M{"last_read_at": now},
		"$setOnInsert": bson.M{"completed": false},
	}
	p, err := s.upsert(ctx, userID, guideID, update)
	if err != nil || p.Completed || p.ProgressPercent < 100 {
		return p, false, err
	}
	return s.complete(ctx, userID, guideID, now)
}

// MarkComplete sets the guide to 100% and completed. The second value is
// true when this call did the completing, so callers record the activity
// once.
func (s *Store) MarkComplete(ctx context.Context, userID primitive.ObjectID, guideID string) (models.GuideProgress, bool, error) {
	now := s.now().UTC()
	before, err := s.Get(ctx, userID, guideID)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return models.GuideProgress{}, false, err
	}
	if before.Completed {
		return before, false, nil
	}
	if _, err := s.upsert(ctx, userID, guideID, bson.M{
		"$set":         bson.M{"last_read_at": now, "progress_percent": 100},
		"$setOnInsert": bson.M{"time_spent_seconds": int64(0), "completed": false},
	}); err != nil {
		return models.GuideProgress{}, false, err
	}
	return s.complete(ctx, userID, guideID, now)
}

// complete flips completed to true once. The bool is false when another
// request completed the guide first.
func (s *Store) complete(ctx context.Context, userID primitive.ObjectID, guideID string, at time.Time) (models.GuideProgress, bool, error) {
	filter := key(userID, guideID)
	filter["completed"] = false
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var p models.GuideProgress
	err := s.c.FindOneAndUpdate(ctx, filter,
		bson.M{"$set": bson.M{"completed": true, "completed_at": at, "progress_percent": 100}},
		opts,
	).Decode(&p)
	if errors.Is(err, mongo.ErrNoDocuments) {
		p, err = s.Get(ctx, userID, guideID)
		return p, false, err
	}
	if err != nil {
		return models.GuideProgress{}, false, err
	}
	return p, true, nil
}

func (s *Store) upsert(ctx context.Context, userID primitive.ObjectID, guideID string, update bson.M) (models.GuideProgress, error) {
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)
	var p models.GuideProgress
	if err := s.c.FindOneAndUpdate(ctx, key(userID, guideID), update, opts).Decode(&p); err != nil {
		return models.GuideProgress{}, err
	}
	return p, nil
}

// ListByUser returns every record of userID, most recently read first.
func (s *Store) ListByUser(ctx context.Context, userID primitive.ObjectID) ([]models.GuideProgress, error) {
	return s.find(ctx, bson.M{"user_id": userID},
		options.Find().SetSort(bson.D{{Key: "last_read_at", Value: -1}, {Key: "guide_id", Value: 1}}))
}

// ListReadSince returns records of userID last read at or after since.
func (s *Store) ListReadSince(ctx context.Context, userID primitive.ObjectID, since time.Time) ([]models.GuideProgress, error) {
	return s.find(ctx, bson.M{"user_id": userID, "last_read_at": bson.M{"$gte": since.UTC()}},
		options.Find().SetSort(bson.D{{Key: "last_read_at", Value: -1}}))
}

func (s *Store) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]models.GuideProgress, error) {
	cur, err := s.c.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	out := []models.GuideProgress{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CompletedIDs returns the set of guide IDs userID has completed.
func (s *Store) CompletedIDs(ctx context.Context, userID primitive.ObjectID) (map[string]bool, error) {
	ids, err := s.c.Distinct(ctx, "guide_id", bson.M{"user_id": userID, "completed": true})
	if err != nil {
		return nil, err
	}
	out := make(map[string]bool, len(ids))
	for _, v := range ids {
		if id, ok := v.(string); ok {
			out[id] = true
		}
	}
	return out, nil
}

// CountCompletedByUser returns completed-guide counts for the given users.
// Users with none are absent from the map.
func (s *Store) CountCompletedByUser(ctx context.Context, userIDs []primitive.ObjectID) (map[primitive.ObjectID]int, error) {
	out := make(map[primitive.ObjectID]int, len(userIDs))
	if len(userIDs) == 0 {
		return out, nil
	}
	cur, err := s.c.Aggregate(ctx, mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"user_id": bson.M{"$in": userIDs}, "completed": true}}},
		{{Key: "$group", Value: bson.M{"_id": "$user_id", "n": bson.M{"$sum": 1}}}},
	})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var rows []struct {
		UserID primitive.ObjectID `bson:"_id"`
		N      int                `bson:"n"`
	}
	if err := cur.All(ctx, &rows); err != nil {
		return nil, err
	}
	for _, r := range rows {
		out[r.UserID] = r.N
	}
	return out, nil
}

// TotalTimeSpent sums time_spent_seconds over all of userID's records.
func (s *Store) TotalTimeSpent(ctx context.Context, userID primitive.ObjectID) (int64, error) {
	cur, err := s.c.Aggregate(ctx, mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"user_id": userID}}},
		{{Key: "$group", Value: bson.M{"_id": nil, "total": bson.M{"$sum": "$time_spent_seconds"}}}},
	})
	if err != nil {
		return 0, err
	}
	defer cur.Close(ctx)

	var rows []struct {
		Total int64 `bson:"total"`
	}
	if err := cur.All(ctx, &rows); err != nil {
		return 0, err
	}
	if len(rows) == 0 {
		return 0, nil
	}
	return rows[0].Total, nil
}
