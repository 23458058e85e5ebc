// internal/app/store/activity/store.go
package activity

import (
	"context"
	"time"

	"github.com/dalemusser/agenseek/internal/app/system/indexes"
	"github.com/dalemusser/agenseek/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Store is the append-only activity log.
type Store struct {
	c   *mongo.Collection
	now func() time.Time
}

// New creates a new activity Store.
func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection(indexes.Activities), now: time.Now}
}

// Create inserts an event, filling in the ID and timestamp when unset.
func (s *Store) Create(ctx context.Context, a models.Activity) (models.Activity, error) {
	if a.ID.IsZero() {
		a.ID = primitive.NewObjectID()
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = s.now().UTC()
	}
	_, err := s.c.InsertOne(ctx, a)
	return a, err
}

// Record appends one event of activityType by userID about targetID.
func (s *Store) Record(ctx context.Context, userID primitive.ObjectID, activityType, targetID string, meta map[string]string) error {
	_, err := s.Create(ctx, models.Activity{
		UserID:       userID,
		ActivityType: activityType,
		TargetID:     targetID,
		Metadata:     meta,
	})
	return err
}

// ListByUser returns the newest events of userID, at most limit.
func (s *Store) ListByUser(ctx context.Context, userID primitive.ObjectID, limit int64) ([]models.Activity, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}).
		SetLimit(limit)
	return s.find(ctx, bson.M{"user_id": userID}, opts)
}

// ListByUserSince returns every event of userID at or after since, newest
// first. Streaks and weekly stats read from here.
func (s *Store) ListByUserSince(ctx context.Context, userID primitive.ObjectID, since time.Time) ([]models.Activity, error) {
	filter := bson.M{
		"user_id":    userID,
		"created_at": bson.M{"$gte": since.UTC()},
	}
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	return s.find(ctx, filter, opts)
}

// TimesByUser returns only the timestamps of userID's events at or after
// since. Zero since means all time.
func (s *Store) TimesByUser(ctx context.Context, userID primitive.ObjectID, since time.Time) ([]time.Time, error) {
	filter := bson.M{"user_id": userID}
	if !since.IsZero() {
		filter["created_at"] = bson.M{"$gte": since.UTC()}
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetProjection(bson.M{"created_at": 1})

	cur, err := s.c.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var rows []struct {
		CreatedAt time.Time `bson:"created_at"`
	}
	if err := cur.All(ctx, &rows); err != nil {
		return nil, err
	}
	out := make([]time.Time, len(rows))
	for i, r := range rows {
		out[i] = r.CreatedAt
	}
	return out, nil
}

// ListByTypeSince returns events of one type from every user in
// [since, now). The popular-guides panel reads guide views from here.
func (s *Store) ListByTypeSince(ctx context.Context, activityType string, since time.Time) ([]models.Activity, error) {
	filter := bson.M{
		"activity_type": activityType,
		"created_at":    bson.M{"$gte": since.UTC()},
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetProjection(bson.M{"metadata": 0})
	return s.find(ctx, filter, opts)
}

// CountActiveUsersSince returns how many distinct users logged any event at
// or after since.
func (s *Store) CountActiveUsersSince(ctx context.Context, since time.Time) (int64, error) {
	ids, err := s.c.Distinct(ctx, "user_id", bson.M{"created_at": bson.M{"$gte": since.UTC()}})
	if err != nil {
		return 0, err
	}
	return int64(len(ids)), nil
}

func (s *Store) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]models.Activity, error) {
	cur, err := s.c.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	events := []models.Activity{}
	if err := cur.All(ctx, &events); err != nil {
		return nil, err
	}
	return events, nil
}
