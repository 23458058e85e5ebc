package notestore

import (
	"context"
	"errors"
	"regexp"
	"sort"
	"time"

	"github.com/dalemusser/agenseek/internal/app/system/htmlsanitize"
	"github.com/dalemusser/agenseek/internal/app/system/indexes"
	"github.com/dalemusser/agenseek/internal/app/system/normalize"
	"github.com/dalemusser/agenseek/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	// ErrNotFound is returned when the note does not exist or belongs to
	// another user.
	ErrNotFound = errors.New("note not found")

	// ErrTitleRequired is returned for blank titles.
	ErrTitleRequired = errors.New("note title is required")
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection(indexes.Notes)}
}

// Create sanitizes and inserts a note owned by n.UserID.
func (s *Store) Create(ctx context.Context, n models.Note) (models.Note, error) {
	if err := prepare(&n); err != nil {
		return models.Note{}, err
	}
	now := time.Now().UTC()
	n.ID = primitive.NewObjectID()
	n.CreatedAt = now
	n.UpdatedAt = now
	if _, err := s.c.InsertOne(ctx, n); err != nil {
		return models.Note{}, err
	}
	return n, nil
}

func prepare(n *models.Note) error {
	n.Title = normalize.Name(n.Title)
	if n.Title == "" {
		return ErrTitleRequired
	}
	n.TitleCI = text.Fold(n.Title)
	n.Content = htmlsanitize.Sanitize(n.Content)
	n.Tags = normalize.Tags(n.Tags)
	return nil
}

// Get returns one of userID's notes.
func (s *Store) Get(ctx context.Context, userID, id primitive.ObjectID) (models.Note, error) {
	var n models.Note
	if err := s.c.FindOne(ctx, bson.M{"_id": id, "user_id": userID}).Decode(&n); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.Note{}, ErrNotFound
		}
		return models.Note{}, err
	}
	return n, nil
}

// Update replaces the editable fields of one of userID's notes.
func (s *Store) Update(ctx context.Context, userID primitive.ObjectID, n models.Note) (models.Note, error) {
	if err := prepare(&n); err != nil {
		return models.Note{}, err
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var out models.Note
	err := s.c.FindOneAndUpdate(ctx,
		bson.M{"_id": n.ID, "user_id": userID},
		bson.M{"$set": bson.M{
			"title":      n.Title,
			"title_ci":   n.TitleCI,
			"content":    n.Content,
			"tags":       n.Tags,
			"guide_id":   n.GuideID,
			"pinned":     n.Pinned,
			"updated_at": time.Now().UTC(),
		}},
		opts,
	).Decode(&out)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Note{}, ErrNotFound
	}
	return out, err
}

// Delete removes one of userID's notes.
func (s *Store) Delete(ctx context.Context, userID, id primitive.ObjectID) error {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id, "user_id": userID})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// ListFilter narrows List. Empty fields match everything.
type ListFilter struct {
	Query   string // substring of the folded title
	Tag     string
	GuideID string
}

// List returns userID's notes, pinned first then most recently updated.
func (s *Store) List(ctx context.Context, userID primitive.ObjectID, f ListFilter) ([]models.Note, error) {
	filter := bson.M{"user_id": userID}
	if q := text.Fold(normalize.QueryParam(f.Query)); q != "" {
		filter["title_ci"] = bson.M{"$regex": regexp.QuoteMeta(q)}
	}
	if tag := normalize.Tags([]string{f.Tag}); len(tag) == 1 {
		filter["tags"] = tag[0]
	}
	if f.GuideID != "" {
		filter["guide_id"] = f.GuideID
	}

	opts := options.Find().SetSort(bson.D{
		{Key: "pinned", Value: -1},
		{Key: "updated_at", Value: -1},
		{Key: "_id", Value: -1},
	})
	cur, err := s.c.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []models.Note{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Tags returns the distinct tags userID has used, sorted.
func (s *Store) Tags(ctx context.Context, userID primitive.ObjectID) ([]string, error) {
	vals, err := s.c.Distinct(ctx, "tags", bson.M{"user_id": userID})
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(vals))
	for _, v := range vals {
		if t, ok := v.(string); ok {
			out = append(out, t)
		}
	}
	sort.Strings(out)
	return out, nil
}

// CreatedTimesSince returns creation times of userID's notes at or after since.
func (s *Store) CreatedTimesSince(ctx context.Context, userID primitive.ObjectID, since time.Time) ([]time.Time, error) {
	return createdTimes(ctx, s.c, bson.M{"user_id": userID, "created_at": bson.M{"$gte": since.UTC()}})
}

// Count returns how many notes userID has.
func (s *Store) Count(ctx context.Context, userID primitive.ObjectID) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{"user_id": userID})
}

func createdTimes(ctx context.Context, c *mongo.Collection, filter bson.M) ([]time.Time, error) {
	cur, err := c.Find(ctx, filter, options.Find().SetProjection(bson.M{"created_at": 1}))
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
