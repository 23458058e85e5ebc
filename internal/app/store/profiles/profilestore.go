package profilestore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/agenseek/internal/app/system/indexes"
	"github.com/dalemusser/agenseek/internal/app/system/normalize"
	"github.com/dalemusser/agenseek/internal/domain/models"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrNotFound is returned when the user has no profile yet.
var ErrNotFound = errors.New("profile not found")

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection(indexes.Profiles)}
}

// Get loads the profile of userID.
func (s *Store) Get(ctx context.Context, userID primitive.ObjectID) (models.Profile, error) {
	var p models.Profile
	if err := s.c.FindOne(ctx, bson.M{"_id": userID}).Decode(&p); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.Profile{}, ErrNotFound
		}
		return models.Profile{}, err
	}
	return p, nil
}

// GetOrEmpty is Get that treats a missing profile as the empty profile, so
// callers can classify the catalog for users who skipped onboarding.
func (s *Store) GetOrEmpty(ctx context.Context, userID primitive.ObjectID) (models.Profile, error) {
	p, err := s.Get(ctx, userID)
	if errors.Is(err, ErrNotFound) {
		return models.Profile{UserID: userID}, nil
	}
	return p, err
}

// Create inserts the profile written at registration. A fresh avatar seed is
// generated when none is given.
func (s *Store) Create(ctx context.Context, p models.Profile) (models.Profile, error) {
	now := time.Now().UTC()
	p.DisplayName = normalize.Name(p.DisplayName)
	p.Interests = normalize.Tags(p.Interests)
	if p.AvatarSeed == "" {
		p.AvatarSeed = uuid.NewString()
	}
	p.CreatedAt = now
	p.UpdatedAt = now
	if _, err := s.c.InsertOne(ctx, p); err != nil {
		return models.Profile{}, err
	}
	return p, nil
}

// Update holds the fields a user may change. Nil fields are left as they are.
type Update struct {
	DisplayName     *string
	Role            *string
	Interests       *[]string
	ExperienceLevel *string
	TimeZone        *string
	ResetAvatar     bool

	// InsertName is the display name used when Apply creates the profile
	// and DisplayName is nil.
	InsertName string
}

// Apply writes u to the profile of userID, creating the profile if needed,
// and returns the stored result.
func (s *Store) Apply(ctx context.Context, userID primitive.ObjectID, u Update) (models.Profile, error) {
	now := time.Now().UTC()
	set := bson.M{"updated_at": now}
	if u.DisplayName != nil {
		set["display_name"] = normalize.Name(*u.DisplayName)
	}
	if u.Role != nil {
		set["role"] = *u.Role
	}
	if u.Interests != nil {
		set["interests"] = normalize.Tags(*u.Interests)
	}
	if u.ExperienceLevel != nil {
		set["experience_level"] = *u.ExperienceLevel
	}
	if u.TimeZone != nil {
		set["time_zone"] = *u.TimeZone
	}
	setOnInsert := bson.M{"created_at": now}
	if u.DisplayName == nil {
		setOnInsert["display_name"] = normalize.Name(u.InsertName)
	}
	if u.ResetAvatar {
		set["avatar_seed"] = uuid.NewString()
	} else {
		setOnInsert["avatar_seed"] = uuid.NewString()
	}

	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)
	var p models.Profile
	err := s.c.FindOneAndUpdate(ctx,
		bson.M{"_id": userID},
		bson.M{"$set": set, "$setOnInsert": setOnInsert},
		opts,
	).Decode(&p)
	if err != nil {
		return models.Profile{}, err
	}
	return p, nil
}

// CountByRole returns how many profiles chose each learning role. Profiles
// without a role are counted under "".
func (s *Store) CountByRole(ctx context.Context) (map[string]int, error) {
	cur, err := s.c.Aggregate(ctx, mongo.Pipeline{
		{{Key: "$group", Value: bson.M{"_id": bson.M{"$ifNull": bson.A{"$role", ""}}, "n": bson.M{"$sum": 1}}}},
	})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var rows []struct {
		Role string `bson:"_id"`
		N    int    `bson:"n"`
	}
	if err := cur.All(ctx, &rows); err != nil {
		return nil, err
	}
	out := make(map[string]int, len(rows))
	for _, r := range rows {
		out[r.Role] = r.N
	}
	return out, nil
}
