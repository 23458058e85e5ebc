// internal/domain/models/profile.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Experience levels a learner can pick during onboarding.
const (
	ExperienceBeginner     = "beginner"
	ExperienceIntermediate = "intermediate"
	ExperienceAdvanced     = "advanced"
)

// Profile holds a user's learning preferences. One per user; _id is the user ID.
type Profile struct {
	UserID          primitive.ObjectID `bson:"_id" json:"user_id"`
	DisplayName     string             `bson:"display_name" json:"display_name"`
	Role            string             `bson:"role,omitempty" json:"role,omitempty"`
	Interests       []string           `bson:"interests,omitempty" json:"interests"`
	ExperienceLevel string             `bson:"experience_level,omitempty" json:"experience_level,omitempty"`
	AvatarSeed      string             `bson:"avatar_seed" json:"avatar_seed"`
	TimeZone        string             `bson:"time_zone,omitempty" json:"time_zone,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
