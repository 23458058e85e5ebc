// internal/domain/models/progress.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// GuideProgress records how far a user got in one guide.
// The (user_id, guide_id) pair is unique.
type GuideProgress struct {
	ID               primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	UserID           primitive.ObjectID `bson:"user_id" json:"-"`
	GuideID          string             `bson:"guide_id" json:"guide_id"`
	Completed        bool               `bson:"completed" json:"completed"`
	ProgressPercent  int                `bson:"progress_percent" json:"progress_percent"`
	TimeSpentSeconds int64              `bson:"time_spent_seconds" json:"time_spent_seconds"`
	LastReadAt       time.Time          `bson:"last_read_at" json:"last_read_at"`
	CompletedAt      *time.Time         `bson:"completed_at,omitempty" json:"completed_at,omitempty"`
}
