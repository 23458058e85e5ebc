// internal/domain/models/activity.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Activity types written to the activity log.
const (
	ActivityLogin         = "login"
	ActivityGuideView     = "guide_view"
	ActivityGuideComplete = "guide_complete"
	ActivityNoteCreate    = "note_create"
	ActivityTaskCreate    = "task_create"
	ActivityTaskComplete  = "task_complete"
)

// Activity is an append-only record of something a user did.
type Activity struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID       primitive.ObjectID `bson:"user_id" json:"user_id"`
	ActivityType string             `bson:"activity_type" json:"activity_type"`
	TargetID     string             `bson:"target_id,omitempty" json:"target_id,omitempty"`
	Metadata     map[string]string  `bson:"metadata,omitempty" json:"metadata,omitempty"`
	CreatedAt    time.Time          `bson:"created_at" json:"created_at"`
}
