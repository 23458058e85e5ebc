// internal/domain/models/note.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Note is a learner's rich-text note, optionally attached to a guide.
type Note struct {
	ID      primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID  primitive.ObjectID `bson:"user_id" json:"-"`
	Title   string             `bson:"title" json:"title"`
	TitleCI string             `bson:"title_ci" json:"-"`
	Content string             `bson:"content" json:"content"` // sanitized HTML
	Tags    []string           `bson:"tags,omitempty" json:"tags"`
	GuideID string             `bson:"guide_id,omitempty" json:"guide_id,omitempty"`
	Pinned  bool               `bson:"pinned" json:"pinned"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
