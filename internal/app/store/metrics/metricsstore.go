package metricsstore

import (
	"context"
	"time"

	"github.com/dalemusser/agenseek/internal/app/system/indexes"
	"github.com/dalemusser/agenseek/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// Counts is the set of platform totals shown on the admin stats page.
type Counts struct {
	Users           int64 `json:"users"`
	Learners        int64 `json:"learners"`
	Admins          int64 `json:"admins"`
	ProgressRecords int64 `json:"progress_records"`
	Completions     int64 `json:"completions"`
	Notes           int64 `json:"notes"`
	Tasks           int64 `json:"tasks"`
	ActiveThisWeek  int64 `json:"active_this_week"`
}

// FetchAdminCounts returns the platform totals. Intentionally tolerant: on
// error it returns 0 for that counter and reports the failed counter names
// so the caller can log them.
func FetchAdminCounts(ctx context.Context, db *mongo.Database, now time.Time) (Counts, []string) {
	var out Counts
	var failed []string

	count := func(name, coll string, filter bson.M, dst *int64) {
		n, err := db.Collection(coll).CountDocuments(ctx, filter)
		if err != nil {
			failed = append(failed, name)
			return
		}
		*dst = n
	}

	count("users", indexes.Users, bson.M{}, &out.Users)
	count("learners", indexes.Users, bson.M{"role": models.RoleLearner}, &out.Learners)
	count("admins", indexes.Users, bson.M{"role": models.RoleAdmin}, &out.Admins)
	count("progress_records", indexes.Progress, bson.M{}, &out.ProgressRecords)
	count("completions", indexes.Progress, bson.M{"completed": true}, &out.Completions)
	count("notes", indexes.Notes, bson.M{}, &out.Notes)
	count("tasks", indexes.Tasks, bson.M{}, &out.Tasks)

	// active this week: distinct users with any activity in the last 7 days
	since := now.UTC().AddDate(0, 0, -7)
	ids, err := db.Collection(indexes.Activities).Distinct(ctx, "user_id",
		bson.M{"created_at": bson.M{"$gte": since}})
	if err != nil {
		failed = append(failed, "active_this_week")
	} else {
		out.ActiveThisWeek = int64(len(ids))
	}

	return out, failed
}
