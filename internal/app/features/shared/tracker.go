// Package shared holds helpers used by more than one feature.
package shared

import (
	"context"

	"github.com/dalemusser/agenseek/internal/app/store/activity"
	"github.com/dalemusser/agenseek/internal/app/system/metrics"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Tracker appends to the activity log on behalf of handlers. Recording is
// best effort: a failed write is logged and counted but never fails the
// request that caused it.
type Tracker struct {
	Store   *activity.Store
	Metrics *metrics.Metrics
	Log     *zap.Logger
}

// NewTracker constructs a Tracker.
func NewTracker(store *activity.Store, m *metrics.Metrics, logger *zap.Logger) *Tracker {
	return &Tracker{Store: store, Metrics: m, Log: logger}
}

// Record logs one activity of kind by userID about targetID.
func (t *Tracker) Record(ctx context.Context, userID primitive.ObjectID, kind, targetID string, meta map[string]string) {
	if t == nil || t.Store == nil {
		return
	}
	if err := t.Store.Record(ctx, userID, kind, targetID, meta); err != nil {
		t.Metrics.StoreError("activity_record")
		if t.Log != nil {
			t.Log.Warn("record activity failed",
				zap.String("user_id", userID.Hex()),
				zap.String("activity_type", kind),
				zap.Error(err))
		}
		return
	}
	t.Metrics.ActivityRecorded(kind)
}
