package shared_test

import (
	"testing"

	"github.com/dalemusser/agenseek/internal/app/features/shared"
	"github.com/dalemusser/agenseek/internal/app/store/activity"
	"github.com/dalemusser/agenseek/internal/app/system/metrics"
	"github.com/dalemusser/agenseek/internal/domain/models"
	"github.com/dalemusser/agenseek/internal/testutil"
	promtest "github.com/prometheus/client_golang/prometheus/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

func TestTracker_Record(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	store := activity.New(db)
	m := metrics.New()
	tr := shared.NewTracker(store, m, zap.NewNop())

	userID := primitive.NewObjectID()
	tr.Record(ctx, userID, models.ActivityGuideView, "intro", nil)

	events, err := store.ListByUser(ctx, userID, 5)
	if err != nil {
		t.Fatalf("ListByUser: %v", err)
	}
	if len(events) != 1 || events[0].TargetID != "intro" {
		t.Errorf("events = %+v", events)
	}
	if n, err := promtest.GatherAndCount(m.Registry(), "agenseek_activity_recorded_total"); err != nil || n != 1 {
		t.Errorf("activity_recorded_total series = %d, %v", n, err)
	}
}

func TestTracker_NilIsNoop(t *testing.T) {
	var tr *shared.Tracker
	ctx, cancel := testutil.TestContext()
	defer cancel()
	tr.Record(ctx, primitive.NewObjectID(), models.ActivityLogin, "", nil)
}
