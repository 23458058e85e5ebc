package validators_test

import (
	"testing"
	"time"

	"github.com/dalemusser/agenseek/internal/app/system/indexes"
	"github.com/dalemusser/agenseek/internal/app/system/validators"
	"github.com/dalemusser/agenseek/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestEnsureAll_Idempotent(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := validators.EnsureAll(ctx, db); err != nil {
		t.Fatalf("First EnsureAll failed: %v", err)
	}
	if err := validators.EnsureAll(ctx, db); err != nil {
		t.Fatalf("Second EnsureAll failed: %v", err)
	}
}

func TestProgressValidator_RejectsOutOfRangePercent(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := validators.EnsureAll(ctx, db); err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}

	coll := db.Collection(indexes.Progress)
	good := bson.M{
		"user_id":          primitive.NewObjectID(),
		"guide_id":         "welcome",
		"completed":        false,
		"progress_percent": 40,
	}
	if _, err := coll.InsertOne(ctx, good); err != nil {
		t.Fatalf("valid progress rejected: %v", err)
	}

	bad := bson.M{
		"user_id":          primitive.NewObjectID(),
		"guide_id":         "welcome",
		"completed":        false,
		"progress_percent": 140,
	}
	if _, err := coll.InsertOne(ctx, bad); err == nil {
		t.Error("expected progress_percent 140 to be rejected")
	}
}

func TestTaskValidator_RejectsUnknownStatus(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := validators.EnsureAll(ctx, db); err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}

	_, err := db.Collection(indexes.Tasks).InsertOne(ctx, bson.M{
		"user_id":    primitive.NewObjectID(),
		"title":      "Read the quick start",
		"status":     "blocked",
		"priority":   "low",
		"position":   0,
		"created_at": time.Now(),
	})
	if err == nil {
		t.Error("expected unknown task status to be rejected")
	}
}
