package indexes_test

import (
	"testing"

	"github.com/dalemusser/agenseek/internal/app/system/indexes"
	"github.com/dalemusser/agenseek/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

func indexNames(t *testing.T, db *mongo.Database, coll string) map[string]bool {
	t.Helper()
	ctx, cancel := testutil.TestContext()
	defer cancel()

	cur, err := db.Collection(coll).Indexes().List(ctx)
	if err != nil {
		t.Fatalf("List indexes on %s failed: %v", coll, err)
	}
	var list []bson.M
	if err := cur.All(ctx, &list); err != nil {
		t.Fatalf("decode indexes: %v", err)
	}
	names := make(map[string]bool, len(list))
	for _, idx := range list {
		if name, ok := idx["name"].(string); ok {
			names[name] = true
		}
	}
	return names
}

func TestEnsureAll_Idempotent(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := indexes.EnsureAll(ctx, db); err != nil {
		t.Fatalf("First EnsureAll failed: %v", err)
	}
	if err := indexes.EnsureAll(ctx, db); err != nil {
		t.Fatalf("Second EnsureAll failed: %v", err)
	}
}

func TestEnsureAll_CreatesNamedIndexes(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := indexes.EnsureAll(ctx, db); err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}

	tests := []struct {
		coll  string
		names []string
	}{
		{indexes.Users, []string{"uniq_users_email", "idx_users_fullnameci__id", "idx_users_role"}},
		{indexes.Progress, []string{"uniq_progress_user_guide", "idx_progress_user_lastread", "idx_progress_user_completedat"}},
		{indexes.Activities, []string{"idx_activities_user_createdat", "idx_activities_type_createdat"}},
		{indexes.Notes, []string{"idx_notes_user_pinned_updatedat", "idx_notes_user_tags"}},
		{indexes.Tasks, []string{"idx_tasks_user_status_position", "idx_tasks_user_createdat"}},
	}
	for _, tc := range tests {
		got := indexNames(t, db, tc.coll)
		for _, name := range tc.names {
			if !got[name] {
				t.Errorf("expected index %q on %s", name, tc.coll)
			}
		}
	}
}

func TestEnsureAll_RenamesLegacyIndex(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	legacy := mongo.IndexModel{Keys: bson.D{{Key: "role", Value: 1}}}
	if _, err := db.Collection(indexes.Users).Indexes().CreateOne(ctx, legacy); err != nil {
		t.Fatalf("create legacy index: %v", err)
	}

	if err := indexes.EnsureAll(ctx, db); err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}

	got := indexNames(t, db, indexes.Users)
	if got["role_1"] {
		t.Error("expected legacy index role_1 to be replaced")
	}
	if !got["idx_users_role"] {
		t.Error("expected idx_users_role to exist")
	}
}
