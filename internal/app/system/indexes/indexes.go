// internal/app/system/indexes/indexes.go
package indexes

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// Collection names shared by the stores.
const (
	Users      = "users"
	Profiles   = "profiles"
	Progress   = "guide_progress"
	Activities = "activities"
	Notes      = "notes"
	Tasks      = "tasks"
)

/*
EnsureAll is called at startup. Every collection is reconciled even when an
earlier one fails; the errors are joined so startup can fail fast with the
whole picture.
*/
func EnsureAll(ctx context.Context, db *mongo.Database) error {
	var problems []string
	for _, spec := range desired() {
		if err := ensureIndexSet(ctx, db.Collection(spec.coll), spec.models); err != nil {
			problems = append(problems, spec.coll+": "+err.Error())
		}
	}
	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}

type collIndexes struct {
	coll   string
	models []mongo.IndexModel
}

func idx(name string, unique bool, keys ...bson.E) mongo.IndexModel {
	opts := options.Index().SetName(name)
	if unique {
		opts.SetUnique(true)
	}
	return mongo.IndexModel{Keys: bson.D(keys), Options: opts}
}

func asc(k string) bson.E  { return bson.E{Key: k, Value: 1} }
func desc(k string) bson.E { return bson.E{Key: k, Value: -1} }

func desired() []collIndexes {
	return []collIndexes{
		{Users, []mongo.IndexModel{
			idx("uniq_users_email", true, asc("email")),
			idx("idx_users_fullnameci__id", false, asc("full_name_ci"), asc("_id")),
			idx("idx_users_role", false, asc("role")),
		}},
		// profiles are keyed by the user's _id; nothing extra needed beyond
		// the role lookup admin stats use.
		{Profiles, []mongo.IndexModel{
			idx("idx_profiles_role", false, asc("role")),
		}},
		{Progress, []mongo.IndexModel{
			idx("uniq_progress_user_guide", true, asc("user_id"), asc("guide_id")),
			idx("idx_progress_user_lastread", false, asc("user_id"), desc("last_read_at")),
			idx("idx_progress_user_completedat", false, asc("user_id"), desc("completed_at")),
		}},
		{Activities, []mongo.IndexModel{
			idx("idx_activities_user_createdat", false, asc("user_id"), desc("created_at")),
			idx("idx_activities_type_createdat", false, asc("activity_type"), desc("created_at")),
		}},
		{Notes, []mongo.IndexModel{
			idx("idx_notes_user_pinned_updatedat", false, asc("user_id"), desc("pinned"), desc("updated_at")),
			idx("idx_notes_user_tags", false, asc("user_id"), asc("tags")),
		}},
		{Tasks, []mongo.IndexModel{
			idx("idx_tasks_user_status_position", false, asc("user_id"), asc("status"), asc("position")),
			idx("idx_tasks_user_createdat", false, asc("user_id"), desc("created_at")),
		}},
	}
}

type existingIndex struct {
	Name   string `bson:"name"`
	Key    bson.D `bson:"key"`
	Unique bool   `bson:"unique,omitempty"`
}

func keySig(keys bson.D) string {
	parts := make([]string, 0, len(keys))
	for _, kv := range keys {
		parts = append(parts, fmt.Sprintf("%s:%v", kv.Key, kv.Value))
	}
	return strings.Join(parts, ",")
}

// ensureIndexSet creates missing indexes. An existing index on the same keys
// is reused when uniqueness matches; a differing name or uniqueness is
// dropped and recreated.
func ensureIndexSet(ctx context.Context, coll *mongo.Collection, want []mongo.IndexModel) error {
	existing := map[string]existingIndex{}
	cur, err := coll.Indexes().List(ctx)
	if err != nil {
		return fmt.Errorf("list indexes: %w", err)
	}
	var list []existingIndex
	if err := cur.All(ctx, &list); err != nil {
		return fmt.Errorf("decode indexes: %w", err)
	}
	for _, ex := range list {
		existing[keySig(ex.Key)] = ex
	}

	var errs []string
	for _, m := range want {
		name := *m.Options.Name
		unique := m.Options.Unique != nil && *m.Options.Unique
		sig := keySig(m.Keys.(bson.D))

		if ex, ok := existing[sig]; ok {
			if ex.Unique == unique && ex.Name == name {
				continue
			}
			zap.L().Info("recreating index",
				zap.String("collection", coll.Name()),
				zap.String("from", ex.Name),
				zap.String("to", name),
				zap.Bool("unique", unique))
			if _, err := coll.Indexes().DropOne(ctx, ex.Name); err != nil {
				errs = append(errs, fmt.Sprintf("%s: drop %s: %v", name, ex.Name, err))
				continue
			}
		}

		if _, err := coll.Indexes().CreateOne(ctx, m); err != nil {
			if unique && mongo.IsDuplicateKeyError(err) {
				errs = append(errs, fmt.Sprintf("%s: cannot create unique index, duplicates present", name))
				continue
			}
			errs = append(errs, fmt.Sprintf("%s: %v", name, err))
			continue
		}
		zap.L().Info("index created",
			zap.String("collection", coll.Name()),
			zap.String("name", name),
			zap.String("keys", sig))
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}
