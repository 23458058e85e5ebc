// internal/app/system/validators/validators.go
package validators

import (
	"context"
	"errors"
	"strings"

	"github.com/dalemusser/agenseek/internal/app/system/indexes"
	"github.com/dalemusser/agenseek/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// EnsureAll creates the collections (if missing) and attaches JSON-Schema
// validators. Deployments that don't support collMod validators (some
// DocumentDB versions) are logged and skipped.
func EnsureAll(ctx context.Context, db *mongo.Database) error {
	var problems []string

	ensure := func(coll string, schema bson.M) {
		if err := ensureCollection(ctx, db, coll); err != nil {
			problems = append(problems, coll+": "+err.Error())
			return
		}
		if schema == nil {
			return
		}
		if err := setValidator(ctx, db, coll, schema); err != nil {
			if isUnsupported(err) {
				zap.L().Info("validator skipped (unsupported)", zap.String("collection", coll))
				return
			}
			problems = append(problems, coll+": "+err.Error())
		}
	}

	ensure(indexes.Users, usersSchema())
	ensure(indexes.Profiles, profilesSchema())
	ensure(indexes.Progress, progressSchema())
	ensure(indexes.Activities, activitiesSchema())
	ensure(indexes.Notes, notesSchema())
	ensure(indexes.Tasks, tasksSchema())

	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}

func ensureCollection(ctx context.Context, db *mongo.Database, name string) error {
	names, err := db.ListCollectionNames(ctx, bson.M{"name": name})
	if err == nil && len(names) > 0 {
		return nil
	}
	if err := db.CreateCollection(ctx, name); err != nil {
		var ce mongo.CommandError
		if errors.As(err, &ce) && ce.Code == 48 { // NamespaceExists: lost a race
			return nil
		}
		return err
	}
	zap.L().Info("created collection", zap.String("collection", name))
	return nil
}

func setValidator(ctx context.Context, db *mongo.Database, name string, validator bson.M) error {
	cmd := bson.D{
		{Key: "collMod", Value: name},
		{Key: "validator", Value: validator},
		{Key: "validationLevel", Value: "moderate"},
		{Key: "validationAction", Value: "error"},
	}
	return db.RunCommand(ctx, cmd).Err()
}

// isUnsupported matches "no such command" (59) and "not implemented" (115).
func isUnsupported(err error) bool {
	var ce mongo.CommandError
	if errors.As(err, &ce) && (ce.Code == 59 || ce.Code == 115) {
		return true
	}
	s := strings.ToLower(err.Error())
	return strings.Contains(s, "no such command") ||
		strings.Contains(s, "not implemented") ||
		strings.Contains(s, "not supported")
}

/* ------------------------- JSON-Schema docs ---------------------- */

var (
	nonBlank = bson.M{"bsonType": "string", "minLength": 1, "pattern": ".*\\S.*"}
	integer  = bson.A{"int", "long"}
)

func enum(vals ...string) bson.M {
	a := bson.A{}
	for _, v := range vals {
		a = append(a, v)
	}
	return bson.M{"enum": a}
}

func usersSchema() bson.M {
	return bson.M{
		"$jsonSchema": bson.M{
			"bsonType": "object",
			"required": bson.A{"full_name", "email", "password_hash", "role", "status"},
			"properties": bson.M{
				"full_name":     nonBlank,
				"full_name_ci":  nonBlank,
				"email":         nonBlank,
				"password_hash": nonBlank,
				"role":          enum(models.RoleAdmin, models.RoleLearner),
				"status":        enum(models.StatusActive, models.StatusDisabled),
			},
		},
	}
}

func profilesSchema() bson.M {
	return bson.M{
		"$jsonSchema": bson.M{
			"bsonType": "object",
			"required": bson.A{"display_name", "created_at"},
			"properties": bson.M{
				"display_name": nonBlank,
				"role":         bson.M{"bsonType": "string"},
				"interests":    bson.M{"bsonType": "array", "items": bson.M{"bsonType": "string"}},
				"experience_level": bson.M{"enum": bson.A{
					"", models.ExperienceBeginner, models.ExperienceIntermediate, models.ExperienceAdvanced,
				}},
				"created_at": bson.M{"bsonType": "date"},
			},
		},
	}
}

func progressSchema() bson.M {
	return bson.M{
		"$jsonSchema": bson.M{
			"bsonType": "object",
			"required": bson.A{"user_id", "guide_id", "completed", "progress_percent"},
			"properties": bson.M{
				"user_id":            bson.M{"bsonType": "objectId"},
				"guide_id":           nonBlank,
				"completed":          bson.M{"bsonType": "bool"},
				"progress_percent":   bson.M{"bsonType": integer, "minimum": 0, "maximum": 100},
				"time_spent_seconds": bson.M{"bsonType": integer, "minimum": 0},
			},
		},
	}
}

func activitiesSchema() bson.M {
	return bson.M{
		"$jsonSchema": bson.M{
			"bsonType": "object",
			"required": bson.A{"user_id", "activity_type", "created_at"},
			"properties": bson.M{
				"user_id": bson.M{"bsonType": "objectId"},
				"activity_type": enum(
					models.ActivityLogin,
					models.ActivityGuideView,
					models.ActivityGuideComplete,
					models.ActivityNoteCreate,
					models.ActivityTaskCreate,
					models.ActivityTaskComplete,
				),
				"created_at": bson.M{"bsonType": "date"},
			},
		},
	}
}

func notesSchema() bson.M {
	return bson.M{
		"$jsonSchema": bson.M{
			"bsonType": "object",
			"required": bson.A{"user_id", "title", "title_ci"},
			"properties": bson.M{
				"user_id":  bson.M{"bsonType": "objectId"},
				"title":    nonBlank,
				"title_ci": nonBlank,
				"content":  bson.M{"bsonType": "string"},
				"tags":     bson.M{"bsonType": "array", "items": bson.M{"bsonType": "string"}},
				"pinned":   bson.M{"bsonType": "bool"},
			},
		},
	}
}

func tasksSchema() bson.M {
	return bson.M{
		"$jsonSchema": bson.M{
			"bsonType": "object",
			"required": bson.A{"user_id", "title", "status", "priority", "position"},
			"properties": bson.M{
				"user_id":  bson.M{"bsonType": "objectId"},
				"title":    nonBlank,
				"status":   enum(models.TaskTodo, models.TaskInProgress, models.TaskDone),
				"priority": enum(models.PriorityLow, models.PriorityMedium, models.PriorityHigh),
				"position": bson.M{"bsonType": integer, "minimum": 0},
			},
		},
	}
}
