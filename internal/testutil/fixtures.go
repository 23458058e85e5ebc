package testutil

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/dalemusser/agenseek/internal/app/system/indexes"
	"github.com/dalemusser/agenseek/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"
)

// TestPassword is the password of every fixture user.
const TestPassword = "correct-horse-battery"

// WithChiURLParam adds a chi URL parameter to the request context.
// Use this in handler tests that read chi.URLParam values.
func WithChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.RouteContext(r.Context())
	if rctx == nil {
		rctx = chi.NewRouteContext()
	}
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// Fixtures inserts test data directly, bypassing the stores.
type Fixtures struct {
	db *mongo.Database
	t  *testing.T
}

// NewFixtures creates a new Fixtures instance for the given test database.
func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// DB returns the underlying database for direct access in tests.
func (f *Fixtures) DB() *mongo.Database {
	return f.db
}

func (f *Fixtures) insert(ctx context.Context, coll string, doc any) {
	f.t.Helper()
	if _, err := f.db.Collection(coll).InsertOne(ctx, doc); err != nil {
		f.t.Fatalf("failed to insert into %s: %v", coll, err)
	}
}

// CreateUser inserts an active account with TestPassword.
func (f *Fixtures) CreateUser(ctx context.Context, fullName, email, role string) models.User {
	f.t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(TestPassword), bcrypt.MinCost)
	if err != nil {
		f.t.Fatalf("bcrypt: %v", err)
	}
	now := time.Now().UTC()
	u := models.User{
		ID:           primitive.NewObjectID(),
		FullName:     fullName,
		FullNameCI:   text.Fold(fullName),
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
		Status:       models.StatusActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	f.insert(ctx, indexes.Users, u)
	return u
}

// CreateAdmin inserts an admin account.
func (f *Fixtures) CreateAdmin(ctx context.Context, fullName, email string) models.User {
	f.t.Helper()
	return f.CreateUser(ctx, fullName, email, models.RoleAdmin)
}

// CreateLearner inserts a learner account.
func (f *Fixtures) CreateLearner(ctx context.Context, fullName, email string) models.User {
	f.t.Helper()
	return f.CreateUser(ctx, fullName, email, models.RoleLearner)
}

// CreateProfile inserts a learning profile for userID.
func (f *Fixtures) CreateProfile(ctx context.Context, userID primitive.ObjectID, role string, interests ...string) models.Profile {
	f.t.Helper()
	now := time.Now().UTC()
	p := models.Profile{
		UserID:      userID,
		DisplayName: "Test Learner",
		Role:        role,
		Interests:   interests,
		AvatarSeed:  primitive.NewObjectID().Hex(),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	f.insert(ctx, indexes.Profiles, p)
	return p
}

// CreateProgress inserts a progress record. A percent of 100 marks it
// completed at lastRead.
func (f *Fixtures) CreateProgress(ctx context.Context, userID primitive.ObjectID, guideID string, percent int, lastRead time.Time) models.GuideProgress {
	f.t.Helper()
	p := models.GuideProgress{
		ID:               primitive.NewObjectID(),
		UserID:           userID,
		GuideID:          guideID,
		ProgressPercent:  percent,
		TimeSpentSeconds: int64(percent) * 6,
		LastReadAt:       lastRead.UTC(),
	}
	if percent >= 100 {
		done := lastRead.UTC()
		p.Completed = true
		p.CompletedAt = &done
	}
	f.insert(ctx, indexes.Progress, p)
	return p
}

// CreateActivity inserts an activity log entry.
func (f *Fixtures) CreateActivity(ctx context.Context, userID primitive.ObjectID, activityType, targetID string, at time.Time) models.Activity {
	f.t.Helper()
	a := models.Activity{
		ID:           primitive.NewObjectID(),
		UserID:       userID,
		ActivityType: activityType,
		TargetID:     targetID,
		CreatedAt:    at.UTC(),
	}
	f.insert(ctx, indexes.Activities, a)
	return a
}

// CreateNote inserts a note.
func (f *Fixtures) CreateNote(ctx context.Context, userID primitive.ObjectID, title string, tags ...string) models.Note {
	f.t.Helper()
	now := time.Now().UTC()
	n := models.Note{
		ID:        primitive.NewObjectID(),
		UserID:    userID,
		Title:     title,
		TitleCI:   text.Fold(title),
		Content:   "<p>" + title + "</p>",
		Tags:      tags,
		CreatedAt: now,
		UpdatedAt: now,
	}
	f.insert(ctx, indexes.Notes, n)
	return n
}

// CreateTask inserts a task in the given column.
func (f *Fixtures) CreateTask(ctx context.Context, userID primitive.ObjectID, title, status string, position int) models.Task {
	f.t.Helper()
	now := time.Now().UTC()
	task := models.Task{
		ID:        primitive.NewObjectID(),
		UserID:    userID,
		Title:     title,
		Status:    status,
		Priority:  models.PriorityMedium,
		Position:  position,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if status == models.TaskDone {
		task.CompletedAt = &now
	}
	f.insert(ctx, indexes.Tasks, task)
	return task
}
