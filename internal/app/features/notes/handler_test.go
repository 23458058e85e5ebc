package notes_test

import (
	"net/http"
	"strings"
	"testing"

	"github.com/dalemusser/agenseek/internal/app/catalog"
	uierrors "github.com/dalemusser/agenseek/internal/app/features/errors"
	"github.com/dalemusser/agenseek/internal/app/features/notes"
	"github.com/dalemusser/agenseek/internal/app/features/shared"
	"github.com/dalemusser/agenseek/internal/app/store/activity"
	notestore "github.com/dalemusser/agenseek/internal/app/store/notes"
	"github.com/dalemusser/agenseek/internal/app/system/indexes"
	"github.com/dalemusser/agenseek/internal/domain/models"
	"github.com/dalemusser/agenseek/internal/testutil"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

func newTestHandler(t *testing.T) (*notes.Handler, *testutil.Fixtures, *mongo.Database) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	if err := indexes.EnsureAll(ctx, db); err != nil {
		t.Fatalf("EnsureAll: %v", err)
	}
	cat, err := catalog.Load()
	if err != nil {
		t.Fatalf("catalog.Load: %v", err)
	}
	logger := zap.NewNop()
	h := notes.NewHandler(
		notestore.New(db),
		cat,
		shared.NewTracker(activity.New(db), nil, logger),
		uierrors.NewErrorLogger(logger),
		logger,
	)
	return h, testutil.NewFixtures(t, db), db
}

func TestHandleCreate(t *testing.T) {
	h, _, db := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	user := testutil.LearnerUser()

	req := testutil.WithUser(testutil.NewJSONRequest(t, "POST", "/notes", map[string]any{
		"title":    "  Agents  summary ",
		"content":  `<p>keep</p><script>alert(1)</script>`,
		"tags":     []string{"Agents", "agents", " review "},
		"guide_id": "agents-catalog",
	}), user)
	rec := testutil.NewRecorder()
	h.HandleCreate(rec, req)
	rec.AssertStatus(t, http.StatusCreated)

	var n models.Note
	rec.DecodeJSON(t, &n)
	if n.Title != "Agents summary" {
		t.Errorf("Title = %q", n.Title)
	}
	if strings.Contains(n.Content, "script") || !strings.Contains(n.Content, "<p>keep</p>") {
		t.Errorf("Content = %q, want sanitized", n.Content)
	}
	if len(n.Tags) != 2 {
		t.Errorf("Tags = %v, want deduplicated", n.Tags)
	}

	events, err := activity.New(db).ListByUser(ctx, user.ObjectID(), 10)
	if err != nil {
		t.Fatalf("ListByUser: %v", err)
	}
	if len(events) != 1 || events[0].ActivityType != models.ActivityNoteCreate || events[0].TargetID != n.ID.Hex() {
		t.Errorf("events = %+v", events)
	}
}

func TestHandleCreate_Invalid(t *testing.T) {
	h, _, _ := newTestHandler(t)
	tests := []struct {
		name string
		body map[string]any
	}{
		{"blank title", map[string]any{"title": "   "}},
		{"missing title", map[string]any{"content": "x"}},
		{"unknown guide", map[string]any{"title": "ok", "guide_id": "no-such-guide"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := testutil.WithUser(testutil.NewJSONRequest(t, "POST", "/notes", tt.body), testutil.LearnerUser())
			rec := testutil.NewRecorder()
			h.HandleCreate(rec, req)
			rec.AssertStatus(t, http.StatusBadRequest)
		})
	}
}

func TestServeList_Filters(t *testing.T) {
	h, fixtures, _ := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	user := testutil.LearnerUser()
	fixtures.CreateNote(ctx, user.ObjectID(), "Testing ideas", "qa")
	fixtures.CreateNote(ctx, user.ObjectID(), "Roadmap", "planning")
	fixtures.CreateNote(ctx, testutil.LearnerUser().ObjectID(), "Someone else's testing note", "qa")

	tests := []struct {
		target string
		want   int
	}{
		{"/notes", 2},
		{"/notes?q=TEST", 1},
		{"/notes?tag=planning", 1},
		{"/notes?q=nothing", 0},
	}
	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			rec := testutil.NewRecorder()
			h.ServeList(rec, testutil.NewAuthenticatedRequest("GET", tt.target, user))
			rec.AssertStatus(t, http.StatusOK)
			var body struct {
				Notes []models.Note `json:"notes"`
				Total int           `json:"total"`
			}
			rec.DecodeJSON(t, &body)
			if body.Total != tt.want || len(body.Notes) != tt.want {
				t.Errorf("total = %d, want %d", body.Total, tt.want)
			}
		})
	}
}

func TestNote_OwnershipAndLifecycle(t *testing.T) {
	h, fixtures, _ := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	owner := testutil.LearnerUser()
	stranger := testutil.LearnerUser()
	n := fixtures.CreateNote(ctx, owner.ObjectID(), "Mine")
	id := n.ID.Hex()

	withID := func(r *http.Request) *http.Request { return testutil.WithChiURLParam(r, "noteID", id) }

	rec := testutil.NewRecorder()
	h.ServeNote(rec, withID(testutil.NewAuthenticatedRequest("GET", "/notes/"+id, stranger)))
	rec.AssertStatus(t, http.StatusNotFound)

	rec = testutil.NewRecorder()
	h.ServeNote(rec, testutil.WithChiURLParam(testutil.NewAuthenticatedRequest("GET", "/notes/bad", owner), "noteID", "bad"))
	rec.AssertStatus(t, http.StatusNotFound)

	rec = testutil.NewRecorder()
	h.HandleUpdate(rec, withID(testutil.WithUser(testutil.NewJSONRequest(t, "PUT", "/notes/"+id, map[string]any{
		"title": "Renamed", "pinned": true,
	}), owner)))
	rec.AssertStatus(t, http.StatusOK)
	rec.AssertContains(t, `"title":"Renamed"`)
	rec.AssertContains(t, `"pinned":true`)

	rec = testutil.NewRecorder()
	h.HandleDelete(rec, withID(testutil.NewAuthenticatedRequest("DELETE", "/notes/"+id, stranger)))
	rec.AssertStatus(t, http.StatusNotFound)

	rec = testutil.NewRecorder()
	h.HandleDelete(rec, withID(testutil.NewAuthenticatedRequest("DELETE", "/notes/"+id, owner)))
	rec.AssertStatus(t, http.StatusNoContent)

	rec = testutil.NewRecorder()
	h.ServeNote(rec, withID(testutil.NewAuthenticatedRequest("GET", "/notes/"+id, owner)))
	rec.AssertStatus(t, http.StatusNotFound)
}

func TestServeTags(t *testing.T) {
	h, fixtures, _ := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	user := testutil.LearnerUser()
	fixtures.CreateNote(ctx, user.ObjectID(), "A", "b-tag", "a-tag")
	fixtures.CreateNote(ctx, user.ObjectID(), "B", "a-tag")

	rec := testutil.NewRecorder()
	h.ServeTags(rec, testutil.NewAuthenticatedRequest("GET", "/notes/tags", user))
	rec.AssertStatus(t, http.StatusOK)
	rec.AssertContains(t, `"tags":["a-tag","b-tag"]`)
}
