package profile_test

import (
	"net/http"
	"strings"
	"testing"
	"time"

	uierrors "github.com/dalemusser/agenseek/internal/app/features/errors"
	"github.com/dalemusser/agenseek/internal/app/features/profile"
	profilestore "github.com/dalemusser/agenseek/internal/app/store/profiles"
	userstore "github.com/dalemusser/agenseek/internal/app/store/users"
	"github.com/dalemusser/agenseek/internal/app/system/auth"
	"github.com/dalemusser/agenseek/internal/domain/models"
	"github.com/dalemusser/agenseek/internal/testutil"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

func newTestHandler(t *testing.T) (*profile.Handler, *testutil.Fixtures) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	logger := zap.NewNop()
	sm, err := auth.NewSessionManager("test-session-key-for-testing-only-0123456789", "test-session", "", time.Hour, false, logger)
	if err != nil {
		t.Fatalf("NewSessionManager failed: %v", err)
	}
	h := profile.NewHandler(
		userstore.New(db).WithCost(bcrypt.MinCost),
		profilestore.New(db),
		sm,
		uierrors.NewErrorLogger(logger),
		"https://api.dicebear.com/9.x/thumbs/svg",
		"Asia/Jerusalem",
		logger,
	)
	return h, testutil.NewFixtures(t, db)
}

type profileBody struct {
	User       models.User    `json:"user"`
	Profile    models.Profile `json:"profile"`
	AvatarURL  string         `json:"avatar_url"`
	KnownRoles []string       `json:"known_roles"`
}

func TestServeProfile(t *testing.T) {
	h, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	u := fixtures.CreateLearner(ctx, "Avi", "avi@example.com")
	p := fixtures.CreateProfile(ctx, u.ID, "designer", "ux")

	rec := testutil.NewRecorder()
	h.ServeProfile(rec, testutil.NewAuthenticatedRequest("GET", "/profile", testutil.UserFrom(u)))
	rec.AssertStatus(t, http.StatusOK)

	var body profileBody
	rec.DecodeJSON(t, &body)
	if body.Profile.Role != "designer" || body.User.Email != "avi@example.com" {
		t.Errorf("body = %+v", body)
	}
	if !strings.HasSuffix(body.AvatarURL, "?seed="+p.AvatarSeed) {
		t.Errorf("AvatarURL = %q", body.AvatarURL)
	}
	if len(body.KnownRoles) == 0 {
		t.Error("expected known roles")
	}
}

func TestServeProfile_NoProfileYet(t *testing.T) {
	h, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	u := fixtures.CreateLearner(ctx, "New", "new@example.com")

	rec := testutil.NewRecorder()
	h.ServeProfile(rec, testutil.NewAuthenticatedRequest("GET", "/profile", testutil.UserFrom(u)))
	rec.AssertStatus(t, http.StatusOK)
	rec.AssertContains(t, `"interests":[]`)
}

func TestHandleUpdate(t *testing.T) {
	h, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	u := fixtures.CreateLearner(ctx, "Rina", "rina@example.com")
	fixtures.CreateProfile(ctx, u.ID, "student")

	req := testutil.NewJSONRequest(t, "PUT", "/profile", map[string]any{
		"role":      "developer",
		"interests": []string{"Agents", "RAG"},
		"time_zone": "Europe/London",
	})
	req = testutil.WithUser(req, testutil.UserFrom(u))
	rec := testutil.NewRecorder()
	h.HandleUpdate(rec, req)
	rec.AssertStatus(t, http.StatusOK)

	var body profileBody
	rec.DecodeJSON(t, &body)
	if body.Profile.Role != "developer" || body.Profile.TimeZone != "Europe/London" {
		t.Errorf("profile = %+v", body.Profile)
	}
	if len(body.Profile.Interests) != 2 || body.Profile.Interests[1] != "rag" {
		t.Errorf("interests = %v", body.Profile.Interests)
	}
	if !strings.Contains(rec.Header().Get("Set-Cookie"), "test-session=") {
		t.Error("expected session refresh after time zone change")
	}
}

func TestHandleUpdate_Invalid(t *testing.T) {
	h, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	u := fixtures.CreateLearner(ctx, "Rina", "rina@example.com")

	tests := []struct {
		name string
		body map[string]any
	}{
		{"blank display name", map[string]any{"display_name": "  "}},
		{"bad experience", map[string]any{"experience_level": "wizard"}},
		{"bad zone", map[string]any{"time_zone": "Nowhere/City"}},
		{"unknown field", map[string]any{"email": "x@example.com"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := testutil.WithUser(testutil.NewJSONRequest(t, "PUT", "/profile", tt.body), testutil.UserFrom(u))
			rec := testutil.NewRecorder()
			h.HandleUpdate(rec, req)
			rec.AssertStatus(t, http.StatusBadRequest)
		})
	}
}

func TestHandlePassword(t *testing.T) {
	h, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	u := fixtures.CreateLearner(ctx, "Pass", "pass@example.com")
	user := testutil.UserFrom(u)

	wrong := testutil.WithUser(testutil.NewJSONRequest(t, "PUT", "/profile/password", map[string]string{
		"current_password": "not-it", "new_password": "another-password",
	}), user)
	rec := testutil.NewRecorder()
	h.HandlePassword(rec, wrong)
	rec.AssertStatus(t, http.StatusForbidden)

	good := testutil.WithUser(testutil.NewJSONRequest(t, "PUT", "/profile/password", map[string]string{
		"current_password": testutil.TestPassword, "new_password": "another-password",
	}), user)
	rec = testutil.NewRecorder()
	h.HandlePassword(rec, good)
	rec.AssertStatus(t, http.StatusNoContent)

	if _, err := h.Users.Authenticate(ctx, "pass@example.com", "another-password"); err != nil {
		t.Errorf("new password rejected: %v", err)
	}
}

func TestServeTimeZones(t *testing.T) {
	h, _ := newTestHandler(t)

	tests := []struct {
		name      string
		user      testutil.TestUser
		wantZone  string
		wantLabel string
	}{
		{"session zone", testutil.LearnerUser(), "Asia/Jerusalem", "Israel (Jerusalem)"},
		{"other session zone", testutil.TestUser{ID: "x", Role: models.RoleLearner, TimeZone: "Europe/London"}, "Europe/London", "UK (London)"},
		{"no zone falls back", testutil.AdminUser(), "Asia/Jerusalem", "Israel (Jerusalem)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := testutil.NewRecorder()
			h.ServeTimeZones(rec, testutil.NewAuthenticatedRequest("GET", "/profile/timezones", tt.user))
			rec.AssertStatus(t, http.StatusOK)

			var body struct {
				Current      string `json:"current"`
				CurrentLabel string `json:"current_label"`
				Groups       []struct {
					Region string `json:"region"`
				} `json:"groups"`
			}
			rec.DecodeJSON(t, &body)
			if body.Current != tt.wantZone || body.CurrentLabel != tt.wantLabel {
				t.Errorf("current = %q (%q), want %q (%q)", body.Current, body.CurrentLabel, tt.wantZone, tt.wantLabel)
			}
			if len(body.Groups) == 0 {
				t.Error("expected zone groups")
			}
		})
	}
}
