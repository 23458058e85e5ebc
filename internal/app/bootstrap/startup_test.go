package bootstrap

import (
	"net/http"
	"strings"
	"testing"
	"time"

	userstore "github.com/dalemusser/agenseek/internal/app/store/users"
	"github.com/dalemusser/agenseek/internal/domain/models"
	"github.com/dalemusser/agenseek/internal/testutil"
	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

func testLogger() *zap.Logger {
	return zap.NewNop()
}

func TestEnsureAdmin_CreatesNew(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	users := userstore.New(db).WithCost(bcrypt.MinCost)
	if err := ensureAdmin(ctx, users, "Admin@Test.com", "admin-password", testLogger()); err != nil {
		t.Fatalf("ensureAdmin failed: %v", err)
	}

	got, err := users.Authenticate(ctx, "admin@test.com", "admin-password")
	if err != nil {
		t.Fatalf("created admin cannot sign in: %v", err)
	}
	if got.Role != models.RoleAdmin {
		t.Errorf("Role = %q, want admin", got.Role)
	}
	if got.Status != models.StatusActive {
		t.Errorf("Status = %q, want active", got.Status)
	}
}

func TestEnsureAdmin_PromotesExisting(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fixtures := testutil.NewFixtures(t, db)
	existing := fixtures.CreateLearner(ctx, "Existing User", "existing@test.com")
	users := userstore.New(db).WithCost(bcrypt.MinCost)
	if err := users.SetStatus(ctx, existing.ID, models.StatusDisabled); err != nil {
		t.Fatalf("SetStatus: %v", err)
	}

	if err := ensureAdmin(ctx, users, "existing@test.com", "ignored-password", testLogger()); err != nil {
		t.Fatalf("ensureAdmin failed: %v", err)
	}

	got, err := users.GetByID(ctx, existing.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Role != models.RoleAdmin {
		t.Errorf("Role = %q, want admin", got.Role)
	}
	if got.Status != models.StatusActive {
		t.Errorf("Status = %q, want active", got.Status)
	}
	// The existing password is kept.
	if _, err := users.Authenticate(ctx, "existing@test.com", testutil.TestPassword); err != nil {
		t.Errorf("original password rejected: %v", err)
	}
}

func TestEnsureAdmin_AlreadyAdmin(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fixtures := testutil.NewFixtures(t, db)
	existing := fixtures.CreateAdmin(ctx, "Admin", "admin@test.com")
	users := userstore.New(db)

	if err := ensureAdmin(ctx, users, "admin@test.com", "whatever-password", testLogger()); err != nil {
		t.Fatalf("ensureAdmin failed: %v", err)
	}

	got, err := users.GetByID(ctx, existing.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if !got.UpdatedAt.Equal(existing.UpdatedAt.Truncate(time.Millisecond)) {
		t.Errorf("admin was modified: UpdatedAt %v, was %v", got.UpdatedAt, existing.UpdatedAt)
	}
}

func TestValidateApp(t *testing.T) {
	valid := AppConfig{
		MongoDatabase:   "agenseek",
		DefaultTimeZone: "Asia/Jerusalem",
	}

	tests := []struct {
		name    string
		mutate  func(*AppConfig)
		wantErr string
	}{
		{"defaults", func(*AppConfig) {}, ""},
		{"admin pair", func(c *AppConfig) { c.AdminEmail, c.AdminPassword = "a@b.c", "long-enough" }, ""},
		{"no database", func(c *AppConfig) { c.MongoDatabase = "" }, "mongo_database"},
		{"bad zone", func(c *AppConfig) { c.DefaultTimeZone = "Mars/Olympus" }, "default_timezone"},
		{"empty zone", func(c *AppConfig) { c.DefaultTimeZone = "" }, "default_timezone"},
		{"email only", func(c *AppConfig) { c.AdminEmail = "a@b.c" }, "set together"},
		{"password only", func(c *AppConfig) { c.AdminPassword = "long-enough" }, "set together"},
		{"short password", func(c *AppConfig) { c.AdminEmail, c.AdminPassword = "a@b.c", "short" }, "at least"},
		{"negative limit", func(c *AppConfig) { c.FeedLimit = -1 }, "negative"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid
			tt.mutate(&cfg)
			err := validateApp(cfg)
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("err = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestBuildHandler_Routes(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	deps := DBDeps{MongoClient: db.Client(), MongoDatabase: db}
	appCfg := AppConfig{
		MongoDatabase:   db.Name(),
		SessionKey:      "test-session-key-0123456789abcdefghij",
		SessionName:     "agenseek-test",
		SessionMaxAge:   time.Hour,
		DefaultTimeZone: "Asia/Jerusalem",
		AvatarBaseURL:   "https://avatars.example.com/svg",
	}
	coreCfg := &config.CoreConfig{Env: "dev"}

	if err := EnsureSchema(ctx, coreCfg, appCfg, deps, testLogger()); err != nil {
		t.Fatalf("EnsureSchema: %v", err)
	}
	h, err := BuildHandler(coreCfg, appCfg, deps, testLogger())
	if err != nil {
		t.Fatalf("BuildHandler: %v", err)
	}
	t.Cleanup(stopBackground)

	tests := []struct {
		name   string
		method string
		target string
		signed bool
		want   int
	}{
		{"health", http.MethodGet, "/health", false, http.StatusOK},
		{"metrics", http.MethodGet, "/metrics", false, http.StatusOK},
		{"dashboard anonymous", http.MethodGet, "/dashboard", false, http.StatusUnauthorized},
		{"guides anonymous", http.MethodGet, "/guides", false, http.StatusUnauthorized},
		{"admin as learner", http.MethodGet, "/admin/stats", true, http.StatusForbidden},
		{"unknown route", http.MethodGet, "/nope", false, http.StatusNotFound},
		{"wrong method", http.MethodGet, "/login", false, http.StatusMethodNotAllowed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := testutil.NewRequest(tt.method, tt.target)
			if tt.signed {
				req = testutil.WithUser(req, testutil.LearnerUser())
			}
			rec := testutil.NewRecorder()
			h.ServeHTTP(rec, req)
			rec.AssertStatus(t, tt.want)
		})
	}
}
