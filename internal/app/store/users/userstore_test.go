package userstore_test

import (
	"errors"
	"testing"
	"time"

	userstore "github.com/dalemusser/agenseek/internal/app/store/users"
	"github.com/dalemusser/agenseek/internal/app/system/indexes"
	"github.com/dalemusser/agenseek/internal/app/system/paging"
	"github.com/dalemusser/agenseek/internal/domain/models"
	"github.com/dalemusser/agenseek/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"
)

func newStore(t *testing.T) (*userstore.Store, *testutil.Fixtures) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	if err := indexes.EnsureAll(ctx, db); err != nil {
		t.Fatalf("EnsureAll: %v", err)
	}
	return userstore.New(db).WithCost(bcrypt.MinCost), testutil.NewFixtures(t, db)
}

func TestStore_Create(t *testing.T) {
	store, _ := newStore(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	created, err := store.Create(ctx, models.User{
		FullName: "  Noa   Levi ",
		Email:    "  Noa@Example.COM ",
	}, "secret-password")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if created.ID == primitive.NilObjectID {
		t.Error("expected ID to be assigned")
	}
	if created.FullName != "Noa Levi" {
		t.Errorf("FullName = %q, want %q", created.FullName, "Noa Levi")
	}
	if created.FullNameCI != "noa levi" {
		t.Errorf("FullNameCI = %q, want %q", created.FullNameCI, "noa levi")
	}
	if created.Email != "noa@example.com" {
		t.Errorf("Email = %q, want normalized", created.Email)
	}
	if created.Role != models.RoleLearner {
		t.Errorf("Role = %q, want learner default", created.Role)
	}
	if created.Status != models.StatusActive {
		t.Errorf("Status = %q, want active default", created.Status)
	}
	if created.PasswordHash == "" || created.PasswordHash == "secret-password" {
		t.Error("expected password to be hashed")
	}
	if created.CreatedAt.IsZero() || created.UpdatedAt.IsZero() {
		t.Error("expected timestamps to be set")
	}
}

func TestStore_Create_Rejects(t *testing.T) {
	store, _ := newStore(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	tests := []struct {
		name     string
		user     models.User
		password string
		wantErr  error
	}{
		{"short password", models.User{FullName: "A", Email: "a@example.com"}, "short", userstore.ErrWeakPassword},
		{"bad role", models.User{FullName: "B", Email: "b@example.com", Role: "owner"}, "long-enough", userstore.ErrInvalidRole},
		{"blank name", models.User{FullName: "   ", Email: "c@example.com"}, "long-enough", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := store.Create(ctx, tt.user, tt.password)
			if err == nil {
				t.Fatal("expected error")
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("err = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestStore_Create_DuplicateEmail(t *testing.T) {
	store, fixtures := newStore(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fixtures.CreateLearner(ctx, "First", "dup@example.com")

	_, err := store.Create(ctx, models.User{FullName: "Second", Email: "DUP@example.com"}, "long-enough")
	if !errors.Is(err, userstore.ErrDuplicateEmail) {
		t.Errorf("err = %v, want ErrDuplicateEmail", err)
	}
}

func TestStore_GetByEmail(t *testing.T) {
	store, fixtures := newStore(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	u := fixtures.CreateLearner(ctx, "Dana", "dana@example.com")

	got, err := store.GetByEmail(ctx, " DANA@example.com")
	if err != nil {
		t.Fatalf("GetByEmail failed: %v", err)
	}
	if got.ID != u.ID {
		t.Errorf("ID = %v, want %v", got.ID, u.ID)
	}

	if _, err := store.GetByEmail(ctx, "nobody@example.com"); !errors.Is(err, userstore.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
	if _, err := store.GetByID(ctx, primitive.NewObjectID()); !errors.Is(err, userstore.ErrNotFound) {
		t.Errorf("GetByID err = %v, want ErrNotFound", err)
	}
}

func TestStore_Authenticate(t *testing.T) {
	store, fixtures := newStore(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	active := fixtures.CreateLearner(ctx, "Active", "active@example.com")
	disabled := fixtures.CreateLearner(ctx, "Disabled", "disabled@example.com")
	if err := store.SetStatus(ctx, disabled.ID, models.StatusDisabled); err != nil {
		t.Fatalf("SetStatus: %v", err)
	}

	tests := []struct {
		name     string
		email    string
		password string
		wantErr  error
	}{
		{"good", "active@example.com", testutil.TestPassword, nil},
		{"wrong password", "active@example.com", "nope-nope-nope", userstore.ErrInvalidCredentials},
		{"unknown email", "ghost@example.com", testutil.TestPassword, userstore.ErrInvalidCredentials},
		{"disabled", "disabled@example.com", testutil.TestPassword, userstore.ErrDisabled},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u, err := store.Authenticate(ctx, tt.email, tt.password)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("err = %v, want %v", err, tt.wantErr)
			}
			if tt.wantErr == nil && u.ID != active.ID {
				t.Errorf("ID = %v, want %v", u.ID, active.ID)
			}
		})
	}
}

func TestStore_SetRoleAndPassword(t *testing.T) {
	store, fixtures := newStore(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	u := fixtures.CreateLearner(ctx, "Role Change", "role@example.com")

	if err := store.SetRole(ctx, u.ID, models.RoleAdmin); err != nil {
		t.Fatalf("SetRole: %v", err)
	}
	if err := store.SetRole(ctx, u.ID, "superuser"); !errors.Is(err, userstore.ErrInvalidRole) {
		t.Errorf("SetRole bad role err = %v", err)
	}
	if err := store.SetRole(ctx, primitive.NewObjectID(), models.RoleAdmin); !errors.Is(err, userstore.ErrNotFound) {
		t.Errorf("SetRole missing user err = %v", err)
	}
	if err := store.SetPassword(ctx, u.ID, "brand-new-password"); err != nil {
		t.Fatalf("SetPassword: %v", err)
	}

	got, err := store.Authenticate(ctx, "role@example.com", "brand-new-password")
	if err != nil {
		t.Fatalf("Authenticate after SetPassword: %v", err)
	}
	if got.Role != models.RoleAdmin {
		t.Errorf("Role = %q, want admin", got.Role)
	}
}

func TestStore_TouchLastLogin(t *testing.T) {
	store, fixtures := newStore(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	u := fixtures.CreateLearner(ctx, "Login", "login@example.com")
	at := time.Date(2026, 3, 1, 8, 30, 0, 0, time.UTC)
	if err := store.TouchLastLogin(ctx, u.ID, at); err != nil {
		t.Fatalf("TouchLastLogin: %v", err)
	}
	got, _ := store.GetByID(ctx, u.ID)
	if got.LastLoginAt == nil || !got.LastLoginAt.Equal(at) {
		t.Errorf("LastLoginAt = %v, want %v", got.LastLoginAt, at)
	}
}

func TestStore_List_Pages(t *testing.T) {
	store, fixtures := newStore(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	for _, name := range []string{"Carmel", "Amit", "Eli", "Batya", "Dor"} {
		fixtures.CreateLearner(ctx, name, name+"@example.com")
	}
	fixtures.CreateAdmin(ctx, "Zohar", "zohar@example.com")

	first, pg, err := store.List(ctx, userstore.ListFilter{Role: models.RoleLearner}, paging.Request{Size: 3})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(first) != 3 || first[0].FullName != "Amit" || first[2].FullName != "Carmel" {
		t.Fatalf("first page = %v", names(first))
	}
	if !pg.HasNext || pg.HasPrev {
		t.Errorf("first page = %+v", pg)
	}

	second, pg2, err := store.List(ctx, userstore.ListFilter{Role: models.RoleLearner}, paging.Request{After: pg.Next, Size: 3})
	if err != nil {
		t.Fatalf("List page 2: %v", err)
	}
	if got := names(second); len(got) != 2 || got[0] != "Dor" || got[1] != "Eli" {
		t.Errorf("second page = %v", got)
	}
	if pg2.HasNext || !pg2.HasPrev {
		t.Errorf("second page = %+v", pg2)
	}

	back, _, err := store.List(ctx, userstore.ListFilter{Role: models.RoleLearner}, paging.Request{Before: pg2.Prev, Size: 3})
	if err != nil {
		t.Fatalf("List back: %v", err)
	}
	if got := names(back); len(got) != 3 || got[0] != "Amit" {
		t.Errorf("back page = %v", got)
	}

	found, _, err := store.List(ctx, userstore.ListFilter{Search: "BAT"}, paging.Request{})
	if err != nil {
		t.Fatalf("List search: %v", err)
	}
	if got := names(found); len(got) != 1 || got[0] != "Batya" {
		t.Errorf("search = %v", got)
	}
}

func TestStore_Each(t *testing.T) {
	store, fixtures := newStore(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fixtures.CreateLearner(ctx, "B", "b@example.com")
	fixtures.CreateLearner(ctx, "A", "a@example.com")

	var got []string
	err := store.Each(ctx, func(u models.User) error {
		got = append(got, u.FullName)
		return nil
	})
	if err != nil {
		t.Fatalf("Each: %v", err)
	}
	if len(got) != 2 || got[0] != "A" {
		t.Errorf("Each order = %v", got)
	}
}

func names(us []models.User) []string {
	out := make([]string, len(us))
	for i, u := range us {
		out[i] = u.FullName
	}
	return out
}
