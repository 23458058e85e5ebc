package userstore

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/dalemusser/agenseek/internal/app/system/indexes"
	"github.com/dalemusser/agenseek/internal/app/system/normalize"
	"github.com/dalemusser/agenseek/internal/app/system/paging"
	"github.com/dalemusser/agenseek/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"golang.org/x/crypto/bcrypt"
)

// MinPasswordLen is the shortest password Create and SetPassword accept.
const MinPasswordLen = 8

var (
	// ErrNotFound is returned when no user matches.
	ErrNotFound = errors.New("user not found")

	// ErrDuplicateEmail is returned when the email already belongs to another user.
	ErrDuplicateEmail = errors.New("a user with this email already exists")

	// ErrInvalidCredentials covers both unknown email and wrong password.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrDisabled is returned by Authenticate for disabled accounts.
	ErrDisabled = errors.New("account is disabled")

	// ErrWeakPassword is returned for passwords shorter than MinPasswordLen.
	ErrWeakPassword = fmt.Errorf("password must be at least %d characters", MinPasswordLen)

	// ErrInvalidRole is returned for roles other than admin and learner.
	ErrInvalidRole = errors.New(`role must be "admin" or "learner"`)

	errBadStatus   = errors.New(`status must be "active" or "disabled"`)
	errNameMissing = errors.New("full name is required")
)

type Store struct {
	c    *mongo.Collection
	cost int
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection(indexes.Users), cost: bcrypt.DefaultCost}
}

// WithCost returns a copy using the given bcrypt cost. Tests use MinCost.
func (s *Store) WithCost(cost int) *Store {
	return &Store{c: s.c, cost: cost}
}

// GetByID loads a user by ObjectID.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	var u models.User
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&u); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

// GetByEmail looks up a user by case-insensitive email.
func (s *Store) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	if err := s.c.FindOne(ctx, bson.M{"email": normalize.Email(email)}).Decode(&u); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

// Create inserts a new user after normalizing and validating fields and
// hashing password.
func (s *Store) Create(ctx context.Context, u models.User, password string) (models.User, error) {
	u.ID = primitive.NewObjectID()
	u.FullName = normalize.Name(u.FullName)
	u.FullNameCI = text.Fold(u.FullName)
	u.Email = normalize.Email(u.Email)
	if u.Role == "" {
		u.Role = models.RoleLearner
	}
	if u.Status == "" {
		u.Status = models.StatusActive
	}

	if u.FullName == "" {
		return models.User{}, errNameMissing
	}
	if !validRole(u.Role) {
		return models.User{}, ErrInvalidRole
	}
	if u.Status != models.StatusActive && u.Status != models.StatusDisabled {
		return models.User{}, errBadStatus
	}

	hash, err := s.hash(password)
	if err != nil {
		return models.User{}, err
	}
	u.PasswordHash = hash

	now := time.Now().UTC()
	u.CreatedAt = now
	u.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, u); err != nil {
		if wafflemongo.IsDup(err) {
			return models.User{}, ErrDuplicateEmail
		}
		return models.User{}, err
	}
	return u, nil
}

// Authenticate checks email and password. Unknown emails still run a
// bcrypt comparison so response time does not reveal which accounts exist.
func (s *Store) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	u, err := s.GetByEmail(ctx, email)
	if errors.Is(err, ErrNotFound) {
		_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}
	if u.Status == models.StatusDisabled {
		return nil, ErrDisabled
	}
	return u, nil
}

var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("agenseek-dummy-password"), bcrypt.DefaultCost)

// TouchLastLogin stamps last_login_at.
func (s *Store) TouchLastLogin(ctx context.Context, id primitive.ObjectID, at time.Time) error {
	_, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"last_login_at": at.UTC()}})
	return err
}

// SetRole changes an account's role.
func (s *Store) SetRole(ctx context.Context, id primitive.ObjectID, role string) error {
	if !validRole(role) {
		return ErrInvalidRole
	}
	return s.set(ctx, id, bson.M{"role": role})
}

// SetStatus enables or disables an account.
func (s *Store) SetStatus(ctx context.Context, id primitive.ObjectID, status string) error {
	if status != models.StatusActive && status != models.StatusDisabled {
		return errBadStatus
	}
	return s.set(ctx, id, bson.M{"status": status})
}

// SetPassword replaces the password hash.
func (s *Store) SetPassword(ctx context.Context, id primitive.ObjectID, password string) error {
	hash, err := s.hash(password)
	if err != nil {
		return err
	}
	return s.set(ctx, id, bson.M{"password_hash": hash})
}

// SetFullName renames the account.
func (s *Store) SetFullName(ctx context.Context, id primitive.ObjectID, name string) error {
	name = normalize.Name(name)
	if name == "" {
		return errNameMissing
	}
	return s.set(ctx, id, bson.M{"full_name": name, "full_name_ci": text.Fold(name)})
}

func (s *Store) set(ctx context.Context, id primitive.ObjectID, fields bson.M) error {
	fields["updated_at"] = time.Now().UTC()
	res, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": fields})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// ListFilter narrows List.
type ListFilter struct {
	Role   string
	Search string // folded prefix match on full name
}

func (f ListFilter) bson() bson.M {
	m := bson.M{}
	if f.Role != "" {
		m["role"] = f.Role
	}
	if q := text.Fold(normalize.QueryParam(f.Search)); q != "" {
		m["full_name_ci"] = bson.M{"$regex": "^" + regexp.QuoteMeta(q)}
	}
	return m
}

// List returns one keyset page of users ordered by folded name.
func (s *Store) List(ctx context.Context, f ListFilter, req paging.Request) ([]models.User, paging.Page, error) {
	ks := req.Configure()
	filter := f.bson()
	if w := ks.Window("full_name_ci"); w != nil {
		filter = bson.M{"$and": bson.A{filter, w}}
	}

	find := options.Find()
	ks.ApplyToFind(find, "full_name_ci")
	cur, err := s.c.Find(ctx, filter, find)
	if err != nil {
		return nil, paging.Page{}, err
	}
	defer cur.Close(ctx)

	var rows []models.User
	if err := cur.All(ctx, &rows); err != nil {
		return nil, paging.Page{}, err
	}
	rows, pg := paging.Finish(rows, req,
		func(u models.User) string { return u.FullNameCI },
		func(u models.User) primitive.ObjectID { return u.ID })
	return rows, pg, nil
}

// Each streams every user ordered by folded name, for exports.
func (s *Store) Each(ctx context.Context, fn func(models.User) error) error {
	find := options.Find().SetSort(bson.D{{Key: "full_name_ci", Value: 1}, {Key: "_id", Value: 1}})
	cur, err := s.c.Find(ctx, bson.M{}, find)
	if err != nil {
		return err
	}
	defer cur.Close(ctx)
	for cur.Next(ctx) {
		var u models.User
		if err := cur.Decode(&u); err != nil {
			return err
		}
		if err := fn(u); err != nil {
			return err
		}
	}
	return cur.Err()
}

func (s *Store) hash(password string) (string, error) {
	if len(password) < MinPasswordLen {
		return "", ErrWeakPassword
	}
	b, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func validRole(r string) bool {
	return r == models.RoleAdmin || r == models.RoleLearner
}
