package taskstore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/agenseek/internal/app/system/indexes"
	"github.com/dalemusser/agenseek/internal/app/system/normalize"
	"github.com/dalemusser/agenseek/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	// ErrNotFound is returned when the task does not exist or belongs to
	// another user.
	ErrNotFound = errors.New("task not found")

	// ErrTitleRequired is returned for blank titles.
	ErrTitleRequired = errors.New("task title is required")

	// ErrBadStatus is returned for unknown board columns.
	ErrBadStatus = errors.New(`status must be "todo", "in_progress" or "done"`)
)

// Statuses lists the board columns in display order.
var Statuses = []string{models.TaskTodo, models.TaskInProgress, models.TaskDone}

func validStatus(s string) bool {
	return s == models.TaskTodo || s == models.TaskInProgress || s == models.TaskDone
}

type Store struct {
	c   *mongo.Collection
	now func() time.Time
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection(indexes.Tasks), now: time.Now}
}

// Create appends t to the end of its column. Status defaults to todo and
// priority to medium.
func (s *Store) Create(ctx context.Context, t models.Task) (models.Task, error) {
	t.Title = normalize.Name(t.Title)
	if t.Title == "" {
		return models.Task{}, ErrTitleRequired
	}
	if t.Status == "" {
		t.Status = models.TaskTodo
	}
	if !validStatus(t.Status) {
		return models.Task{}, ErrBadStatus
	}
	if t.Priority == "" {
		t.Priority = models.PriorityMedium
	}

	pos, err := s.nextPosition(ctx, t.UserID, t.Status)
	if err != nil {
		return models.Task{}, err
	}
	now := s.now().UTC()
	t.ID = primitive.NewObjectID()
	t.Position = pos
	t.CreatedAt = now
	t.UpdatedAt = now
	t.CompletedAt = nil
	if t.Status == models.TaskDone {
		t.CompletedAt = &now
	}
	if _, err := s.c.InsertOne(ctx, t); err != nil {
		return models.Task{}, err
	}
	return t, nil
}

func (s *Store) nextPosition(ctx context.Context, userID primitive.ObjectID, status string) (int, error) {
	var last models.Task
	err := s.c.FindOne(ctx,
		bson.M{"user_id": userID, "status": status},
		options.FindOne().SetSort(bson.D{{Key: "position", Value: -1}}).SetProjection(bson.M{"position": 1}),
	).Decode(&last)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return last.Position + 1, nil
}

// Get returns one of userID's tasks.
func (s *Store) Get(ctx context.Context, userID, id primitive.ObjectID) (models.Task, error) {
	var t models.Task
	if err := s.c.FindOne(ctx, bson.M{"_id": id, "user_id": userID}).Decode(&t); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.Task{}, ErrNotFound
		}
		return models.Task{}, err
	}
	return t, nil
}

// Update replaces the card's content fields. Status and position change
// only through Move.
func (s *Store) Update(ctx context.Context, userID primitive.ObjectID, t models.Task) (models.Task, error) {
	t.Title = normalize.Name(t.Title)
	if t.Title == "" {
		return models.Task{}, ErrTitleRequired
	}
	if t.Priority == "" {
		t.Priority = models.PriorityMedium
	}
	set := bson.M{
		"title":       t.Title,
		"description": t.Description,
		"priority":    t.Priority,
		"guide_id":    t.GuideID,
		"updated_at":  s.now().UTC(),
	}
	update := bson.M{"$set": set}
	if t.DueDate != nil {
		set["due_date"] = t.DueDate.UTC()
	} else {
		update["$unset"] = bson.M{"due_date": ""}
	}

	var out models.Task
	err := s.c.FindOneAndUpdate(ctx,
		bson.M{"_id": t.ID, "user_id": userID},
		update,
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&out)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Task{}, ErrNotFound
	}
	return out, err
}

// Move puts the task at position in the status column, shifting the cards
// at or below that position down and closing the gap it left. Entering
// done stamps completed_at and leaving done clears it. The bool reports
// whether the task just entered done.
func (s *Store) Move(ctx context.Context, userID, id primitive.ObjectID, status string, position int) (models.Task, bool, error) {
	if !validStatus(status) {
		return models.Task{}, false, ErrBadStatus
	}
	if position < 0 {
		position = 0
	}
	cur, err := s.Get(ctx, userID, id)
	if err != nil {
		return models.Task{}, false, err
	}

	// Close the gap in the source column.
	if _, err := s.c.UpdateMany(ctx,
		bson.M{"user_id": userID, "status": cur.Status, "position": bson.M{"$gt": cur.Position}, "_id": bson.M{"$ne": id}},
		bson.M{"$inc": bson.M{"position": -1}},
	); err != nil {
		return models.Task{}, false, err
	}

	others, err := s.c.CountDocuments(ctx, bson.M{"user_id": userID, "status": status, "_id": bson.M{"$ne": id}})
	if err != nil {
		return models.Task{}, false, err
	}
	position = min(position, int(others))

	// Make room in the target column.
	if _, err := s.c.UpdateMany(ctx,
		bson.M{"user_id": userID, "status": status, "position": bson.M{"$gte": position}, "_id": bson.M{"$ne": id}},
		bson.M{"$inc": bson.M{"position": 1}},
	); err != nil {
		return models.Task{}, false, err
	}

	now := s.now().UTC()
	set := bson.M{"status": status, "position": position, "updated_at": now}
	update := bson.M{"$set": set}
	entered := status == models.TaskDone && cur.Status != models.TaskDone
	switch {
	case entered:
		set["completed_at"] = now
	case status != models.TaskDone:
		update["$unset"] = bson.M{"completed_at": ""}
	}

	var out models.Task
	err = s.c.FindOneAndUpdate(ctx,
		bson.M{"_id": id, "user_id": userID},
		update,
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&out)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Task{}, false, ErrNotFound
	}
	if err != nil {
		return models.Task{}, false, err
	}
	return out, entered, nil
}

// Delete removes one of userID's tasks and closes the gap in its column.
func (s *Store) Delete(ctx context.Context, userID, id primitive.ObjectID) error {
	var gone models.Task
	err := s.c.FindOneAndDelete(ctx, bson.M{"_id": id, "user_id": userID}).Decode(&gone)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	_, err = s.c.UpdateMany(ctx,
		bson.M{"user_id": userID, "status": gone.Status, "position": bson.M{"$gt": gone.Position}},
		bson.M{"$inc": bson.M{"position": -1}},
	)
	return err
}

// Board is userID's tasks grouped by column, each ordered by position.
// Every column is present and non-nil.
type Board map[string][]models.Task

// Board loads the whole board of userID.
func (s *Store) Board(ctx context.Context, userID primitive.ObjectID) (Board, error) {
	cur, err := s.c.Find(ctx, bson.M{"user_id": userID},
		options.Find().SetSort(bson.D{{Key: "status", Value: 1}, {Key: "position", Value: 1}, {Key: "_id", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var all []models.Task
	if err := cur.All(ctx, &all); err != nil {
		return nil, err
	}
	b := Board{}
	for _, st := range Statuses {
		b[st] = []models.Task{}
	}
	for _, t := range all {
		b[t.Status] = append(b[t.Status], t)
	}
	return b, nil
}

// CountDone returns how many of userID's tasks are done.
func (s *Store) CountDone(ctx context.Context, userID primitive.ObjectID) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{"user_id": userID, "status": models.TaskDone})
}

// CreatedTimesSince returns creation times of userID's tasks at or after since.
func (s *Store) CreatedTimesSince(ctx context.Context, userID primitive.ObjectID, since time.Time) ([]time.Time, error) {
	cur, err := s.c.Find(ctx,
		bson.M{"user_id": userID, "created_at": bson.M{"$gte": since.UTC()}},
		options.Find().SetProjection(bson.M{"created_at": 1}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var rows []struct {
		CreatedAt time.Time `bson:"created_at"`
	}
	if err := cur.All(ctx, &rows); err != nil {
		return nil, err
	}
	out := make([]time.Time, len(rows))
	for i, r := range rows {
		out[i] = r.CreatedAt
	}
	return out, nil
}
