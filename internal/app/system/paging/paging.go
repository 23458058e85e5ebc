// internal/app/system/paging/paging.go
package paging

import (
	"net/http"
	"strconv"

	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/dalemusser/waffle/pantry/query"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Page size bounds for keyset-paged lists.
const (
	DefaultSize = 50
	MaxSize     = 200
)

// Request is a parsed ?before=&after=&limit= triple.
type Request struct {
	Before string
	After  string
	Size   int
}

// Parse reads the paging query parameters. An invalid or missing limit
// falls back to DefaultSize; larger limits are capped at MaxSize.
func Parse(r *http.Request) Request {
	size := DefaultSize
	if s := query.Get(r, "limit"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			size = min(n, MaxSize)
		}
	}
	return Request{Before: query.Get(r, "before"), After: query.Get(r, "after"), Size: size}
}

// Page describes the neighbours of a returned page.
type Page struct {
	HasPrev bool   `json:"has_prev"`
	HasNext bool   `json:"has_next"`
	Prev    string `json:"prev_cursor,omitempty"`
	Next    string `json:"next_cursor,omitempty"`
}

// Direction indicates the pagination direction.
type Direction int

const (
	Forward  Direction = iota // ascending, "gt" the cursor
	Backward                  // descending, "lt" the cursor
)

// Keyset is the decoded cursor and sort direction for one query.
type Keyset struct {
	Direction Direction
	SortOrder int
	Cursor    *wafflemongo.Cursor
	Size      int
}

// Configure decodes the cursor; before wins over after.
func (req Request) Configure() Keyset {
	ks := Keyset{Direction: Forward, SortOrder: 1, Size: req.Size}
	if ks.Size <= 0 {
		ks.Size = DefaultSize
	}
	switch {
	case req.Before != "":
		ks.Direction = Backward
		ks.SortOrder = -1
		if c, ok := wafflemongo.DecodeCursor(req.Before); ok {
			ks.Cursor = &c
		}
	case req.After != "":
		if c, ok := wafflemongo.DecodeCursor(req.After); ok {
			ks.Cursor = &c
		}
	}
	return ks
}

// ApplyToFind sorts on sortField then _id and fetches one extra row to
// detect a further page.
func (ks Keyset) ApplyToFind(find *options.FindOptions, sortField string) {
	find.SetSort(bson.D{
		{Key: sortField, Value: ks.SortOrder},
		{Key: "_id", Value: ks.SortOrder},
	}).SetLimit(int64(ks.Size + 1))
}

// Window returns the cursor condition to merge into the filter, or nil.
func (ks Keyset) Window(sortField string) bson.M {
	if ks.Cursor == nil {
		return nil
	}
	dir := "gt"
	if ks.Direction == Backward {
		dir = "lt"
	}
	return wafflemongo.KeysetWindow(sortField, dir, ks.Cursor.CI, ks.Cursor.ID)
}

// Finish trims the look-ahead row, restores ascending order after a
// backward fetch and builds the neighbour cursors.
func Finish[T any](rows []T, req Request, keyFn func(T) string, idFn func(T) primitive.ObjectID) ([]T, Page) {
	size := req.Size
	if size <= 0 {
		size = DefaultSize
	}
	var pg Page
	if req.Before != "" {
		if len(rows) > size {
			rows = rows[:size]
			pg.HasPrev = true
		}
		pg.HasNext = true
		Reverse(rows)
	} else {
		if len(rows) > size {
			rows = rows[:size]
			pg.HasNext = true
		}
		pg.HasPrev = req.After != ""
	}
	if len(rows) > 0 {
		first, last := rows[0], rows[len(rows)-1]
		if pg.HasPrev {
			pg.Prev = wafflemongo.EncodeCursor(keyFn(first), idFn(first))
		}
		if pg.HasNext {
			pg.Next = wafflemongo.EncodeCursor(keyFn(last), idFn(last))
		}
	}
	return rows, pg
}

// Reverse reverses a slice in place.
func Reverse[T any](rows []T) {
	for i, j := 0, len(rows)-1; i < j; i, j = i+1, j-1 {
		rows[i], rows[j] = rows[j], rows[i]
	}
}
