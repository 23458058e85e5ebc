// internal/app/system/authz/authz.go
package authz

import (
	"net/http"
	"strings"
	"time"

	"github.com/dalemusser/agenseek/internal/app/system/auth"
	"github.com/dalemusser/agenseek/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UserCtx returns the user's role (lowercased), name, Mongo ObjectID, and a
// found flag. Without a user, or with a malformed user ID in the session, it
// returns "visitor", "", NilObjectID, false, so ok=true always means a valid
// ObjectID.
func UserCtx(r *http.Request) (role string, name string, userID primitive.ObjectID, ok bool) {
	user, ok := auth.CurrentUser(r)
	if !ok {
		return "visitor", "", primitive.NilObjectID, false
	}
	userID, err := primitive.ObjectIDFromHex(user.ID)
	if err != nil {
		return "visitor", "", primitive.NilObjectID, false
	}
	return strings.ToLower(user.Role), user.Name, userID, true
}

// IsAdmin reports whether the current request's user is an admin.
func IsAdmin(r *http.Request) bool {
	role, _, _, ok := UserCtx(r)
	return ok && role == models.RoleAdmin
}

// UserLocation returns the time zone cached in the session, falling back to
// def when missing or unknown.
func UserLocation(r *http.Request, def *time.Location) *time.Location {
	user, ok := auth.CurrentUser(r)
	if !ok || user.TimeZone == "" {
		return def
	}
	loc, err := time.LoadLocation(user.TimeZone)
	if err != nil {
		return def
	}
	return loc
}
