// internal/app/features/admin/users.go
package admin

import (
	"context"
	"errors"
	"net/http"

	uierrors "github.com/dalemusser/agenseek/internal/app/features/errors"
	userstore "github.com/dalemusser/agenseek/internal/app/store/users"
	"github.com/dalemusser/agenseek/internal/app/system/authz"
	"github.com/dalemusser/agenseek/internal/app/system/csvutil"
	"github.com/dalemusser/agenseek/internal/app/system/inputval"
	"github.com/dalemusser/agenseek/internal/app/system/paging"
	"github.com/dalemusser/agenseek/internal/app/system/respond"
	"github.com/dalemusser/agenseek/internal/app/system/timeouts"
	"github.com/dalemusser/agenseek/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/query"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type userRow struct {
	models.User
	GuidesCompleted int `json:"guides_completed"`
}

type usersResponse struct {
	Users []userRow   `json:"users"`
	Page  paging.Page `json:"page"`
}

type roleInput struct {
	Role string `json:"role" validate:"required,oneof=admin learner" label:"Role"`
}

type statusInput struct {
	Status string `json:"status" validate:"required,oneof=active disabled" label:"Status"`
}

// ServeUsers handles GET /admin/users?role=&search=&after=&before=&limit=.
func (h *Handler) ServeUsers(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "admin users")
	defer cancel()

	users, pg, err := h.Users.List(ctx, userstore.ListFilter{
		Role:   query.Get(r, "role"),
		Search: query.Get(r, "search"),
	}, paging.Parse(r))
	if err != nil {
		h.ErrLog.LogServerError(w, r, "list users failed", err, "")
		return
	}

	ids := make([]primitive.ObjectID, len(users))
	for i, u := range users {
		ids[i] = u.ID
	}
	done, err := h.Progress.CountCompletedByUser(ctx, ids)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "count completions failed", err, "")
		return
	}

	rows := make([]userRow, len(users))
	for i, u := range users {
		rows[i] = userRow{User: u, GuidesCompleted: done[u.ID]}
	}
	respond.OK(w, usersResponse{Users: rows, Page: pg})
}

var usersCSVHeader = []string{"id", "full_name", "email", "role", "status", "created_at", "last_login_at"}

// ServeUsersCSV handles GET /admin/users.csv. Rows stream straight from the
// cursor, so a write failure midway leaves a truncated file.
func (h *Handler) ServeUsersCSV(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Export(), h.Log, "users CSV export")
	defer cancel()

	cw, err := csvutil.Attach(w, csvutil.Filename("users", h.now()))
	if err != nil {
		h.Log.Error("CSV write failed (BOM)", zap.Error(err))
		return
	}
	_ = cw.Write(usersCSVHeader)
	err = h.Users.Each(ctx, func(u models.User) error {
		created := u.CreatedAt
		return cw.Write([]string{
			u.ID.Hex(),
			u.FullName,
			u.Email,
			u.Role,
			u.Status,
			csvutil.FormatTime(&created),
			csvutil.FormatTime(u.LastLoginAt),
		})
	})
	cw.Flush()
	if err == nil {
		err = cw.Error()
	}
	if err != nil {
		h.Log.Error("users CSV export failed", zap.Error(err))
	}
}

func userID(w http.ResponseWriter, r *http.Request) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "userID"))
	if err != nil {
		respond.Error(w, http.StatusNotFound, "User not found.")
		return primitive.NilObjectID, false
	}
	return id, true
}

// HandleRole handles PUT /admin/users/{userID}/role. Admins cannot change
// their own role, so the last admin can never lock everyone out.
func (h *Handler) HandleRole(w http.ResponseWriter, r *http.Request) {
	var in roleInput
	if !decode(w, r, &in) {
		return
	}
	h.update(w, r, "set role", in.Role, h.Users.SetRole)
}

// HandleStatus handles PUT /admin/users/{userID}/status. Disabled accounts
// cannot sign in.
func (h *Handler) HandleStatus(w http.ResponseWriter, r *http.Request) {
	var in statusInput
	if !decode(w, r, &in) {
		return
	}
	h.update(w, r, "set status", in.Status, h.Users.SetStatus)
}

// setter is a single-field account update such as userstore.Store.SetRole.
type setter func(ctx context.Context, id primitive.ObjectID, value string) error

func (h *Handler) update(w http.ResponseWriter, r *http.Request, op, value string, set setter) {
	_, _, self, _ := authz.UserCtx(r)
	id, ok := userID(w, r)
	if !ok {
		return
	}
	if id == self {
		respond.Error(w, http.StatusBadRequest, "You cannot change your own account here.")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, op)
	defer cancel()

	err := set(ctx, id, value)
	switch {
	case errors.Is(err, userstore.ErrNotFound):
		respond.Error(w, http.StatusNotFound, "User not found.")
		return
	case errors.Is(err, userstore.ErrInvalidRole):
		respond.Error(w, http.StatusBadRequest, "Unknown role.")
		return
	case err != nil:
		h.ErrLog.LogServerError(w, r, op+" failed", err, "")
		return
	}

	h.Log.Info("admin changed account",
		zap.String("op", op),
		zap.String("admin_id", self.Hex()),
		zap.String("user_id", id.Hex()),
		zap.String("value", value))

	u, err := h.Users.GetByID(ctx, id)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "reload user failed", err, "")
		return
	}
	respond.OK(w, u)
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := respond.Decode(w, r, v); err != nil {
		respond.Error(w, http.StatusBadRequest, err.Error())
		return false
	}
	if res := inputval.Validate(v); res.HasErrors() {
		uierrors.Invalid(w, res)
		return false
	}
	return true
}
