// internal/app/features/profile/profile.go
package profile

import (
	"errors"
	"net/http"
	"net/url"
	"strings"

	uierrors "github.com/dalemusser/agenseek/internal/app/features/errors"
	"github.com/dalemusser/agenseek/internal/app/learningpath"
	profilestore "github.com/dalemusser/agenseek/internal/app/store/profiles"
	userstore "github.com/dalemusser/agenseek/internal/app/store/users"
	"github.com/dalemusser/agenseek/internal/app/system/auth"
	"github.com/dalemusser/agenseek/internal/app/system/authz"
	"github.com/dalemusser/agenseek/internal/app/system/inputval"
	"github.com/dalemusser/agenseek/internal/app/system/respond"
	"github.com/dalemusser/agenseek/internal/app/system/timeouts"
	"github.com/dalemusser/agenseek/internal/domain/models"
	"go.uber.org/zap"
)

// profileResponse is the body of GET and PUT /profile.
type profileResponse struct {
	User       models.User    `json:"user"`
	Profile    models.Profile `json:"profile"`
	AvatarURL  string         `json:"avatar_url,omitempty"`
	KnownRoles []string       `json:"known_roles"`
}

type updateInput struct {
	DisplayName     *string   `json:"display_name" validate:"omitnil,notblank,max=100" label:"Display name"`
	Role            *string   `json:"role" validate:"omitempty,max=50" label:"Role"`
	Interests       *[]string `json:"interests" validate:"omitempty,max=20,dive,max=50" label:"Interests"`
	ExperienceLevel *string   `json:"experience_level" validate:"omitempty,experience" label:"Experience level"`
	TimeZone        *string   `json:"time_zone" validate:"omitempty,iana_tz" label:"Time zone"`
	ResetAvatar     bool      `json:"reset_avatar"`
}

type passwordInput struct {
	CurrentPassword string `json:"current_password" validate:"required,max=72" label:"Current password"`
	NewPassword     string `json:"new_password" validate:"required,min=8,max=72" label:"New password"`
}

// ServeProfile handles GET /profile.
func (h *Handler) ServeProfile(w http.ResponseWriter, r *http.Request) {
	_, _, uid, _ := authz.UserCtx(r)

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "load profile")
	defer cancel()

	user, err := h.Users.GetByID(ctx, uid)
	if errors.Is(err, userstore.ErrNotFound) {
		respond.Error(w, http.StatusNotFound, "User not found.")
		return
	}
	if err != nil {
		h.ErrLog.LogServerError(w, r, "load user failed", err, "")
		return
	}
	p, err := h.Profiles.GetOrEmpty(ctx, uid)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "load profile failed", err, "")
		return
	}
	respond.OK(w, h.response(*user, p))
}

// HandleUpdate handles PUT /profile. Omitted fields are left unchanged.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	_, _, uid, _ := authz.UserCtx(r)

	var in updateInput
	if err := respond.Decode(w, r, &in); err != nil {
		respond.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	if res := inputval.Validate(in); res.HasErrors() {
		uierrors.Invalid(w, res)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "update profile")
	defer cancel()

	user, err := h.Users.GetByID(ctx, uid)
	if errors.Is(err, userstore.ErrNotFound) {
		respond.Error(w, http.StatusNotFound, "User not found.")
		return
	}
	if err != nil {
		h.ErrLog.LogServerError(w, r, "load user failed", err, "")
		return
	}

	p, err := h.Profiles.Apply(ctx, uid, profilestore.Update{
		DisplayName:     in.DisplayName,
		Role:            in.Role,
		Interests:       in.Interests,
		ExperienceLevel: in.ExperienceLevel,
		TimeZone:        in.TimeZone,
		ResetAvatar:     in.ResetAvatar,
		InsertName:      user.FullName,
	})
	if err != nil {
		h.ErrLog.LogServerError(w, r, "update profile failed", err, "")
		return
	}

	// The session caches the time zone; refresh it so day boundaries follow
	// the new setting on the next request.
	if in.TimeZone != nil {
		if cur, ok := auth.CurrentUser(r); ok {
			next := *cur
			next.TimeZone = p.TimeZone
			if next.TimeZone == "" {
				next.TimeZone = h.DefaultTZ
			}
			if err := h.SessionMgr.SignIn(w, r, next); err != nil {
				h.Log.Warn("refresh session time zone failed", zap.Error(err))
			}
		}
	}

	h.Log.Info("profile updated", zap.String("user_id", uid.Hex()))
	respond.OK(w, h.response(*user, p))
}

// HandlePassword handles PUT /profile/password.
func (h *Handler) HandlePassword(w http.ResponseWriter, r *http.Request) {
	_, _, uid, _ := authz.UserCtx(r)

	var in passwordInput
	if err := respond.Decode(w, r, &in); err != nil {
		respond.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	if res := inputval.Validate(in); res.HasErrors() {
		uierrors.Invalid(w, res)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "change password")
	defer cancel()

	user, err := h.Users.GetByID(ctx, uid)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "load user failed", err, "")
		return
	}
	if _, err := h.Users.Authenticate(ctx, user.Email, in.CurrentPassword); err != nil {
		if errors.Is(err, userstore.ErrInvalidCredentials) {
			respond.Error(w, http.StatusForbidden, "Current password is incorrect.")
			return
		}
		h.ErrLog.LogServerError(w, r, "verify password failed", err, "")
		return
	}
	if err := h.Users.SetPassword(ctx, uid, in.NewPassword); err != nil {
		h.ErrLog.LogServerError(w, r, "set password failed", err, "")
		return
	}
	h.Log.Info("password changed", zap.String("user_id", uid.Hex()))
	respond.NoContent(w)
}

func (h *Handler) response(u models.User, p models.Profile) profileResponse {
	if p.Interests == nil {
		p.Interests = []string{}
	}
	return profileResponse{
		User:       u,
		Profile:    p,
		AvatarURL:  avatarURL(h.AvatarBaseURL, p.AvatarSeed),
		KnownRoles: learningpath.KnownRoles(),
	}
}

// avatarURL appends the seed as a query parameter, for avatar services
// such as DiceBear. Empty base or seed yields "".
func avatarURL(base, seed string) string {
	if base == "" || seed == "" {
		return ""
	}
	sep := "?"
	if strings.Contains(base, "?") {
		sep = "&"
	}
	return base + sep + "seed=" + url.QueryEscape(seed)
}
