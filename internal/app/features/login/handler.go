// internal/app/features/login/handler.go
package login

import (
	"errors"
	"net/http"
	"time"

	uierrors "github.com/dalemusser/agenseek/internal/app/features/errors"
	"github.com/dalemusser/agenseek/internal/app/features/shared"
	profilestore "github.com/dalemusser/agenseek/internal/app/store/profiles"
	userstore "github.com/dalemusser/agenseek/internal/app/store/users"
	"github.com/dalemusser/agenseek/internal/app/system/auth"
	"github.com/dalemusser/agenseek/internal/app/system/inputval"
	"github.com/dalemusser/agenseek/internal/app/system/ratelimit"
	"github.com/dalemusser/agenseek/internal/app/system/respond"
	"github.com/dalemusser/agenseek/internal/app/system/timeouts"
	"github.com/dalemusser/agenseek/internal/domain/models"
	"go.uber.org/zap"
)

type Handler struct {
	Users      *userstore.Store
	Profiles   *profilestore.Store
	Tracker    *shared.Tracker
	SessionMgr *auth.SessionManager
	Limiter    *ratelimit.LoginLimiter
	ErrLog     *uierrors.ErrorLogger
	Log        *zap.Logger
	DefaultTZ  string // used when the profile has no time zone
}

func NewHandler(users *userstore.Store, profiles *profilestore.Store, tracker *shared.Tracker, sm *auth.SessionManager,
	limiter *ratelimit.LoginLimiter, errLog *uierrors.ErrorLogger, defaultTZ string, logger *zap.Logger) *Handler {
	return &Handler{
		Users:      users,
		Profiles:   profiles,
		Tracker:    tracker,
		SessionMgr: sm,
		Limiter:    limiter,
		ErrLog:     errLog,
		Log:        logger,
		DefaultTZ:  defaultTZ,
	}
}

type loginInput struct {
	Email    string `json:"email" validate:"required,email,max=254" label:"Email"`
	Password string `json:"password" validate:"required,max=72" label:"Password"`
}

type registerInput struct {
	FullName        string   `json:"full_name" validate:"required,notblank,max=100" label:"Full name"`
	Email           string   `json:"email" validate:"required,email,max=254" label:"Email"`
	Password        string   `json:"password" validate:"required,min=8,max=72" label:"Password"`
	Role            string   `json:"role" validate:"max=50" label:"Role"`
	Interests       []string `json:"interests" validate:"max=20,dive,max=50" label:"Interests"`
	ExperienceLevel string   `json:"experience_level" validate:"experience" label:"Experience level"`
	TimeZone        string   `json:"time_zone" validate:"omitempty,iana_tz" label:"Time zone"`
}

// sessionResponse is returned by login and register.
type sessionResponse struct {
	User    models.User    `json:"user"`
	Profile models.Profile `json:"profile"`
}

// HandleLogin handles POST /login.
func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var in loginInput
	if err := respond.Decode(w, r, &in); err != nil {
		respond.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	if res := inputval.Validate(in); res.HasErrors() {
		uierrors.Invalid(w, res)
		return
	}
	if ok, reason := h.Limiter.Check(r, in.Email); !ok {
		h.Log.Warn("login rate limited",
			zap.String("ip", ratelimit.ClientIP(r)),
			zap.String("email", in.Email))
		w.Header().Set("Retry-After", "60")
		respond.Error(w, http.StatusTooManyRequests, reason)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "login")
	defer cancel()

	u, err := h.Users.Authenticate(ctx, in.Email, in.Password)
	switch {
	case errors.Is(err, userstore.ErrInvalidCredentials):
		respond.Error(w, http.StatusUnauthorized, "Invalid email or password.")
		return
	case errors.Is(err, userstore.ErrDisabled):
		respond.Error(w, http.StatusForbidden, "This account is disabled.")
		return
	case err != nil:
		h.ErrLog.LogServerError(w, r, "authenticate failed", err, "")
		return
	}
	h.Limiter.Succeeded(in.Email)

	profile, err := h.Profiles.GetOrEmpty(ctx, u.ID)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "load profile failed", err, "")
		return
	}
	if err := h.signIn(w, r, u, profile); err != nil {
		h.ErrLog.LogServerError(w, r, "sign in failed", err, "")
		return
	}

	now := time.Now().UTC()
	if err := h.Users.TouchLastLogin(ctx, u.ID, now); err != nil {
		h.Log.Warn("touch last login failed", zap.String("user_id", u.ID.Hex()), zap.Error(err))
	}
	u.LastLoginAt = &now
	h.Tracker.Record(ctx, u.ID, models.ActivityLogin, "", nil)

	h.Log.Info("user signed in", zap.String("user_id", u.ID.Hex()), zap.String("role", u.Role))
	respond.OK(w, sessionResponse{User: *u, Profile: profile})
}

// HandleRegister handles POST /register. New accounts are always learners.
func (h *Handler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var in registerInput
	if err := respond.Decode(w, r, &in); err != nil {
		respond.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	if res := inputval.Validate(in); res.HasErrors() {
		uierrors.Invalid(w, res)
		return
	}
	if ok, reason := h.Limiter.Check(r, in.Email); !ok {
		respond.Error(w, http.StatusTooManyRequests, reason)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "register")
	defer cancel()

	u, err := h.Users.Create(ctx, models.User{
		FullName: in.FullName,
		Email:    in.Email,
		Role:     models.RoleLearner,
	}, in.Password)
	switch {
	case errors.Is(err, userstore.ErrDuplicateEmail):
		respond.Error(w, http.StatusConflict, "An account with this email already exists.")
		return
	case errors.Is(err, userstore.ErrWeakPassword):
		respond.Error(w, http.StatusBadRequest, err.Error())
		return
	case err != nil:
		h.ErrLog.LogServerError(w, r, "create user failed", err, "")
		return
	}

	profile, err := h.Profiles.Create(ctx, models.Profile{
		UserID:          u.ID,
		DisplayName:     u.FullName,
		Role:            in.Role,
		Interests:       in.Interests,
		ExperienceLevel: in.ExperienceLevel,
		TimeZone:        in.TimeZone,
	})
	if err != nil {
		h.ErrLog.LogServerError(w, r, "create profile failed", err, "")
		return
	}
	if err := h.signIn(w, r, &u, profile); err != nil {
		h.ErrLog.LogServerError(w, r, "sign in failed", err, "")
		return
	}
	h.Tracker.Record(ctx, u.ID, models.ActivityLogin, "", map[string]string{"first": "true"})

	h.Log.Info("user registered", zap.String("user_id", u.ID.Hex()))
	respond.JSON(w, http.StatusCreated, sessionResponse{User: u, Profile: profile})
}

func (h *Handler) signIn(w http.ResponseWriter, r *http.Request, u *models.User, p models.Profile) error {
	tz := p.TimeZone
	if tz == "" {
		tz = h.DefaultTZ
	}
	return h.SessionMgr.SignIn(w, r, auth.SessionUser{
		ID:       u.ID.Hex(),
		Name:     u.FullName,
		Email:    u.Email,
		Role:     u.Role,
		TimeZone: tz,
	})
}
