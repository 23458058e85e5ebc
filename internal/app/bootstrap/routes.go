// internal/app/bootstrap/routes.go
package bootstrap

import (
	"context"
	"net/http"
	"time"

	adminfeature "github.com/dalemusser/agenseek/internal/app/features/admin"
	dashboardfeature "github.com/dalemusser/agenseek/internal/app/features/dashboard"
	errorsfeature "github.com/dalemusser/agenseek/internal/app/features/errors"
	guidesfeature "github.com/dalemusser/agenseek/internal/app/features/guides"
	healthfeature "github.com/dalemusser/agenseek/internal/app/features/health"
	loginfeature "github.com/dalemusser/agenseek/internal/app/features/login"
	logoutfeature "github.com/dalemusser/agenseek/internal/app/features/logout"
	notesfeature "github.com/dalemusser/agenseek/internal/app/features/notes"
	profilefeature "github.com/dalemusser/agenseek/internal/app/features/profile"
	progressfeature "github.com/dalemusser/agenseek/internal/app/features/progress"
	"github.com/dalemusser/agenseek/internal/app/features/shared"
	tasksfeature "github.com/dalemusser/agenseek/internal/app/features/tasks"
	activitystore "github.com/dalemusser/agenseek/internal/app/store/activity"
	notestore "github.com/dalemusser/agenseek/internal/app/store/notes"
	profilestore "github.com/dalemusser/agenseek/internal/app/store/profiles"
	progressstore "github.com/dalemusser/agenseek/internal/app/store/progress"
	taskstore "github.com/dalemusser/agenseek/internal/app/store/tasks"
	userstore "github.com/dalemusser/agenseek/internal/app/store/users"
	"github.com/dalemusser/agenseek/internal/app/system/auth"
	"github.com/dalemusser/agenseek/internal/app/system/metrics"
	"github.com/dalemusser/agenseek/internal/app/system/ratelimit"
	"github.com/dalemusser/agenseek/internal/app/system/workers"
	"github.com/dalemusser/waffle/config"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup, and
// Startup have completed. It builds the stores once, shares them between the
// feature handlers and mounts every feature router.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	cat, err := loadedCatalog()
	if err != nil {
		logger.Error("guide catalog failed to load", zap.Error(err))
		return nil, err
	}

	// Secure cookies are enabled in production mode.
	secure := coreCfg.Env == "prod"
	sessionMgr, err := auth.NewSessionManager(appCfg.SessionKey, appCfg.SessionName, appCfg.SessionDomain,
		appCfg.SessionMaxAge, secure, logger)
	if err != nil {
		logger.Error("session manager init failed", zap.Error(err))
		return nil, err
	}

	defaultLoc, err := time.LoadLocation(appCfg.DefaultTimeZone)
	if err != nil {
		logger.Warn("default time zone invalid, using UTC",
			zap.String("time_zone", appCfg.DefaultTimeZone), zap.Error(err))
		defaultLoc = time.UTC
	}

	m := metrics.New()
	errLog := errorsfeature.NewErrorLogger(logger)

	db := deps.MongoDatabase
	users := userstore.New(db)
	profiles := profilestore.New(db)
	progress := progressstore.New(db)
	activity := activitystore.New(db)
	notes := notestore.New(db)
	tasks := taskstore.New(db)

	tracker := shared.NewTracker(activity, m, logger)
	path := shared.NewPathBuilder(cat, profiles, progress, m)

	limiter := ratelimit.NewLoginLimiter()
	bgCtx, cancel := context.WithCancel(context.Background())
	go limiter.Run(bgCtx)

	stats := workers.NewStatsRefresh(db, m, logger, appCfg.StatsRefreshInterval)
	if appCfg.StatsRefreshInterval > 0 {
		stats.Start()
	}
	setStopBackground(func() {
		cancel()
		stats.Stop()
	})

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(m.Instrument)

	// Global auth middleware: loads SessionUser into context if logged in.
	r.Use(sessionMgr.LoadSessionUser)

	r.NotFound(errorsfeature.NotFound)
	r.MethodNotAllowed(errorsfeature.MethodNotAllowed)

	// Operational endpoints
	healthHandler := healthfeature.NewHandler(deps.MongoClient, cat.Len(), logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))
	r.Handle("/metrics", m.Handler())

	// Authentication
	loginHandler := loginfeature.NewHandler(users, profiles, tracker, sessionMgr, limiter, errLog,
		appCfg.DefaultTimeZone, logger)
	r.Mount("/login", loginfeature.LoginRoutes(loginHandler))
	r.Mount("/register", loginfeature.RegisterRoutes(loginHandler))

	logoutHandler := logoutfeature.NewHandler(sessionMgr, logger)
	r.Mount("/logout", logoutfeature.Routes(logoutHandler, sessionMgr))

	profileHandler := profilefeature.NewHandler(users, profiles, sessionMgr, errLog,
		appCfg.AvatarBaseURL, appCfg.DefaultTimeZone, logger)
	r.Mount("/profile", profilefeature.Routes(profileHandler, sessionMgr))

	// Learning
	guidesHandler := guidesfeature.NewHandler(cat, path, progress, tracker, errLog, logger)
	r.Mount("/guides", guidesfeature.Routes(guidesHandler, sessionMgr))

	dashboardHandler := dashboardfeature.NewHandler(cat, path, progress, activity, notes, tasks, m,
		dashboardfeature.Limits{
			InProgress: appCfg.DashboardInProgressLimit,
			Popular:    appCfg.DashboardPopularLimit,
			Feed:       appCfg.FeedLimit,
		}, defaultLoc, errLog, logger)
	r.Mount("/dashboard", dashboardfeature.Routes(dashboardHandler, sessionMgr))

	progressHandler := progressfeature.NewHandler(cat, path, progress, activity, notes, tasks, defaultLoc, errLog, logger)
	r.Mount("/progress", progressfeature.Routes(progressHandler, sessionMgr))

	// Personal workspace
	notesHandler := notesfeature.NewHandler(notes, cat, tracker, errLog, logger)
	r.Mount("/notes", notesfeature.Routes(notesHandler, sessionMgr))

	tasksHandler := tasksfeature.NewHandler(tasks, cat, tracker, errLog, logger)
	r.Mount("/tasks", tasksfeature.Routes(tasksHandler, sessionMgr))

	// Administration
	adminHandler := adminfeature.NewHandler(db, users, profiles, progress, errLog, logger)
	r.Mount("/admin", adminfeature.Routes(adminHandler, sessionMgr))

	logger.Info("routes mounted", zap.Int("guides", cat.Len()))
	return r, nil
}
