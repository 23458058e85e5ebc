// internal/app/bootstrap/config.go
package bootstrap

import (
	"fmt"
	"strings"
	"time"

	userstore "github.com/dalemusser/agenseek/internal/app/store/users"
	"github.com/dalemusser/waffle/config"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.uber.org/zap"
)

// appConfigKeys defines the configuration keys for Agenseek.
// These are loaded via WAFFLE's config system with support for:
//   - Config files: mongo_uri, session_name, etc.
//   - Environment variables: AGENSEEK_MONGO_URI, AGENSEEK_SESSION_NAME, etc.
//   - Command-line flags: --mongo_uri, --session_name, etc.
var appConfigKeys = []config.AppKey{
	{Name: "mongo_uri", Default: "mongodb://localhost:27017", Desc: "MongoDB connection URI"},
	{Name: "mongo_database", Default: "agenseek", Desc: "MongoDB database name"},
	{Name: "mongo_max_pool_size", Default: 100, Desc: "MongoDB max connection pool size (default: 100)"},
	{Name: "mongo_min_pool_size", Default: 10, Desc: "MongoDB min connection pool size (default: 10)"},
	{Name: "session_key", Default: "dev-only-change-me-please-0123456789ABCDEF", Desc: "Session signing key (must be strong in production)"},
	{Name: "session_name", Default: "agenseek-session", Desc: "Session cookie name"},
	{Name: "session_domain", Default: "", Desc: "Session cookie domain (blank means current host)"},
	{Name: "session_max_age", Default: "720h", Desc: "Session cookie lifetime (e.g., 24h, 720h)"},

	{Name: "default_timezone", Default: "Asia/Jerusalem", Desc: "IANA time zone for learners without one"},

	// Admin bootstrap
	{Name: "admin_email", Default: "", Desc: "Email of the admin user (promotes/creates on startup)"},
	{Name: "admin_password", Default: "", Desc: "Password used when the admin user has to be created"},

	{Name: "avatar_base_url", Default: "https://api.dicebear.com/7.x/avataaars/svg", Desc: "Avatar image service base URL"},

	// Dashboard
	{Name: "dashboard_in_progress_limit", Default: 3, Desc: "Guides shown under continue reading"},
	{Name: "dashboard_popular_limit", Default: 5, Desc: "Guides shown under popular this week"},
	{Name: "feed_limit", Default: 20, Desc: "Entries in the activity feed"},

	{Name: "stats_refresh_interval", Default: "1m", Desc: "How often platform totals are exported as metrics (0 disables)"},

	// Timeouts
	{Name: "timeout_short", Default: "5s", Desc: "Deadline for single-document database work"},
	{Name: "timeout_medium", Default: "10s", Desc: "Deadline for list queries and dashboard assembly"},
	{Name: "timeout_export", Default: "60s", Desc: "Deadline for CSV exports"},
}

// LoadConfig loads WAFFLE core config and app-specific config.
//
// WAFFLE's config.LoadWithAppConfig merges .env files, config files,
// AGENSEEK_* environment variables and flags with precedence
// flags > env > files > defaults.
func LoadConfig(logger *zap.Logger) (*config.CoreConfig, AppConfig, error) {
	coreCfg, appValues, err := config.LoadWithAppConfig(logger, "AGENSEEK", appConfigKeys)
	if err != nil {
		return nil, AppConfig{}, err
	}

	appCfg := AppConfig{
		MongoURI:         appValues.String("mongo_uri"),
		MongoDatabase:    appValues.String("mongo_database"),
		MongoMaxPoolSize: uint64(appValues.Int("mongo_max_pool_size")),
		MongoMinPoolSize: uint64(appValues.Int("mongo_min_pool_size")),
		SessionKey:       appValues.String("session_key"),
		SessionName:      appValues.String("session_name"),
		SessionDomain:    appValues.String("session_domain"),
		SessionMaxAge:    appValues.Duration("session_max_age", 30*24*time.Hour),

		DefaultTimeZone: strings.TrimSpace(appValues.String("default_timezone")),

		AdminEmail:    strings.TrimSpace(appValues.String("admin_email")),
		AdminPassword: appValues.String("admin_password"),

		AvatarBaseURL: appValues.String("avatar_base_url"),

		DashboardInProgressLimit: appValues.Int("dashboard_in_progress_limit"),
		DashboardPopularLimit:    appValues.Int("dashboard_popular_limit"),
		FeedLimit:                appValues.Int("feed_limit"),

		StatsRefreshInterval: appValues.Duration("stats_refresh_interval", time.Minute),

		TimeoutShort:  appValues.Duration("timeout_short", 0),
		TimeoutMedium: appValues.Duration("timeout_medium", 0),
		TimeoutExport: appValues.Duration("timeout_export", 0),
	}

	return coreCfg, appCfg, nil
}

// ValidateConfig performs app-specific config validation.
//
// Return nil to accept the loaded config, or an error to abort startup.
func ValidateConfig(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) error {
	if err := wafflemongo.ValidateURI(appCfg.MongoURI); err != nil {
		logger.Error("invalid MongoDB URI", zap.Error(err))
		return fmt.Errorf("invalid MongoDB URI: %w", err)
	}
	return validateApp(appCfg)
}

// validateApp holds the checks that need no logger, so tests can call it.
func validateApp(appCfg AppConfig) error {
	if appCfg.MongoDatabase == "" {
		return fmt.Errorf("mongo_database must not be empty")
	}
	if _, err := time.LoadLocation(appCfg.DefaultTimeZone); err != nil || appCfg.DefaultTimeZone == "" {
		return fmt.Errorf("default_timezone %q is not a valid IANA time zone", appCfg.DefaultTimeZone)
	}
	if (appCfg.AdminEmail == "") != (appCfg.AdminPassword == "") {
		return fmt.Errorf("admin_email and admin_password must be set together")
	}
	if appCfg.AdminPassword != "" && len(appCfg.AdminPassword) < userstore.MinPasswordLen {
		return fmt.Errorf("admin_password must be at least %d characters", userstore.MinPasswordLen)
	}
	if appCfg.DashboardInProgressLimit < 0 || appCfg.DashboardPopularLimit < 0 || appCfg.FeedLimit < 0 {
		return fmt.Errorf("dashboard limits must not be negative")
	}
	return nil
}
