// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// These values come from environment variables, configuration files, or
// command-line flags (loaded in LoadConfig). WAFFLE's CoreConfig keeps the
// framework-level settings (ports, TLS, log level, CORS); everything the
// learning platform itself needs lives here.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI         string // MongoDB connection string (e.g., mongodb://localhost:27017)
	MongoDatabase    string // Database name within MongoDB
	MongoMaxPoolSize uint64
	MongoMinPoolSize uint64

	// Session management configuration
	SessionKey    string        // Secret key for signing session cookies (must be strong in production)
	SessionName   string        // Cookie name for sessions (default: agenseek-session)
	SessionDomain string        // Cookie domain (blank means current host)
	SessionMaxAge time.Duration // Cookie lifetime

	// DefaultTimeZone is used for learners who never picked one.
	DefaultTimeZone string

	// Admin bootstrap. Both blank disables it.
	AdminEmail    string
	AdminPassword string

	// AvatarBaseURL is the avatar image service; the profile seed is appended
	// as ?seed=.
	AvatarBaseURL string

	// Dashboard list sizes
	DashboardInProgressLimit int
	DashboardPopularLimit    int
	FeedLimit                int

	// StatsRefreshInterval is how often platform totals are copied into
	// Prometheus gauges. Zero disables the worker.
	StatsRefreshInterval time.Duration

	// Database deadlines; zero keeps the timeouts package defaults.
	TimeoutShort  time.Duration
	TimeoutMedium time.Duration
	TimeoutExport time.Duration
}
