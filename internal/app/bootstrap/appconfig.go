// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// WAFFLE's CoreConfig handles framework-level settings like HTTP ports,
// TLS, logging level and CORS. AppConfig is everything specific to the
// meeting portal: database, sessions, push delivery, the campus time zone
// and the background sweep cadence.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI         string // MongoDB connection string (e.g., mongodb://localhost:27017)
	MongoDatabase    string // Database name within MongoDB
	MongoMaxPoolSize uint64
	MongoMinPoolSize uint64

	// Session management configuration
	SessionKey    string // Secret key for signing session cookies (must be strong in production)
	SessionName   string // Cookie name for sessions (default: facultymeet-session)
	SessionDomain string // Cookie domain (blank means current host)

	// TimeZone is the campus zone. Day boundaries for the auto-end sweep
	// and relative-day phrasing in notification bodies use this zone.
	TimeZone string

	// Background worker cadence.
	AutoEndInterval     time.Duration // how often the auto-end sweep runs
	StartNotifyInterval time.Duration // how often the start-window notifier runs

	// Push delivery. With PushEnabled false (or no credentials file) the
	// portal logs payloads instead of sending them.
	PushEnabled             bool
	FirebaseCredentialsFile string

	// Voice command parsing. Dialogflow is optional; without a project id
	// the parser falls back to local pattern matching.
	DialogflowProjectID       string
	DialogflowCredentialsFile string
}
