// internal/app/bootstrap/config.go
package bootstrap

import (
	"fmt"
	"time"

	"github.com/dalemusser/waffle/config"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.uber.org/zap"
)

// appConfigKeys defines the configuration keys for the meeting portal.
// These are loaded via WAFFLE's config system with support for:
//   - Config files: mongo_uri, session_name, etc.
//   - Environment variables: FACULTYMEET_MONGO_URI, FACULTYMEET_SESSION_NAME, etc.
//   - Command-line flags: --mongo_uri, --session_name, etc.
var appConfigKeys = []config.AppKey{
	{Name: "mongo_uri", Default: "mongodb://localhost:27017", Desc: "MongoDB connection URI"},
	{Name: "mongo_database", Default: "faculty_meet", Desc: "MongoDB database name"},
	{Name: "mongo_max_pool_size", Default: 100, Desc: "MongoDB max connection pool size (default: 100)"},
	{Name: "mongo_min_pool_size", Default: 10, Desc: "MongoDB min connection pool size (default: 10)"},
	{Name: "session_key", Default: "dev-only-change-me-please-0123456789ABCDEF", Desc: "Session signing key (must be strong in production)"},
	{Name: "session_name", Default: "facultymeet-session", Desc: "Session cookie name"},
	{Name: "session_domain", Default: "", Desc: "Session cookie domain (blank means current host)"},

	// Campus time zone; meeting day boundaries are evaluated in this zone.
	{Name: "time_zone", Default: "Asia/Kolkata", Desc: "Campus time zone (IANA name)"},

	// Background worker cadence
	{Name: "autoend_interval", Default: "5m", Desc: "How often the auto-end sweep runs (e.g., 5m)"},
	{Name: "startnotify_interval", Default: "1m", Desc: "How often the start-window notifier runs (e.g., 1m)"},

	// Push delivery (Firebase Cloud Messaging)
	{Name: "push_enabled", Default: false, Desc: "Enable push delivery via FCM"},
	{Name: "firebase_credentials_file", Default: "", Desc: "Path to the Firebase service account JSON"},

	// Voice command parsing (Dialogflow; optional)
	{Name: "dialogflow_project_id", Default: "", Desc: "Dialogflow project id (blank disables NLU, local parsing still works)"},
	{Name: "dialogflow_credentials_file", Default: "", Desc: "Path to the Dialogflow service account JSON"},
}

// LoadConfig loads WAFFLE core config and app-specific config.
//
// It is called early in startup so that both WAFFLE and the app have
// access to configuration before any backends or handlers are built.
//
// WAFFLE's config.LoadWithAppConfig handles:
//   - Loading from .env files
//   - Loading from config.yaml/json/toml files
//   - Reading environment variables (WAFFLE_* for core, FACULTYMEET_* for app)
//   - Parsing command-line flags
//   - Merging with precedence: flags > env > files > defaults
func LoadConfig(logger *zap.Logger) (*config.CoreConfig, AppConfig, error) {
	coreCfg, appValues, err := config.LoadWithAppConfig(logger, "FACULTYMEET", appConfigKeys)
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

		TimeZone: appValues.String("time_zone"),

		AutoEndInterval:     appValues.Duration("autoend_interval", 5*time.Minute),
		StartNotifyInterval: appValues.Duration("startnotify_interval", time.Minute),

		PushEnabled:             appValues.Bool("push_enabled"),
		FirebaseCredentialsFile: appValues.String("firebase_credentials_file"),

		DialogflowProjectID:       appValues.String("dialogflow_project_id"),
		DialogflowCredentialsFile: appValues.String("dialogflow_credentials_file"),
	}

	return coreCfg, appCfg, nil
}

// ValidateConfig performs app-specific config validation.
//
// The portal validates the MongoDB URI format and the campus time zone, to
// catch configuration errors early, before attempting to connect.
func ValidateConfig(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) error {
	if err := wafflemongo.ValidateURI(appCfg.MongoURI); err != nil {
		logger.Error("invalid MongoDB URI", zap.Error(err))
		return fmt.Errorf("invalid MongoDB URI: %w", err)
	}

	if _, err := time.LoadLocation(appCfg.TimeZone); err != nil {
		return fmt.Errorf("invalid time_zone %q: %w", appCfg.TimeZone, err)
	}

	if appCfg.PushEnabled && appCfg.FirebaseCredentialsFile == "" {
		return fmt.Errorf("push_enabled requires firebase_credentials_file")
	}

	if appCfg.AutoEndInterval <= 0 || appCfg.StartNotifyInterval <= 0 {
		return fmt.Errorf("worker intervals must be positive")
	}

	return nil
}
