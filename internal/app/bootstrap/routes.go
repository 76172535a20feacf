// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"

	facultyfeature "github.com/bmsit/facultymeet/internal/app/features/faculty"
	healthfeature "github.com/bmsit/facultymeet/internal/app/features/health"
	meetingsfeature "github.com/bmsit/facultymeet/internal/app/features/meetings"
	notificationsfeature "github.com/bmsit/facultymeet/internal/app/features/notificationsfeed"
	sessionfeature "github.com/bmsit/facultymeet/internal/app/features/session"
	voicefeature "github.com/bmsit/facultymeet/internal/app/features/voice"
	userstore "github.com/bmsit/facultymeet/internal/app/store/users"
	"github.com/bmsit/facultymeet/internal/app/system/auth"
	"github.com/dalemusser/waffle/config"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup, and
// the Startup hook have completed, so the shared services built in Startup
// (notifier, voice parser, campus time zone) are available here.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	// Secure cookies are enabled in production mode.
	secure := coreCfg.Env == "prod"
	sessionMgr, err := auth.NewSessionManager(appCfg.SessionKey, appCfg.SessionName, appCfg.SessionDomain, secure, logger)
	if err != nil {
		logger.Error("session manager init failed", zap.Error(err))
		return nil, err
	}

	// Fetch fresh user data on each request so designation changes and
	// disabled accounts take effect immediately.
	sessionMgr.SetUserFetcher(userstore.NewFetcher(deps.MongoDatabase))

	r := chi.NewRouter()

	// Global auth middleware: loads SessionUser into context if logged in.
	r.Use(sessionMgr.LoadSessionUser)

	// Health check endpoint for load balancers and orchestrators
	healthHandler := healthfeature.NewHandler(deps.MongoClient, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	// Session establishment from the upstream-verified identity
	sessionHandler := sessionfeature.NewHandler(deps.MongoDatabase, sessionMgr, logger)
	r.Mount("/session", sessionfeature.Routes(sessionHandler))

	// Meeting scheduling, availability and lifecycle
	meetingsHandler := meetingsfeature.NewHandler(deps.MongoDatabase, notifySvc, campusLoc, logger)
	r.Mount("/meetings", meetingsfeature.Routes(meetingsHandler, sessionMgr))

	// Faculty directory and device-token registration
	facultyHandler := facultyfeature.NewHandler(deps.MongoDatabase, logger)
	r.Mount("/faculty", facultyfeature.Routes(facultyHandler, sessionMgr))

	// In-app notification feed and manual dashboard refresh
	notificationsHandler := notificationsfeature.NewHandler(deps.MongoDatabase, notifySvc, logger)
	r.Mount("/notifications", notificationsfeature.Routes(notificationsHandler, sessionMgr))

	// Voice command parsing
	voiceHandler := voicefeature.NewHandler(voiceParser, logger)
	r.Mount("/voice", voicefeature.Routes(voiceHandler, sessionMgr))

	return r, nil
}
