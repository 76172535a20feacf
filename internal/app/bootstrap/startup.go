// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"
	"fmt"
	"time"

	meetingstore "github.com/bmsit/facultymeet/internal/app/store/meetings"
	"github.com/bmsit/facultymeet/internal/app/system/notify"
	"github.com/bmsit/facultymeet/internal/app/system/push"
	"github.com/bmsit/facultymeet/internal/app/system/voice"
	"github.com/bmsit/facultymeet/internal/app/system/workers"
	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

// Shared services built once at startup. BuildHandler hands them to the
// feature handlers; Shutdown stops the workers.
var (
	campusLoc   *time.Location
	notifySvc   *notify.Service
	voiceParser *voice.Parser

	autoEndWorker     *workers.AutoEnd
	startNotifyWorker *workers.StartNotify
)

// Startup runs one-time application initialization after DB connections and
// schema setup are complete, but before the HTTP handler is built. The
// portal builds the push sender, the notification service and the voice
// parser here, then starts the two background sweeps.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	loc, err := time.LoadLocation(appCfg.TimeZone)
	if err != nil {
		return fmt.Errorf("load time zone: %w", err)
	}
	campusLoc = loc

	var sender push.Sender
	if appCfg.PushEnabled {
		fcm, err := push.NewFCM(ctx, appCfg.FirebaseCredentialsFile, logger)
		if err != nil {
			return fmt.Errorf("init FCM: %w", err)
		}
		sender = fcm
		logger.Info("push delivery enabled (FCM)")
	} else {
		sender = push.NewLogSender(logger)
		logger.Info("push delivery disabled; payloads will be logged")
	}

	notifySvc = notify.NewService(deps.MongoDatabase, sender, logger)

	var nlu voice.NLU
	if appCfg.DialogflowProjectID != "" {
		df, err := voice.NewDialogflow(ctx, appCfg.DialogflowProjectID, appCfg.DialogflowCredentialsFile)
		if err != nil {
			// Dialogflow is an enhancement; the local parser still works.
			logger.Warn("dialogflow init failed, using local parsing only", zap.Error(err))
		} else {
			nlu = df
			logger.Info("dialogflow NLU enabled", zap.String("project", appCfg.DialogflowProjectID))
		}
	}
	voiceParser = voice.NewParser(nlu, loc, logger)

	meetings := meetingstore.New(deps.MongoDatabase)

	autoEndWorker = workers.NewAutoEnd(meetings, logger, appCfg.AutoEndInterval, loc)
	autoEndWorker.Start()

	startNotifyWorker = workers.NewStartNotify(meetings, notifySvc, logger, appCfg.StartNotifyInterval, loc)
	startNotifyWorker.Start()

	return nil
}
