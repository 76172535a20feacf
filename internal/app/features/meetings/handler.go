// internal/app/features/meetings/handler.go
package meetings

import (
	"time"

	meetingstore "github.com/bmsit/facultymeet/internal/app/store/meetings"
	"github.com/bmsit/facultymeet/internal/app/system/notify"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler is the feature-level entry point for Meetings.
type Handler struct {
	DB       *mongo.Database
	Meetings *meetingstore.Store
	Notify   *notify.Service
	Loc      *time.Location
	Log      *zap.Logger
}

// NewHandler constructs a Meetings handler bound to a DB, notifier and logger.
// loc is the campus time zone used to interpret zone-less client times and to
// phrase relative days in notification bodies.
func NewHandler(db *mongo.Database, n *notify.Service, loc *time.Location, logger *zap.Logger) *Handler {
	return &Handler{
		DB:       db,
		Meetings: meetingstore.New(db),
		Notify:   n,
		Loc:      loc,
		Log:      logger,
	}
}
