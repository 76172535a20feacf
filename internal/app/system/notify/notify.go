// Package notify resolves a meeting's audience to concrete recipients and
// dispatches lifecycle events through the push gateway, recording each
// payload in the notifications collection.
package notify

import (
	"context"

	notificationstore "github.com/bmsit/facultymeet/internal/app/store/notifications"
	userstore "github.com/bmsit/facultymeet/internal/app/store/users"
	"github.com/bmsit/facultymeet/internal/app/system/audience"
	"github.com/bmsit/facultymeet/internal/app/system/lifecycle"
	"github.com/bmsit/facultymeet/internal/app/system/push"
	"github.com/bmsit/facultymeet/internal/domain/models"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// RefreshTopic is the broadcast topic dashboard clients subscribe to.
const RefreshTopic = "refresh"

type Service struct {
	users  *userstore.Store
	notes  *notificationstore.Store
	sender push.Sender
	log    *zap.Logger
}

func NewService(db *mongo.Database, sender push.Sender, logger *zap.Logger) *Service {
	return &Service{
		users:  userstore.New(db),
		notes:  notificationstore.New(db),
		sender: sender,
		log:    logger,
	}
}

// Resolve expands a meeting's audience tag into user records. Group tags
// query by role whitelist; Custom filters the explicit id list down to
// existing users. Unrecognized tags are an error.
func (s *Service) Resolve(ctx context.Context, m models.Meeting) ([]models.User, error) {
	if m.Attendees == models.AudienceCustom {
		return s.users.ByIDs(ctx, m.CustomAttendeeIDs)
	}
	roles, err := audience.Whitelist(m.Attendees)
	if err != nil {
		return nil, err
	}
	return s.users.ByDesignations(ctx, roles)
}

// Dispatch sends a lifecycle event to the meeting's resolved audience.
// Recipients without a delivery token are silently dropped. Tokens the
// gateway reports permanently invalid are removed from their user records
// best-effort; cleanup failures are logged and swallowed.
func (s *Service) Dispatch(ctx context.Context, m models.Meeting, ev lifecycle.Event) error {
	recipients, err := s.Resolve(ctx, m)
	if err != nil {
		return err
	}
	if len(recipients) == 0 {
		return nil
	}

	recipientIDs := make([]string, 0, len(recipients))
	tokens := make([]string, 0, len(recipients))
	for _, u := range recipients {
		recipientIDs = append(recipientIDs, u.ID.Hex())
		if u.FCMToken != nil && *u.FCMToken != "" {
			tokens = append(tokens, *u.FCMToken)
		}
	}

	msg := push.Message{Title: ev.Title, Body: ev.Body, Data: ev.Data}
	dispatchID := uuid.NewString()

	var report push.Report
	if len(tokens) > 0 {
		report, err = s.sender.SendMulticast(ctx, tokens, msg)
		if err != nil {
			return err
		}
	}

	record := models.Notification{
		Type:         string(ev.Change),
		Title:        ev.Title,
		Body:         ev.Body,
		MeetingID:    ev.MeetingID,
		RecipientIDs: recipientIDs,
		DispatchID:   dispatchID,
		SentCount:    report.SuccessCount,
		FailedCount:  report.FailureCount,
	}
	if _, err := s.notes.Insert(ctx, record); err != nil {
		s.log.Warn("failed to record notification", zap.Error(err),
			zap.String("dispatch_id", dispatchID))
	}

	s.cleanupInvalid(ctx, report.InvalidTokens)
	return nil
}

// BroadcastRefresh asks every subscribed dashboard to reload.
func (s *Service) BroadcastRefresh(ctx context.Context, message string) error {
	if message == "" {
		message = "Please refresh your dashboard"
	}
	msg := push.Message{
		Title: "Dashboard Update",
		Body:  message,
		Data:  map[string]string{"type": models.NotificationRefresh},
	}
	if err := s.sender.SendToTopic(ctx, RefreshTopic, msg); err != nil {
		return err
	}
	if _, err := s.notes.Insert(ctx, models.Notification{
		Type:       models.NotificationRefresh,
		Title:      msg.Title,
		Body:       msg.Body,
		DispatchID: uuid.NewString(),
	}); err != nil {
		s.log.Warn("failed to record refresh notification", zap.Error(err))
	}
	return nil
}

// cleanupInvalid strips dead tokens from user records. A user updating
// their token concurrently just means the stale address is dropped again on
// a later failed send.
func (s *Service) cleanupInvalid(ctx context.Context, tokens []string) {
	if len(tokens) == 0 {
		return
	}
	count, err := s.users.ClearTokens(ctx, tokens)
	if err != nil {
		s.log.Warn("invalid token cleanup failed", zap.Error(err), zap.Int("tokens", len(tokens)))
		return
	}
	if count > 0 {
		s.log.Info("cleared invalid push tokens", zap.Int64("count", count))
	}
}
