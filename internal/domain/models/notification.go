// internal/domain/models/notification.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Notification types recorded in the notifications collection. One document
// is written per dispatched payload so the in-app feed and auditing can
// replay what was sent.
const (
	NotificationCreated     = "created"
	NotificationCancelled   = "cancelled"
	NotificationRescheduled = "rescheduled"
	NotificationStartingNow = "meeting_start"
	NotificationRefresh     = "refresh_dashboard"
)

// Notification is a record of an outbound push payload.
type Notification struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Type      string             `bson:"type" json:"type"`
	Title     string             `bson:"title" json:"title"`
	Body      string             `bson:"body" json:"body"`
	MeetingID string             `bson:"meeting_id,omitempty" json:"meeting_id,omitempty"`

	// RecipientIDs are the user ids the payload was addressed to, after
	// audience resolution but before token filtering.
	RecipientIDs []string `bson:"recipient_ids,omitempty" json:"recipient_ids,omitempty"`

	// DispatchID correlates this record with the push gateway send report.
	DispatchID string `bson:"dispatch_id,omitempty" json:"dispatch_id,omitempty"`

	SentCount   int `bson:"sent_count" json:"sent_count"`
	FailedCount int `bson:"failed_count" json:"failed_count"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}
