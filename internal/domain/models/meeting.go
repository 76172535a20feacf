// internal/domain/models/meeting.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Meeting status values. A meeting is created Active and moves to exactly
// one terminal state: Cancelled (explicit user action) or Completed
// (natural end or the auto-end sweep). Terminal states accept no further
// transitions.
const (
	MeetingActive    = "Active"
	MeetingCancelled = "Cancelled"
	MeetingCompleted = "Completed"
)

// IsValidMeetingStatus checks if a value is a recognized meeting status.
func IsValidMeetingStatus(s string) bool {
	switch s {
	case MeetingActive, MeetingCancelled, MeetingCompleted:
		return true
	}
	return false
}

// Meeting is a scheduled faculty meeting.
//
// Start/End are half-open: the meeting occupies [Start, End). End is
// validated against Start at creation only. Participants are the free-text
// names the conflict check matches on; Attendees selects the notification
// audience (see Audience).
type Meeting struct {
	ID    primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title string             `bson:"title" json:"title"`

	Start time.Time `bson:"start" json:"start"`
	End   time.Time `bson:"end" json:"end"`

	// DurationMinutes is used to derive End when the client supplies only a
	// start time. Defaults to 60.
	DurationMinutes int `bson:"duration_minutes" json:"duration_minutes"`

	Location     string   `bson:"location,omitempty" json:"location,omitempty"`
	Participants []string `bson:"participants" json:"participants"`

	// Description is the meeting agenda. It may carry limited rich markup
	// and is sanitized before storage.
	Description string `bson:"description,omitempty" json:"description,omitempty"`

	// Attendees is the audience tag ("All Faculty", "All HODs", "All Deans",
	// "Custom"). For Custom, CustomAttendeeIDs carries the explicit list.
	Attendees         string   `bson:"attendees" json:"attendees"`
	CustomAttendeeIDs []string `bson:"custom_attendee_ids,omitempty" json:"custom_attendee_ids,omitempty"`

	Status string `bson:"status" json:"status"`

	// ScheduledBy is the user id of the scheduler.
	ScheduledBy string `bson:"scheduled_by,omitempty" json:"scheduled_by,omitempty"`

	// EndTime is the actual end recorded by the auto-end sweep, as opposed
	// to the planned End.
	EndTime *time.Time `bson:"end_time,omitempty" json:"end_time,omitempty"`

	// StartNotifiedAt marks that the start-window notifier already fired for
	// this meeting, so consecutive sweeps do not re-send.
	StartNotifiedAt *time.Time `bson:"start_notified_at,omitempty" json:"start_notified_at,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
