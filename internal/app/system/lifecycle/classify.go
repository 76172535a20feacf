// internal/app/system/lifecycle/classify.go
package lifecycle

import (
	"fmt"
	"time"

	"github.com/bmsit/facultymeet/internal/domain/models"
)

// Change is the classified kind of a meeting write.
type Change string

const (
	ChangeNone        Change = ""
	ChangeCreated     Change = models.NotificationCreated
	ChangeCancelled   Change = models.NotificationCancelled
	ChangeRescheduled Change = models.NotificationRescheduled
)

// Event is the notification payload a classified change produces.
type Event struct {
	Change    Change
	MeetingID string
	Title     string
	Body      string

	// Data is the opaque map delivered alongside the visible notification.
	Data map[string]string
}

// ClassifyCreate produces the "new meeting" event for a freshly created
// record. Only Active records announce themselves.
func ClassifyCreate(m models.Meeting) (Event, bool) {
	if m.Status != models.MeetingActive {
		return Event{}, false
	}
	location := m.Location
	if location == "" {
		location = "TBD"
	}
	body := "Location: " + location
	return Event{
		Change:    ChangeCreated,
		MeetingID: m.ID.Hex(),
		Title:     "New meeting: " + displayTitle(m),
		Body:      body,
		Data: map[string]string{
			"type":      string(ChangeCreated),
			"meetingId": m.ID.Hex(),
		},
	}, true
}

// ClassifyUpdate compares the previous and new state of a meeting and
// produces the matching event:
//
//   - Active → Cancelled: a "cancelled" event naming the previously
//     scheduled relative day.
//   - Active → Active with a different start: a "rescheduled" event with the
//     old day, new day, new clock time, and direction (postponed when the
//     start moved later, preponed when earlier).
//
// Every other transition, including anything out of a terminal state, is
// silent.
func ClassifyUpdate(before, after models.Meeting, now time.Time, loc *time.Location) (Event, bool) {
	if before.Status == models.MeetingActive && after.Status == models.MeetingCancelled {
		rel := RelativeDay(before.Start, now, loc)
		return Event{
			Change:    ChangeCancelled,
			MeetingID: after.ID.Hex(),
			Title:     "Meeting cancelled",
			Body:      fmt.Sprintf("The meeting '%s' which was expected %s is cancelled.", displayTitle(after), rel),
			Data: map[string]string{
				"type":      string(ChangeCancelled),
				"meetingId": after.ID.Hex(),
			},
		}, true
	}

	if before.Status == models.MeetingActive && after.Status == models.MeetingActive &&
		!before.Start.IsZero() && !after.Start.IsZero() && !before.Start.Equal(after.Start) {
		movement := "postponed"
		if after.Start.Before(before.Start) {
			movement = "preponed"
		}
		relOld := RelativeDay(before.Start, now, loc)
		relNew := RelativeDay(after.Start, now, loc)
		return Event{
			Change:    ChangeRescheduled,
			MeetingID: after.ID.Hex(),
			Title:     "Meeting rescheduled",
			Body: fmt.Sprintf("The meeting '%s' which was expected %s is %s to %s at %s.",
				displayTitle(after), relOld, movement, relNew, ClockTime(after.Start, loc)),
			Data: map[string]string{
				"type":      string(ChangeRescheduled),
				"meetingId": after.ID.Hex(),
			},
		}, true
	}

	return Event{}, false
}

// StartingNowEvent is the payload for the start-window notifier.
func StartingNowEvent(m models.Meeting) Event {
	location := m.Location
	if location == "" {
		location = "the designated location"
	}
	return Event{
		Change:    Change(models.NotificationStartingNow),
		MeetingID: m.ID.Hex(),
		Title:     "Meeting Starting Now",
		Body:      fmt.Sprintf("The meeting \"%s\" is starting now at %s.", displayTitle(m), location),
		Data: map[string]string{
			"type":      models.NotificationStartingNow,
			"meetingId": m.ID.Hex(),
			"location":  m.Location,
		},
	}
}

func displayTitle(m models.Meeting) string {
	if m.Title == "" {
		return "Meeting"
	}
	return m.Title
}
