package lifecycle_test

import (
	"testing"
	"time"

	"github.com/bmsit/facultymeet/internal/app/system/lifecycle"
	"github.com/bmsit/facultymeet/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func meeting(title, status string, start time.Time) models.Meeting {
	return models.Meeting{
		ID:     primitive.NewObjectID(),
		Title:  title,
		Start:  start,
		End:    start.Add(time.Hour),
		Status: status,
	}
}

func TestClassifyCreate_ActiveMeeting(t *testing.T) {
	m := meeting("Exam Review", models.MeetingActive, time.Now())
	m.Location = "Seminar Hall"

	ev, ok := lifecycle.ClassifyCreate(m)
	if !ok {
		t.Fatal("expected an event for an active meeting")
	}
	if ev.Change != lifecycle.ChangeCreated {
		t.Errorf("change: got %q", ev.Change)
	}
	if ev.Title != "New meeting: Exam Review" {
		t.Errorf("title: got %q", ev.Title)
	}
	if ev.Body != "Location: Seminar Hall" {
		t.Errorf("body: got %q", ev.Body)
	}
	if ev.Data["meetingId"] != m.ID.Hex() {
		t.Errorf("data meetingId: got %q", ev.Data["meetingId"])
	}
}

func TestClassifyCreate_MissingLocationIsTBD(t *testing.T) {
	m := meeting("Exam Review", models.MeetingActive, time.Now())
	ev, _ := lifecycle.ClassifyCreate(m)
	if ev.Body != "Location: TBD" {
		t.Errorf("body: got %q", ev.Body)
	}
}

func TestClassifyCreate_NonActiveIsSilent(t *testing.T) {
	m := meeting("Exam Review", models.MeetingCancelled, time.Now())
	if _, ok := lifecycle.ClassifyCreate(m); ok {
		t.Error("non-active creation must not announce")
	}
}

func TestClassifyUpdate_Cancellation(t *testing.T) {
	now := time.Date(2026, 9, 1, 9, 0, 0, 0, time.UTC)
	start := time.Date(2026, 9, 2, 15, 0, 0, 0, time.UTC)

	before := meeting("Budget Review", models.MeetingActive, start)
	after := before
	after.Status = models.MeetingCancelled

	ev, ok := lifecycle.ClassifyUpdate(before, after, now, time.UTC)
	if !ok {
		t.Fatal("expected a cancellation event")
	}
	if ev.Change != lifecycle.ChangeCancelled {
		t.Errorf("change: got %q", ev.Change)
	}
	want := "The meeting 'Budget Review' which was expected tomorrow is cancelled."
	if ev.Body != want {
		t.Errorf("body:\n got %q\nwant %q", ev.Body, want)
	}
}

func TestClassifyUpdate_Postponed(t *testing.T) {
	now := time.Date(2026, 9, 1, 9, 0, 0, 0, time.UTC)
	oldStart := time.Date(2026, 9, 1, 15, 0, 0, 0, time.UTC)
	newStart := time.Date(2026, 9, 2, 16, 30, 0, 0, time.UTC)

	before := meeting("Budget Review", models.MeetingActive, oldStart)
	after := before
	after.Start = newStart

	ev, ok := lifecycle.ClassifyUpdate(before, after, now, time.UTC)
	if !ok {
		t.Fatal("expected a reschedule event")
	}
	if ev.Change != lifecycle.ChangeRescheduled {
		t.Errorf("change: got %q", ev.Change)
	}
	want := "The meeting 'Budget Review' which was expected today is postponed to tomorrow at 4:30 PM."
	if ev.Body != want {
		t.Errorf("body:\n got %q\nwant %q", ev.Body, want)
	}
}

func TestClassifyUpdate_Preponed(t *testing.T) {
	now := time.Date(2026, 9, 1, 9, 0, 0, 0, time.UTC)
	oldStart := time.Date(2026, 9, 2, 15, 0, 0, 0, time.UTC)
	newStart := time.Date(2026, 9, 1, 11, 0, 0, 0, time.UTC)

	before := meeting("Budget Review", models.MeetingActive, oldStart)
	after := before
	after.Start = newStart

	ev, ok := lifecycle.ClassifyUpdate(before, after, now, time.UTC)
	if !ok {
		t.Fatal("expected a reschedule event")
	}
	want := "The meeting 'Budget Review' which was expected tomorrow is preponed to today at 11:00 AM."
	if ev.Body != want {
		t.Errorf("body:\n got %q\nwant %q", ev.Body, want)
	}
}

func TestClassifyUpdate_UnchangedStartIsSilent(t *testing.T) {
	now := time.Now()
	before := meeting("Budget Review", models.MeetingActive, now.Add(time.Hour))
	after := before
	after.Location = "Room 204"

	if _, ok := lifecycle.ClassifyUpdate(before, after, now, time.UTC); ok {
		t.Error("a location-only edit must not announce")
	}
}

func TestClassifyUpdate_TerminalTransitionsSilent(t *testing.T) {
	now := time.Now()
	before := meeting("Budget Review", models.MeetingCancelled, now)
	after := before
	after.Status = models.MeetingCompleted

	if _, ok := lifecycle.ClassifyUpdate(before, after, now, time.UTC); ok {
		t.Error("transitions out of terminal states must not announce")
	}
}

func TestStartingNowEvent(t *testing.T) {
	m := meeting("Exam Review", models.MeetingActive, time.Now())
	m.Location = "Seminar Hall"

	ev := lifecycle.StartingNowEvent(m)
	if ev.Title != "Meeting Starting Now" {
		t.Errorf("title: got %q", ev.Title)
	}
	want := `The meeting "Exam Review" is starting now at Seminar Hall.`
	if ev.Body != want {
		t.Errorf("body:\n got %q\nwant %q", ev.Body, want)
	}

	m.Location = ""
	ev = lifecycle.StartingNowEvent(m)
	want = `The meeting "Exam Review" is starting now at the designated location.`
	if ev.Body != want {
		t.Errorf("body without location:\n got %q\nwant %q", ev.Body, want)
	}
}
