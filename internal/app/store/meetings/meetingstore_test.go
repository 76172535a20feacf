package meetingstore_test

import (
	"testing"
	"time"

	meetingstore "github.com/bmsit/facultymeet/internal/app/store/meetings"
	"github.com/bmsit/facultymeet/internal/domain/models"
	"github.com/bmsit/facultymeet/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestCreate_Defaults(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := testutil.TestContext(t)
	store := meetingstore.New(db)

	start := time.Now().Add(time.Hour).Truncate(time.Millisecond)
	m, err := store.Create(ctx, models.Meeting{
		Title:        "Exam Review",
		Start:        start,
		Attendees:    models.AudienceAllFaculty,
		Participants: []string{"101"},
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if m.Status != models.MeetingActive {
		t.Errorf("status: got %q, want Active", m.Status)
	}
	if m.DurationMinutes != 60 {
		t.Errorf("duration: got %d, want 60", m.DurationMinutes)
	}
	if want := start.Add(60 * time.Minute); !m.End.Equal(want) {
		t.Errorf("end: got %v, want %v", m.End, want)
	}
	if m.ID.IsZero() {
		t.Error("expected an assigned id")
	}
}

func TestCreate_Validation(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := testutil.TestContext(t)
	store := meetingstore.New(db)

	start := time.Now().Add(time.Hour)

	_, err := store.Create(ctx, models.Meeting{
		Title:     "Backwards",
		Start:     start,
		End:       start.Add(-time.Hour),
		Attendees: models.AudienceAllFaculty,
	})
	if err != meetingstore.ErrEndBeforeStart {
		t.Errorf("end before start: got %v", err)
	}

	_, err = store.Create(ctx, models.Meeting{
		Title:     "Bad audience",
		Start:     start,
		Attendees: "Everyone",
	})
	if err == nil {
		t.Error("unrecognized audience tag must be rejected")
	}

	_, err = store.Create(ctx, models.Meeting{
		Title:     "Already done",
		Start:     start,
		Attendees: models.AudienceAllFaculty,
		Status:    models.MeetingCompleted,
	})
	if err == nil {
		t.Error("new meetings must start Active")
	}
}

func TestApplyUpdate_RearmsStartNotifier(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := testutil.TestContext(t)
	f := testutil.NewFixtures(t, db)
	store := meetingstore.New(db)

	m := f.CreateMeeting(ctx, "Staff Sync", time.Now().Add(time.Hour), 30, "101")
	if err := store.MarkStartNotified(ctx, m.ID, time.Now()); err != nil {
		t.Fatalf("MarkStartNotified: %v", err)
	}

	newStart := time.Now().Add(3 * time.Hour).Truncate(time.Millisecond)
	after, err := store.ApplyUpdate(ctx, m.ID, meetingstore.Update{
		Title:        "Staff Sync",
		Start:        newStart,
		End:          newStart.Add(30 * time.Minute),
		Location:     "Seminar Hall",
		Participants: []string{"101"},
		Attendees:    models.AudienceAllFaculty,
	})
	if err != nil {
		t.Fatalf("ApplyUpdate failed: %v", err)
	}
	if !after.Start.Equal(newStart) {
		t.Errorf("start: got %v, want %v", after.Start, newStart)
	}
	if after.StartNotifiedAt != nil {
		t.Error("reschedule must re-arm the start notifier")
	}

	// Rescheduled meeting is eligible for start notification again.
	due, err := store.ActiveStartingBetween(ctx, newStart.Add(-time.Minute), newStart.Add(time.Minute))
	if err != nil {
		t.Fatalf("ActiveStartingBetween: %v", err)
	}
	if len(due) != 1 {
		t.Errorf("expected the rescheduled meeting due again, got %d", len(due))
	}
}

func TestApplyUpdate_TerminalStates(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := testutil.TestContext(t)
	f := testutil.NewFixtures(t, db)
	store := meetingstore.New(db)

	m := f.CreateMeetingWithStatus(ctx, "Done Deal", time.Now(), models.MeetingCompleted)
	_, err := store.ApplyUpdate(ctx, m.ID, meetingstore.Update{
		Title:     "Done Deal",
		Start:     time.Now().Add(time.Hour),
		End:       time.Now().Add(2 * time.Hour),
		Attendees: models.AudienceAllFaculty,
	})
	if err != meetingstore.ErrNotActive {
		t.Errorf("edit of completed meeting: got %v, want ErrNotActive", err)
	}

	if _, err := store.Cancel(ctx, m.ID); err != meetingstore.ErrNotActive {
		t.Errorf("cancel of completed meeting: got %v, want ErrNotActive", err)
	}
}

func TestCancel(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := testutil.TestContext(t)
	f := testutil.NewFixtures(t, db)
	store := meetingstore.New(db)

	m := f.CreateMeeting(ctx, "Budget Review", time.Now().Add(time.Hour), 60)
	after, err := store.Cancel(ctx, m.ID)
	if err != nil {
		t.Fatalf("Cancel failed: %v", err)
	}
	if after.Status != models.MeetingCancelled {
		t.Errorf("status: got %q", after.Status)
	}

	// Cancelled meetings leave the active snapshot.
	snap, err := store.ActiveSnapshot(ctx)
	if err != nil {
		t.Fatalf("ActiveSnapshot: %v", err)
	}
	for _, s := range snap {
		if s.ID == m.ID {
			t.Error("cancelled meeting still in active snapshot")
		}
	}
}

func TestActiveDue(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := testutil.TestContext(t)
	f := testutil.NewFixtures(t, db)
	store := meetingstore.New(db)

	now := time.Now()
	started := f.CreateMeeting(ctx, "Started", now.Add(-30*time.Minute), 60)
	f.CreateMeeting(ctx, "Upcoming", now.Add(time.Hour), 60)
	f.CreateMeetingWithStatus(ctx, "Old Cancelled", now.Add(-time.Hour), models.MeetingCancelled)

	due, err := store.ActiveDue(ctx, now)
	if err != nil {
		t.Fatalf("ActiveDue: %v", err)
	}
	if len(due) != 1 || due[0].ID != started.ID {
		t.Errorf("expected only the started active meeting, got %d", len(due))
	}
}

func TestActiveStartingBetween_SkipsNotified(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := testutil.TestContext(t)
	f := testutil.NewFixtures(t, db)
	store := meetingstore.New(db)

	now := time.Now()
	inWindow := f.CreateMeeting(ctx, "Soon", now.Add(3*time.Minute), 60)
	notified := f.CreateMeeting(ctx, "Announced", now.Add(4*time.Minute), 60)
	f.CreateMeeting(ctx, "Later", now.Add(time.Hour), 60)

	if err := store.MarkStartNotified(ctx, notified.ID, now); err != nil {
		t.Fatalf("MarkStartNotified: %v", err)
	}

	due, err := store.ActiveStartingBetween(ctx, now.Add(-5*time.Minute), now.Add(5*time.Minute))
	if err != nil {
		t.Fatalf("ActiveStartingBetween: %v", err)
	}
	if len(due) != 1 || due[0].ID != inWindow.ID {
		t.Errorf("expected only the un-notified meeting in window, got %d", len(due))
	}
}

func TestCompleteMeetings(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := testutil.TestContext(t)
	f := testutil.NewFixtures(t, db)
	store := meetingstore.New(db)

	now := time.Now().Truncate(time.Millisecond)
	m1 := f.CreateMeeting(ctx, "Overdue A", now.Add(-7*time.Hour), 60)
	m2 := f.CreateMeeting(ctx, "Overdue B", now.Add(-8*time.Hour), 60)
	cancelled := f.CreateMeetingWithStatus(ctx, "Gone", now.Add(-9*time.Hour), models.MeetingCancelled)

	n, err := store.CompleteMeetings(ctx, []primitive.ObjectID{m1.ID, m2.ID, cancelled.ID}, now)
	if err != nil {
		t.Fatalf("CompleteMeetings: %v", err)
	}
	if n != 2 {
		t.Errorf("modified: got %d, want 2 (terminal states untouched)", n)
	}

	after, err := store.GetByID(ctx, m1.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if after.Status != models.MeetingCompleted {
		t.Errorf("status: got %q", after.Status)
	}
	if after.EndTime == nil || !after.EndTime.Equal(now) {
		t.Errorf("end_time: got %v, want %v", after.EndTime, now)
	}
}

func TestListRange(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := testutil.TestContext(t)
	f := testutil.NewFixtures(t, db)
	store := meetingstore.New(db)

	base := time.Date(2026, 9, 10, 10, 0, 0, 0, time.UTC)
	f.CreateMeeting(ctx, "Before", base.Add(-48*time.Hour), 60)
	inRange := f.CreateMeeting(ctx, "Inside", base, 60)
	f.CreateMeeting(ctx, "After", base.Add(48*time.Hour), 60)

	got, err := store.ListRange(ctx, base.Add(-time.Hour), base.Add(time.Hour))
	if err != nil {
		t.Fatalf("ListRange: %v", err)
	}
	if len(got) != 1 || got[0].ID != inRange.ID {
		t.Errorf("expected only the in-range meeting, got %d", len(got))
	}
}
