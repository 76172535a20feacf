package workers

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	meetingstore "github.com/bmsit/facultymeet/internal/app/store/meetings"
	"github.com/bmsit/facultymeet/internal/app/system/notify"
	"github.com/bmsit/facultymeet/internal/app/system/push"
	"github.com/bmsit/facultymeet/internal/domain/models"
	"github.com/bmsit/facultymeet/internal/testutil"
	"go.uber.org/zap"
)

type countingSender struct {
	multicasts int
	topics     int

	// failBodySubstr makes SendMulticast error for matching payloads.
	failBodySubstr string
	sentBodies     []string
}

func (c *countingSender) SendMulticast(ctx context.Context, tokens []string, msg push.Message) (push.Report, error) {
	if c.failBodySubstr != "" && strings.Contains(msg.Body, c.failBodySubstr) {
		return push.Report{}, errors.New("gateway unavailable")
	}
	c.multicasts++
	c.sentBodies = append(c.sentBodies, msg.Body)
	return push.Report{SuccessCount: len(tokens)}, nil
}

func (c *countingSender) SendToTopic(ctx context.Context, topic string, msg push.Message) error {
	c.topics++
	return nil
}

func TestAutoEndSweep(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := testutil.TestContext(t)
	f := testutil.NewFixtures(t, db)
	store := meetingstore.New(db)

	now := time.Now()
	overdue := f.CreateMeeting(ctx, "Marathon", now.Add(-7*time.Hour), 60)
	recent := f.CreateMeeting(ctx, "In Progress", now.Add(-30*time.Minute), 60)

	// Pin the sweep zone so local time is midday and the daily cutoff rules
	// stay out of the picture regardless of when the test runs.
	loc := time.FixedZone("midday", (12-now.UTC().Hour())*3600)

	w := NewAutoEnd(store, zap.NewNop(), time.Minute, loc)
	w.sweep()

	got, err := store.GetByID(ctx, overdue.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Status != models.MeetingCompleted {
		t.Errorf("overdue meeting: got %q, want Completed", got.Status)
	}
	if got.EndTime == nil {
		t.Error("expected end_time recorded by the sweep")
	}

	got, err = store.GetByID(ctx, recent.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Status != models.MeetingActive {
		t.Errorf("recent meeting: got %q, want Active", got.Status)
	}
}

func TestStartNotifySweep(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := testutil.TestContext(t)
	f := testutil.NewFixtures(t, db)
	store := meetingstore.New(db)

	f.CreateUserWithToken(ctx, "Prof. Rao", "rao@test.edu", "HOD", "token-rao")

	now := time.Now()
	starting := f.CreateMeeting(ctx, "Budget Review", now.Add(2*time.Minute), 60)
	f.CreateMeeting(ctx, "Much Later", now.Add(2*time.Hour), 60)

	sender := &countingSender{}
	svc := notify.NewService(db, sender, zap.NewNop())

	w := NewStartNotify(store, svc, zap.NewNop(), time.Minute, time.UTC)
	w.sweep()

	if sender.multicasts != 1 {
		t.Errorf("multicasts after first sweep: got %d, want 1", sender.multicasts)
	}

	got, err := store.GetByID(ctx, starting.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.StartNotifiedAt == nil {
		t.Error("expected start_notified_at marker")
	}

	// Still inside the window; the marker keeps it from re-firing.
	w.sweep()
	if sender.multicasts != 1 {
		t.Errorf("multicasts after second sweep: got %d, want 1", sender.multicasts)
	}
}

func TestStartNotifySweep_FailureDoesNotAbortSweep(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := testutil.TestContext(t)
	f := testutil.NewFixtures(t, db)
	store := meetingstore.New(db)

	f.CreateUserWithToken(ctx, "Prof. Rao", "rao@test.edu", "HOD", "token-rao")

	now := time.Now()
	doomed := f.CreateMeeting(ctx, "Flaky Send", now.Add(2*time.Minute), 60)
	healthy := f.CreateMeeting(ctx, "Solid Send", now.Add(3*time.Minute), 60)

	sender := &countingSender{failBodySubstr: "Flaky Send"}
	svc := notify.NewService(db, sender, zap.NewNop())

	w := NewStartNotify(store, svc, zap.NewNop(), time.Minute, time.UTC)
	w.sweep()

	// The failed meeting does not stop the rest of the pass.
	if sender.multicasts != 1 {
		t.Fatalf("multicasts: got %d, want 1", sender.multicasts)
	}
	if !strings.Contains(sender.sentBodies[0], "Solid Send") {
		t.Errorf("sent body: got %q", sender.sentBodies[0])
	}

	got, err := store.GetByID(ctx, healthy.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.StartNotifiedAt == nil {
		t.Error("dispatched meeting should carry the notified marker")
	}

	// The failed one stays unmarked so the next pass retries it.
	got, err = store.GetByID(ctx, doomed.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.StartNotifiedAt != nil {
		t.Error("failed dispatch must leave the meeting unmarked")
	}
}
