package meetings_test

import (
	"encoding/json"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/bmsit/facultymeet/internal/app/features/meetings"
	"github.com/bmsit/facultymeet/internal/app/system/auth"
	"github.com/bmsit/facultymeet/internal/app/system/schedule"
	"github.com/bmsit/facultymeet/internal/domain/models"
	"github.com/bmsit/facultymeet/internal/testutil"
	"go.uber.org/zap"
)

// bareHandler builds a handler without a database. Only routes that never
// reach the store (validation failures, client-snapshot availability) may
// use it.
func bareHandler(t *testing.T) *meetings.Handler {
	t.Helper()
	return &meetings.Handler{Loc: time.UTC, Log: zap.NewNop()}
}

func newSessionManager(t *testing.T) *auth.SessionManager {
	t.Helper()
	sm, err := auth.NewSessionManager("0123456789abcdef0123456789abcdef", "test-session", "", false, zap.NewNop())
	if err != nil {
		t.Fatalf("NewSessionManager: %v", err)
	}
	return sm
}

func TestAvailability_ClientSnapshotConflict(t *testing.T) {
	h := bareHandler(t)

	body := `{
		"start": "2026-09-10T10:00:00Z",
		"end": "2026-09-10T11:00:00Z",
		"participants": ["101"],
		"meetings": [{
			"id": "m1", "title": "Staff Sync",
			"start": "2026-09-10T10:30:00Z", "end": "2026-09-10T11:30:00Z",
			"participants": ["101"]
		}]
	}`
	req := testutil.NewJSONRequest(http.MethodPost, "/availability", body)
	rec := testutil.NewRecorder()
	h.HandleAvailability(rec.ResponseRecorder, req)

	rec.AssertStatus(t, http.StatusOK)
	rec.AssertJSONContentType(t)

	var res schedule.Result
	if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if res.Available {
		t.Error("overlapping participant must be unavailable")
	}
	if len(res.Conflicts) != 1 || res.Conflicts[0].Participant != "101" {
		t.Errorf("conflicts: %+v", res.Conflicts)
	}
}

func TestAvailability_AdjacentIsFree(t *testing.T) {
	h := bareHandler(t)

	body := `{
		"start": "2026-09-10T11:00:00Z",
		"end": "2026-09-10T12:00:00Z",
		"participants": ["101"],
		"meetings": [{
			"id": "m1", "title": "Staff Sync",
			"start": "2026-09-10T10:00:00Z", "end": "2026-09-10T11:00:00Z",
			"participants": ["101"]
		}]
	}`
	req := testutil.NewJSONRequest(http.MethodPost, "/availability", body)
	rec := testutil.NewRecorder()
	h.HandleAvailability(rec.ResponseRecorder, req)

	rec.AssertStatus(t, http.StatusOK)
	var res schedule.Result
	if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !res.Available {
		t.Errorf("back-to-back meetings must not conflict: %+v", res.Conflicts)
	}
}

func TestAvailability_BadTimeFailsClosed(t *testing.T) {
	h := bareHandler(t)

	body := `{"start": "whenever", "end": "later", "participants": ["101"], "meetings": []}`
	req := testutil.NewJSONRequest(http.MethodPost, "/availability", body)
	rec := testutil.NewRecorder()
	h.HandleAvailability(rec.ResponseRecorder, req)

	// Not a 400: an unanswerable question gets the safe answer.
	rec.AssertStatus(t, http.StatusOK)
	var res schedule.Result
	if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if res.Available {
		t.Error("unparseable candidate times must fail closed")
	}
}

func TestAvailability_ZoneLessTimesUseCampusZone(t *testing.T) {
	loc, err := time.LoadLocation("Asia/Kolkata")
	if err != nil {
		t.Fatalf("LoadLocation: %v", err)
	}
	h := &meetings.Handler{Loc: loc, Log: zap.NewNop()}

	// 10:00 IST is 04:30 UTC, overlapping the stored 04:00-05:00Z slot.
	body := `{
		"start": "2026-09-10T10:00",
		"end": "2026-09-10T11:00",
		"participants": ["101"],
		"meetings": [{
			"id": "m1", "title": "Early Call",
			"start": "2026-09-10T04:00:00Z", "end": "2026-09-10T05:00:00Z",
			"participants": ["101"]
		}]
	}`
	req := testutil.NewJSONRequest(http.MethodPost, "/availability", body)
	rec := testutil.NewRecorder()
	h.HandleAvailability(rec.ResponseRecorder, req)

	rec.AssertStatus(t, http.StatusOK)
	var res schedule.Result
	if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if res.Available {
		t.Error("zone-less campus times must compare against UTC slots correctly")
	}
}

func TestCreate_ValidationFailures(t *testing.T) {
	h := bareHandler(t)

	cases := []struct {
		name string
		body string
		want string
	}{
		{"invalid json", `{`, "invalid JSON body"},
		{"missing title", `{"title": "", "start": "2026-09-10T10:00:00Z", "attendees": "All Faculty"}`, "title is required"},
		{"markup-only title", `{"title": "<script>x</script>", "start": "2026-09-10T10:00:00Z", "attendees": "All Faculty"}`, "title is required"},
		{"bad audience", `{"title": "Sync", "start": "2026-09-10T10:00:00Z", "attendees": "Everybody"}`, "unrecognized attendees value"},
		{"bad start", `{"title": "Sync", "start": "someday", "attendees": "All Faculty"}`, "invalid start time"},
		{"end before start", `{"title": "Sync", "start": "2026-09-10T10:00:00Z", "end": "2026-09-10T09:00:00Z", "attendees": "All Faculty"}`, "end must be after start"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := testutil.NewJSONRequest(http.MethodPost, "/", tc.body)
			rec := testutil.NewRecorder()
			h.HandleCreate(rec.ResponseRecorder, req)

			rec.AssertStatus(t, http.StatusBadRequest)
			rec.AssertContains(t, tc.want)
		})
	}
}

func TestRoutes_AccessControl(t *testing.T) {
	h := bareHandler(t)
	sm := newSessionManager(t)
	router := meetings.Routes(h, sm)

	// No session at all.
	req := testutil.NewRequest(http.MethodGet, "/")
	rec := testutil.NewRecorder()
	router.ServeHTTP(rec.ResponseRecorder, req)
	rec.AssertStatus(t, http.StatusUnauthorized)

	// Signed in, but plain faculty cannot schedule.
	req = testutil.NewJSONRequest(http.MethodPost, "/", `{}`)
	req = testutil.WithUser(req, testutil.FacultyUser())
	rec = testutil.NewRecorder()
	router.ServeHTTP(rec.ResponseRecorder, req)
	rec.AssertStatus(t, http.StatusForbidden)

	// HODs can; this one stops at validation.
	req = testutil.NewJSONRequest(http.MethodPost, "/", `{"title": ""}`)
	req = testutil.WithUser(req, testutil.HODUser())
	rec = testutil.NewRecorder()
	router.ServeHTTP(rec.ResponseRecorder, req)
	rec.AssertStatus(t, http.StatusBadRequest)
}

func TestCreate_PersistsAndReturnsMeeting(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h := meetings.NewHandler(db, nil, time.UTC, zap.NewNop())

	body := `{
		"title": "Exam Review",
		"start": "2026-09-10T10:00:00Z",
		"duration_minutes": 45,
		"location": "Seminar Hall",
		"participants": ["101", " 102 ", ""],
		"attendees": "All HODs"
	}`
	req := testutil.NewJSONRequest(http.MethodPost, "/", body)
	req = testutil.WithUser(req, testutil.HODUser())
	rec := testutil.NewRecorder()
	h.HandleCreate(rec.ResponseRecorder, req)

	rec.AssertStatus(t, http.StatusCreated)
	var created models.Meeting
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if created.Status != models.MeetingActive {
		t.Errorf("status: got %q", created.Status)
	}
	if len(created.Participants) != 2 {
		t.Errorf("participants: got %v, blanks should be dropped", created.Participants)
	}
	if created.ScheduledBy == "" {
		t.Error("expected scheduled_by from the session user")
	}
	if want := created.Start.Add(45 * time.Minute); !created.End.Equal(want) {
		t.Errorf("end: got %v, want %v", created.End, want)
	}
}

func TestCreate_SanitizesDescription(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h := meetings.NewHandler(db, nil, time.UTC, zap.NewNop())

	body := `{
		"title": "Budget <script>alert(1)</script> Review",
		"start": "2026-09-10T10:00:00Z",
		"attendees": "All Faculty",
		"description": "<strong>Agenda</strong><script>alert(1)</script><ul><li>Allocations</li></ul>"
	}`
	req := testutil.NewJSONRequest(http.MethodPost, "/", body)
	req = testutil.WithUser(req, testutil.HODUser())
	rec := testutil.NewRecorder()
	h.HandleCreate(rec.ResponseRecorder, req)

	rec.AssertStatus(t, http.StatusCreated)
	var created models.Meeting
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if created.Title != "Budget  Review" {
		t.Errorf("title: got %q, markup should be stripped", created.Title)
	}
	if !strings.Contains(created.Description, "<strong>Agenda</strong>") {
		t.Errorf("description: got %q, safe formatting should survive", created.Description)
	}
	if !strings.Contains(created.Description, "<li>Allocations</li>") {
		t.Errorf("description: got %q, lists should survive", created.Description)
	}
	if strings.Contains(created.Description, "script") {
		t.Errorf("description: got %q, script must be removed", created.Description)
	}
}

func TestCreate_ConflictAgainstStoredMeetings(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := testutil.TestContext(t)
	f := testutil.NewFixtures(t, db)
	h := meetings.NewHandler(db, nil, time.UTC, zap.NewNop())

	start := time.Date(2026, 9, 10, 10, 0, 0, 0, time.UTC)
	f.CreateMeeting(ctx, "Staff Sync", start, 60, "101")

	body := `{
		"title": "Clashing",
		"start": "2026-09-10T10:30:00Z",
		"duration_minutes": 60,
		"participants": ["101"],
		"attendees": "All Faculty"
	}`
	req := testutil.NewJSONRequest(http.MethodPost, "/", body)
	req = testutil.WithUser(req, testutil.HODUser())
	rec := testutil.NewRecorder()
	h.HandleCreate(rec.ResponseRecorder, req)

	rec.AssertStatus(t, http.StatusConflict)
	rec.AssertContains(t, "unavailable")
	rec.AssertContains(t, "Staff Sync")
}

func TestServeView_BadID(t *testing.T) {
	h := bareHandler(t)

	req := testutil.NewRequest(http.MethodGet, "/not-hex")
	req = testutil.WithChiURLParam(req, "id", "not-hex")
	rec := testutil.NewRecorder()
	h.ServeView(rec.ResponseRecorder, req)

	rec.AssertStatus(t, http.StatusBadRequest)
	rec.AssertContains(t, "invalid meeting id")
}

func TestHandleCancel_NotActiveConflict(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := testutil.TestContext(t)
	f := testutil.NewFixtures(t, db)
	h := meetings.NewHandler(db, nil, time.UTC, zap.NewNop())

	m := f.CreateMeetingWithStatus(ctx, "Done Deal", time.Now(), models.MeetingCompleted)

	req := testutil.NewRequest(http.MethodPost, "/"+m.ID.Hex()+"/cancel")
	req = testutil.WithChiURLParam(req, "id", m.ID.Hex())
	req = testutil.WithUser(req, testutil.AdminUser())
	rec := testutil.NewRecorder()
	h.HandleCancel(rec.ResponseRecorder, req)

	rec.AssertStatus(t, http.StatusConflict)
}
