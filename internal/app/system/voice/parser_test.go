package voice

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/bmsit/facultymeet/internal/domain/models"
	"go.uber.org/zap"
)

// Tuesday, September 1, 2026, 10:00 UTC.
var testNow = time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)

func newTestParser() *Parser {
	return NewParser(nil, time.UTC, zap.NewNop())
}

func parseAt(t *testing.T, text string) Result {
	t.Helper()
	res, err := newTestParser().Parse(context.Background(), text, testNow)
	if err != nil {
		t.Fatalf("Parse(%q) failed: %v", text, err)
	}
	return res
}

func startOf(r Result) time.Time {
	return time.UnixMilli(r.StartTimeMillis).UTC()
}

func TestParse_EmptyTextErrors(t *testing.T) {
	if _, err := newTestParser().Parse(context.Background(), "   ", testNow); !errors.Is(err, ErrEmptyText) {
		t.Errorf("expected ErrEmptyText, got %v", err)
	}
}

func TestParse_HODsTomorrowAfternoon(t *testing.T) {
	res := parseAt(t, "Schedule a meeting with HODs tomorrow at 3:30 pm in seminar hall")

	if res.Attendees != models.AudienceAllHODs {
		t.Errorf("attendees: got %q", res.Attendees)
	}
	if res.Title != "Meeting with HODs" {
		t.Errorf("title: got %q", res.Title)
	}
	if res.Location != "seminar hall" {
		t.Errorf("location: got %q", res.Location)
	}
	want := time.Date(2026, 9, 2, 15, 30, 0, 0, time.UTC)
	if !startOf(res).Equal(want) {
		t.Errorf("start: got %v, want %v", startOf(res), want)
	}
}

func TestParse_DeansDetected(t *testing.T) {
	res := parseAt(t, "meeting with deans today at 11 am")
	if res.Attendees != models.AudienceAllDeans {
		t.Errorf("attendees: got %q", res.Attendees)
	}
	if res.Title != "Meeting with Deans" {
		t.Errorf("title: got %q", res.Title)
	}
	want := time.Date(2026, 9, 1, 11, 0, 0, 0, time.UTC)
	if !startOf(res).Equal(want) {
		t.Errorf("start: got %v, want %v", startOf(res), want)
	}
}

func TestParse_DefaultsToAllFacultyAtNine(t *testing.T) {
	res := parseAt(t, "schedule a staff meeting tomorrow")
	if res.Attendees != models.AudienceAllFaculty {
		t.Errorf("attendees: got %q", res.Attendees)
	}
	if res.Title != "Faculty Meeting" {
		t.Errorf("title: got %q", res.Title)
	}
	if res.Location != "Not specified" {
		t.Errorf("location: got %q", res.Location)
	}
	want := time.Date(2026, 9, 2, 9, 0, 0, 0, time.UTC)
	if !startOf(res).Equal(want) {
		t.Errorf("start: got %v, want %v", startOf(res), want)
	}
}

func TestParse_DayAfterTomorrow(t *testing.T) {
	res := parseAt(t, "faculty meeting day after tomorrow at 10:00")
	want := time.Date(2026, 9, 3, 10, 0, 0, 0, time.UTC)
	if !startOf(res).Equal(want) {
		t.Errorf("start: got %v, want %v", startOf(res), want)
	}
}

func TestParse_WeekdayMeansNextOccurrence(t *testing.T) {
	// testNow is a Tuesday; "tuesday" must mean next week, never today.
	res := parseAt(t, "meeting on tuesday at 2:00 pm")
	want := time.Date(2026, 9, 8, 14, 0, 0, 0, time.UTC)
	if !startOf(res).Equal(want) {
		t.Errorf("start: got %v, want %v", startOf(res), want)
	}

	res = parseAt(t, "meeting on friday at 2:00 pm")
	want = time.Date(2026, 9, 4, 14, 0, 0, 0, time.UTC)
	if !startOf(res).Equal(want) {
		t.Errorf("start: got %v, want %v", startOf(res), want)
	}
}

func TestParse_NumericDate(t *testing.T) {
	res := parseAt(t, "meeting on 15/10 at 4 pm")
	want := time.Date(2026, 10, 15, 16, 0, 0, 0, time.UTC)
	if !startOf(res).Equal(want) {
		t.Errorf("start: got %v, want %v", startOf(res), want)
	}

	res = parseAt(t, "meeting on 15/10/2027 at 4 pm")
	want = time.Date(2027, 10, 15, 16, 0, 0, 0, time.UTC)
	if !startOf(res).Equal(want) {
		t.Errorf("start with year: got %v, want %v", startOf(res), want)
	}
}

func TestParse_MonthNameDate(t *testing.T) {
	res := parseAt(t, "meeting on 3rd october at 10:15 am")
	want := time.Date(2026, 10, 3, 10, 15, 0, 0, time.UTC)
	if !startOf(res).Equal(want) {
		t.Errorf("start: got %v, want %v", startOf(res), want)
	}

	res = parseAt(t, "meeting on october 3 at 10:15 am")
	if !startOf(res).Equal(want) {
		t.Errorf("month-first start: got %v, want %v", startOf(res), want)
	}
}

func TestParse_LocationBeforeTimeWords(t *testing.T) {
	res := parseAt(t, "schedule meeting at conference room b tomorrow at 2:00 pm")
	if res.Location != "conference room b" {
		t.Errorf("location: got %q", res.Location)
	}
}

func TestParse_BareNumberIsNotAClockTime(t *testing.T) {
	// "15/10" must set the date, not a 15 o'clock start.
	res := parseAt(t, "meeting on 15/10")
	want := time.Date(2026, 10, 15, 9, 0, 0, 0, time.UTC)
	if !startOf(res).Equal(want) {
		t.Errorf("start: got %v, want %v", startOf(res), want)
	}
}

func TestParse_TwelveHourEdges(t *testing.T) {
	res := parseAt(t, "meeting today at 12 pm")
	if got := startOf(res).Hour(); got != 12 {
		t.Errorf("noon: got hour %d", got)
	}
	res = parseAt(t, "meeting today at 12 am")
	if got := startOf(res).Hour(); got != 0 {
		t.Errorf("midnight: got hour %d", got)
	}
}

// fakeNLU lets tests drive the NLU path without a network service.
type fakeNLU struct {
	res Result
	ok  bool
	err error
}

func (f *fakeNLU) Detect(ctx context.Context, text string, now time.Time) (Result, bool, error) {
	return f.res, f.ok, f.err
}

func TestParse_NLUResultWins(t *testing.T) {
	want := Result{Title: "Meeting with HODs", Attendees: models.AudienceAllHODs, Location: "Board Room", StartTimeMillis: testNow.UnixMilli()}
	p := NewParser(&fakeNLU{res: want, ok: true}, time.UTC, zap.NewNop())

	got, err := p.Parse(context.Background(), "whatever the user said", testNow)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if got != want {
		t.Errorf("got %+v, want %+v", got, want)
	}
}

func TestParse_NLUFailureFallsBack(t *testing.T) {
	p := NewParser(&fakeNLU{err: errors.New("deadline exceeded")}, time.UTC, zap.NewNop())

	got, err := p.Parse(context.Background(), "meeting with deans tomorrow at 10:00 am", testNow)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if got.Attendees != models.AudienceAllDeans {
		t.Errorf("fallback attendees: got %q", got.Attendees)
	}
}
