// Package voice turns free-text meeting commands ("schedule a meeting with
// HODs tomorrow at 4pm in the seminar hall") into a structured draft. When
// a Dialogflow project is configured it is asked first; the local keyword
// and regex heuristics are the fallback. Best-effort by design: the result
// pre-fills a form the user confirms, nothing here is authoritative.
package voice

import (
	"context"
	"errors"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/bmsit/facultymeet/internal/domain/models"
	"go.uber.org/zap"
)

// ErrEmptyText is returned when there is nothing to parse.
var ErrEmptyText = errors.New("missing text")

// Result is a structured meeting draft.
type Result struct {
	Title           string `json:"title"`
	Attendees       string `json:"attendees"`
	Location        string `json:"location"`
	StartTimeMillis int64  `json:"startTimeMillis"`
}

// NLU is an external intent-detection service. Detect returns ok=false when
// the service is not configured or produced nothing usable.
type NLU interface {
	Detect(ctx context.Context, text string, now time.Time) (Result, bool, error)
}

// Parser combines the optional NLU collaborator with the local heuristics.
type Parser struct {
	nlu NLU // may be nil
	loc *time.Location
	log *zap.Logger
}

func NewParser(nlu NLU, loc *time.Location, logger *zap.Logger) *Parser {
	if loc == nil {
		loc = time.Local
	}
	return &Parser{nlu: nlu, loc: loc, log: logger}
}

// Parse produces a draft from free text. NLU failures are logged and fall
// through to the local heuristics; only empty input is an error.
func (p *Parser) Parse(ctx context.Context, text string, now time.Time) (Result, error) {
	text = strings.ToLower(strings.TrimSpace(text))
	if text == "" {
		return Result{}, ErrEmptyText
	}

	if p.nlu != nil {
		res, ok, err := p.nlu.Detect(ctx, text, now)
		if err != nil {
			p.log.Warn("nlu detect failed, falling back to local parsing", zap.Error(err))
		} else if ok {
			return res, nil
		}
	}

	return p.parseLocal(text, now.In(p.loc)), nil
}

var (
	hodPattern  = regexp.MustCompile(`\bhods?\b|head of department`)
	deanPattern = regexp.MustCompile(`\bdeans?\b`)
	// Locations start with a letter so "at 3:30" is read as a time, not a
	// place. The capture is truncated at the first day/time word.
	locPattern  = regexp.MustCompile(`\b(?:at|in)\s+([a-z][a-z0-9#'\-\.\s]*)`)
	spaceRuns   = regexp.MustCompile(`\s+`)

	// locStopwords end a location capture; what follows is scheduling
	// vocabulary, not part of the place name.
	locStopwords = map[string]bool{
		"today": true, "tomorrow": true, "next": true, "on": true, "at": true,
		"am": true, "pm": true,
	}

	numericDate = regexp.MustCompile(`\b(\d{1,2})[/\-](\d{1,2})(?:[/\-](\d{2,4}))?\b`)
	yearPattern = regexp.MustCompile(`\b(20\d{2}|19\d{2})\b`)

	// Clock times need a colon or an am/pm marker so bare day numbers in
	// dates are not mistaken for hours.
	clockPattern = regexp.MustCompile(`\b(\d{1,2}):([0-5]\d)\s*(am|pm)?\b|\b(\d{1,2})\s*(am|pm)\b`)
)

var weekdays = []string{"sunday", "monday", "tuesday", "wednesday", "thursday", "friday", "saturday"}

var monthNames = map[string]time.Month{
	"january": time.January, "jan": time.January,
	"february": time.February, "feb": time.February,
	"march": time.March, "mar": time.March,
	"april": time.April, "apr": time.April,
	"may":  time.May,
	"june": time.June, "jun": time.June,
	"july": time.July, "jul": time.July,
	"august": time.August, "aug": time.August,
	"september": time.September, "sept": time.September, "sep": time.September,
	"october": time.October, "oct": time.October,
	"november": time.November, "nov": time.November,
	"december": time.December, "dec": time.December,
}

func (p *Parser) parseLocal(text string, now time.Time) Result {
	attendees := models.AudienceAllFaculty
	if hodPattern.MatchString(text) {
		attendees = models.AudienceAllHODs
	} else if deanPattern.MatchString(text) {
		attendees = models.AudienceAllDeans
	}

	location := "Not specified"
	if m := locPattern.FindStringSubmatch(text); m != nil {
		if l := trimLocation(m[1]); l != "" {
			location = l
		}
	}

	day := p.parseDay(text, now)
	hour, minute := parseClock(text)
	start := time.Date(day.Year(), day.Month(), day.Day(), hour, minute, 0, 0, p.loc)

	return Result{
		Title:           titleFor(attendees),
		Attendees:       attendees,
		Location:        location,
		StartTimeMillis: start.UnixMilli(),
	}
}

// parseDay resolves the calendar day mentioned in text: relative phrases,
// weekday names ("next" occurrence, never today), d/m[/y] numerics, and
// month-name forms ("1st october", "october 1"). Defaults to today.
func (p *Parser) parseDay(text string, now time.Time) time.Time {
	switch {
	case strings.Contains(text, "day after tomorrow"):
		return now.AddDate(0, 0, 2)
	case strings.Contains(text, "tomorrow"):
		return now.AddDate(0, 0, 1)
	case strings.Contains(text, "today"):
		return now
	}

	for wd, name := range weekdays {
		if !strings.Contains(text, name) {
			continue
		}
		delta := (wd - int(now.Weekday()) + 7) % 7
		if delta == 0 {
			delta = 7
		}
		return now.AddDate(0, 0, delta)
	}

	if m := numericDate.FindStringSubmatch(text); m != nil {
		d, _ := strconv.Atoi(m[1])
		mo, _ := strconv.Atoi(m[2])
		y := now.Year()
		if m[3] != "" {
			y, _ = strconv.Atoi(m[3])
			if y < 100 {
				y += 2000
			}
		}
		if mo >= 1 && mo <= 12 {
			return time.Date(y, time.Month(mo), d, 0, 0, 0, 0, p.loc)
		}
	}

	for name, month := range monthNames {
		if !strings.Contains(text, name) {
			continue
		}
		dayBefore := regexp.MustCompile(`\b(\d{1,2})(?:st|nd|rd|th)?\s+` + name + `\b`)
		dayAfter := regexp.MustCompile(`\b` + name + `\s+(\d{1,2})(?:st|nd|rd|th)?\b`)
		var day int
		if m := dayBefore.FindStringSubmatch(text); m != nil {
			day, _ = strconv.Atoi(m[1])
		} else if m := dayAfter.FindStringSubmatch(text); m != nil {
			day, _ = strconv.Atoi(m[1])
		}
		if day > 0 {
			y := now.Year()
			if m := yearPattern.FindStringSubmatch(text); m != nil {
				y, _ = strconv.Atoi(m[1])
			}
			return time.Date(y, month, day, 0, 0, 0, 0, p.loc)
		}
	}

	return now
}

// parseClock finds a clock time; defaults to 09:00.
func parseClock(text string) (hour, minute int) {
	hour, minute = 9, 0
	m := clockPattern.FindStringSubmatch(text)
	if m == nil {
		return hour, minute
	}

	var h int
	var ap string
	if m[1] != "" {
		h, _ = strconv.Atoi(m[1])
		minute, _ = strconv.Atoi(m[2])
		ap = m[3]
	} else {
		h, _ = strconv.Atoi(m[4])
		minute = 0
		ap = m[5]
	}
	if ap == "pm" && h >= 1 && h <= 11 {
		h += 12
	}
	if ap == "am" && h == 12 {
		h = 0
	}
	if h < 0 {
		h = 0
	}
	if h > 23 {
		h = 23
	}
	return h, minute
}

// trimLocation cuts a location capture at the first scheduling word or day
// name and collapses whitespace.
func trimLocation(raw string) string {
	words := strings.Fields(spaceRuns.ReplaceAllString(raw, " "))
	out := make([]string, 0, len(words))
	for _, w := range words {
		bare := strings.Trim(w, ".")
		if locStopwords[bare] || isDayWord(bare) || startsWithDigit(bare) {
			break
		}
		out = append(out, w)
	}
	return strings.Join(out, " ")
}

func isDayWord(w string) bool {
	for _, name := range weekdays {
		if w == name {
			return true
		}
	}
	_, ok := monthNames[w]
	return ok
}

func startsWithDigit(w string) bool {
	return len(w) > 0 && w[0] >= '0' && w[0] <= '9'
}

func titleFor(attendees string) string {
	switch attendees {
	case models.AudienceAllHODs:
		return "Meeting with HODs"
	case models.AudienceAllDeans:
		return "Meeting with Deans"
	default:
		return "Faculty Meeting"
	}
}
