// Package schedule decides whether a candidate meeting time conflicts with
// existing meetings for any of its participants.
//
// The check is a pure function over a caller-supplied snapshot of known
// meetings. The snapshot may be stale relative to the store; callers that
// are about to commit a write should refresh the snapshot and re-check
// immediately before the authoritative write.
package schedule

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/bmsit/facultymeet/internal/domain/models"
	"go.uber.org/zap"
)

// timeLayouts are the accepted candidate and stored time formats. RFC 3339
// first; the zone-less form is what the browser's datetime-local inputs
// produce.
var timeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
}

// Slot is one known meeting in the snapshot the checker scans.
type Slot struct {
	ID           string   `json:"id"`
	Title        string   `json:"title"`
	Start        string   `json:"start"`
	End          string   `json:"end"`
	Participants []string `json:"participants"`
}

// Candidate is the proposed time range being checked.
type Candidate struct {
	Start        string   `json:"start"`
	End          string   `json:"end"`
	Participants []string `json:"participants"`

	// ExcludeID removes one meeting (typically the one being edited) from
	// conflict consideration. String and numeric id forms equal in value are
	// treated as the same id.
	ExcludeID string `json:"exclude_id,omitempty"`
}

// Conflict records why a participant is unavailable. Either Meeting is set
// (a real overlap) or Reason is set (the candidate itself failed to parse).
type Conflict struct {
	Participant string `json:"participant,omitempty"`
	Meeting     *Slot  `json:"meeting,omitempty"`
	Reason      string `json:"reason,omitempty"`
}

// Result is the availability verdict.
type Result struct {
	Available bool       `json:"available"`
	Conflicts []Conflict `json:"conflicts"`
}

// SlotFromMeeting converts a stored meeting into a snapshot slot.
func SlotFromMeeting(m models.Meeting) Slot {
	return Slot{
		ID:           m.ID.Hex(),
		Title:        m.Title,
		Start:        m.Start.Format(time.RFC3339),
		End:          m.End.Format(time.RFC3339),
		Participants: m.Participants,
	}
}

// Check reports whether the candidate range is free for every participant.
//
// Rules:
//   - Missing or unparseable candidate times fail closed: the result is
//     unavailable with a Reason conflict, never an error or panic.
//   - An empty participant list is trivially available.
//   - Two half-open ranges [s1,e1) and [s2,e2) conflict iff s1 < e2 && s2 < e1.
//     Adjacent ranges do not conflict.
//   - Snapshot slots with unparseable times are logged and skipped, not
//     treated as conflicts.
//   - The first conflicting slot found per participant is recorded; the scan
//     does not enumerate every overlap.
//   - Zone-less candidate and slot times are interpreted in loc; a nil loc
//     falls back to the server zone.
func Check(c Candidate, known []Slot, loc *time.Location, log *zap.Logger) Result {
	if log == nil {
		log = zap.NewNop()
	}
	if loc == nil {
		loc = time.Local
	}

	start, err := parseTime(c.Start, loc)
	if err != nil {
		return failClosed(fmt.Sprintf("invalid start time: %v", err))
	}
	end, err := parseTime(c.End, loc)
	if err != nil {
		return failClosed(fmt.Sprintf("invalid end time: %v", err))
	}

	relevant := known
	if c.ExcludeID != "" {
		excluded := normalizeID(c.ExcludeID)
		relevant = make([]Slot, 0, len(known))
		for _, s := range known {
			if normalizeID(s.ID) == excluded {
				continue
			}
			relevant = append(relevant, s)
		}
	}

	var conflicts []Conflict
	for _, participant := range c.Participants {
		for i := range relevant {
			s := &relevant[i]
			if !containsParticipant(s.Participants, participant) {
				continue
			}
			slotStart, err := parseTime(s.Start, loc)
			if err != nil {
				log.Warn("skipping meeting with unparseable start",
					zap.String("meeting_id", s.ID), zap.String("start", s.Start))
				continue
			}
			slotEnd, err := parseTime(s.End, loc)
			if err != nil {
				log.Warn("skipping meeting with unparseable end",
					zap.String("meeting_id", s.ID), zap.String("end", s.End))
				continue
			}
			if overlaps(start, end, slotStart, slotEnd) {
				conflicts = append(conflicts, Conflict{Participant: participant, Meeting: s})
				break
			}
		}
	}

	return Result{Available: len(conflicts) == 0, Conflicts: conflicts}
}

// overlaps implements the half-open interval rule.
func overlaps(s1, e1, s2, e2 time.Time) bool {
	return s1.Before(e2) && s2.Before(e1)
}

func failClosed(reason string) Result {
	return Result{Available: false, Conflicts: []Conflict{{Reason: reason}}}
}

func containsParticipant(list []string, p string) bool {
	for _, v := range list {
		if v == p {
			return true
		}
	}
	return false
}

// normalizeID maps string and numeric id forms equal in value onto one
// comparable form, so excluding "007" also excludes "7".
func normalizeID(id string) string {
	id = strings.TrimSpace(id)
	if n, err := strconv.ParseInt(id, 10, 64); err == nil {
		return strconv.FormatInt(n, 10)
	}
	return id
}

// parseTime reads one candidate or slot time. Zone-less layouts are
// interpreted in loc, so datetime-local values from a campus browser mean
// campus time no matter where the server runs.
func parseTime(v string, loc *time.Location) (time.Time, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return time.Time{}, fmt.Errorf("missing time value")
	}
	var lastErr error
	for _, layout := range timeLayouts {
		t, err := time.ParseInLocation(layout, v, loc)
		if err == nil {
			return t, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}
