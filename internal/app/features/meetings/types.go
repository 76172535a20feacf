// internal/app/features/meetings/types.go
package meetings

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/bmsit/facultymeet/internal/app/system/limits"
	"github.com/bmsit/facultymeet/internal/app/system/schedule"
	"github.com/bmsit/facultymeet/internal/domain/models"
)

// meetingInput is the JSON body for create and edit requests. Start/End use
// RFC 3339 or the zone-less datetime-local forms; zone-less values are
// interpreted in the campus time zone.
type meetingInput struct {
	Title             string   `json:"title"`
	Start             string   `json:"start"`
	End               string   `json:"end,omitempty"`
	DurationMinutes   int      `json:"duration_minutes,omitempty"`
	Location          string   `json:"location,omitempty"`
	Description       string   `json:"description,omitempty"`
	Participants      []string `json:"participants,omitempty"`
	Attendees         string   `json:"attendees"`
	CustomAttendeeIDs []string `json:"custom_attendee_ids,omitempty"`
}

// conflictResponse is returned with 409 when the pre-write availability
// check finds overlaps.
type conflictResponse struct {
	Error     string              `json:"error"`
	Conflicts []schedule.Conflict `json:"conflicts"`
}

// inputLayouts mirrors the formats the availability checker accepts.
var inputLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
}

// parseTimeInput parses a client-supplied time. Zone-less forms are read in
// loc so "15:00" from a campus browser means campus time, not UTC.
func parseTimeInput(v string, loc *time.Location) (time.Time, error) {
	if v == "" {
		return time.Time{}, fmt.Errorf("missing time value")
	}
	var lastErr error
	for _, layout := range inputLayouts {
		t, err := time.ParseInLocation(layout, v, loc)
		if err == nil {
			return t, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(nil, r.Body, limits.MaxJSONBodySize))
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

// listResponse wraps the meeting list so the payload can grow without
// breaking clients.
type listResponse struct {
	Meetings []models.Meeting `json:"meetings"`
}
