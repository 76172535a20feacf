// internal/app/features/meetings/availability.go
package meetings

import (
	"context"
	"net/http"
	"time"

	"github.com/bmsit/facultymeet/internal/app/system/schedule"
	"github.com/bmsit/facultymeet/internal/app/system/timeouts"
	"go.uber.org/zap"
)

// availabilityRequest is the JSON body for POST /meetings/availability.
// When Meetings is non-nil the check runs against exactly that snapshot,
// which lets a client ask "against what I can see". When nil, the server
// takes its own snapshot of Active meetings.
type availabilityRequest struct {
	Start        string          `json:"start"`
	End          string          `json:"end"`
	Participants []string        `json:"participants"`
	ExcludeID    string          `json:"exclude_id,omitempty"`
	Meetings     []schedule.Slot `json:"meetings,omitempty"`
}

// HandleAvailability handles POST /meetings/availability.
//
// An unparseable candidate time yields an unavailable verdict rather than a
// 400: the caller asked a question the checker cannot answer safely, and
// "no" is the answer that cannot double-book anyone.
func (h *Handler) HandleAvailability(w http.ResponseWriter, r *http.Request) {
	var req availabilityRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	c := schedule.Candidate{
		Start:        req.Start,
		End:          req.End,
		Participants: cleanParticipants(req.Participants),
		ExcludeID:    req.ExcludeID,
	}
	// Zone-less client times mean campus time. Re-anchor them so they
	// compare correctly against stored RFC 3339 values.
	if t, err := parseTimeInput(req.Start, h.Loc); err == nil {
		c.Start = t.Format(time.RFC3339)
	}
	if t, err := parseTimeInput(req.End, h.Loc); err == nil {
		c.End = t.Format(time.RFC3339)
	}

	slots := req.Meetings
	if slots == nil {
		ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
		defer cancel()

		known, err := h.Meetings.ActiveSnapshot(ctx)
		if err != nil {
			h.Log.Error("availability snapshot failed", zap.Error(err))
			writeError(w, http.StatusInternalServerError, "failed to load meetings")
			return
		}
		slots = make([]schedule.Slot, 0, len(known))
		for _, m := range known {
			slots = append(slots, schedule.SlotFromMeeting(m))
		}
	}

	writeJSON(w, http.StatusOK, schedule.Check(c, slots, h.Loc, h.Log))
}
