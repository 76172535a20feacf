// internal/app/features/meetings/helpers.go
package meetings

import (
	"context"
	"time"

	"github.com/bmsit/facultymeet/internal/app/system/schedule"
)

// checkAvailability runs the conflict check against a fresh snapshot of
// Active meetings immediately before a write. The client usually checked
// already, but its snapshot may be stale by the time it submits.
func (h *Handler) checkAvailability(ctx context.Context, start, end time.Time, participants []string, excludeID string) (schedule.Result, error) {
	known, err := h.Meetings.ActiveSnapshot(ctx)
	if err != nil {
		return schedule.Result{}, err
	}

	slots := make([]schedule.Slot, 0, len(known))
	for _, m := range known {
		slots = append(slots, schedule.SlotFromMeeting(m))
	}

	c := schedule.Candidate{
		Start:        start.Format(time.RFC3339),
		End:          end.Format(time.RFC3339),
		Participants: participants,
		ExcludeID:    excludeID,
	}
	return schedule.Check(c, slots, h.Loc, h.Log), nil
}
