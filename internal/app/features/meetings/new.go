// internal/app/features/meetings/new.go
package meetings

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	meetingstore "github.com/bmsit/facultymeet/internal/app/store/meetings"
	"github.com/bmsit/facultymeet/internal/app/system/auth"
	"github.com/bmsit/facultymeet/internal/app/system/htmlsanitize"
	"github.com/bmsit/facultymeet/internal/app/system/lifecycle"
	"github.com/bmsit/facultymeet/internal/app/system/timeouts"
	"github.com/bmsit/facultymeet/internal/domain/models"
	"go.uber.org/zap"
)

// HandleCreate processes POST /meetings.
//
// The request is rejected with 409 and the conflict list when any listed
// participant already has an overlapping Active meeting. The overlap check
// runs against a snapshot taken here, not the client's, so a stale client
// view cannot slip a double-booking through.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var in meetingInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	title := htmlsanitize.PlainText(in.Title)
	if title == "" {
		writeError(w, http.StatusBadRequest, "title is required")
		return
	}
	if !models.IsValidAudienceTag(in.Attendees) {
		writeError(w, http.StatusBadRequest, "unrecognized attendees value")
		return
	}

	start, err := parseTimeInput(in.Start, h.Loc)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid start time")
		return
	}

	duration := in.DurationMinutes
	if duration <= 0 {
		duration = 60
	}
	var end time.Time
	if in.End != "" {
		end, err = parseTimeInput(in.End, h.Loc)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid end time")
			return
		}
	} else {
		end = start.Add(time.Duration(duration) * time.Minute)
	}
	if !end.After(start) {
		writeError(w, http.StatusBadRequest, "end must be after start")
		return
	}

	participants := cleanParticipants(in.Participants)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	if len(participants) > 0 {
		res, err := h.checkAvailability(ctx, start, end, participants, "")
		if err != nil {
			h.Log.Error("availability check failed", zap.Error(err))
			writeError(w, http.StatusInternalServerError, "availability check failed")
			return
		}
		if !res.Available {
			writeJSON(w, http.StatusConflict, conflictResponse{
				Error:     "one or more participants are unavailable",
				Conflicts: res.Conflicts,
			})
			return
		}
	}

	m := models.Meeting{
		Title:             title,
		Start:             start,
		End:               end,
		DurationMinutes:   duration,
		Location:          htmlsanitize.PlainText(in.Location),
		Description:       htmlsanitize.Sanitize(in.Description),
		Participants:      participants,
		Attendees:         in.Attendees,
		CustomAttendeeIDs: in.CustomAttendeeIDs,
	}
	if u, ok := auth.CurrentUser(r); ok {
		m.ScheduledBy = u.ID
	}

	created, err := h.Meetings.Create(ctx, m)
	if err != nil {
		if errors.Is(err, meetingstore.ErrEndBeforeStart) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.Log.Error("create meeting failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to create meeting")
		return
	}

	h.announce(ctx, created, lifecycle.Event{}, true)

	writeJSON(w, http.StatusCreated, created)
}

// announce pushes the notification for a lifecycle change and nudges
// dashboards to refresh. Delivery failures never fail the write that
// triggered them; the meeting is already saved.
func (h *Handler) announce(ctx context.Context, m models.Meeting, ev lifecycle.Event, isCreate bool) {
	if h.Notify == nil {
		return
	}
	if isCreate {
		var ok bool
		ev, ok = lifecycle.ClassifyCreate(m)
		if !ok {
			return
		}
	}
	if err := h.Notify.Dispatch(ctx, m, ev); err != nil {
		h.Log.Warn("notification dispatch failed",
			zap.String("meeting_id", m.ID.Hex()),
			zap.String("change", string(ev.Change)),
			zap.Error(err))
	}
	if err := h.Notify.BroadcastRefresh(ctx, "meeting schedule changed"); err != nil {
		h.Log.Warn("refresh broadcast failed", zap.Error(err))
	}
}

func cleanParticipants(in []string) []string {
	out := make([]string, 0, len(in))
	for _, p := range in {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
