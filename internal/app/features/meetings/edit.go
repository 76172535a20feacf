// internal/app/features/meetings/edit.go
package meetings

import (
	"context"
	"errors"
	"net/http"
	"time"

	meetingstore "github.com/bmsit/facultymeet/internal/app/store/meetings"
	"github.com/bmsit/facultymeet/internal/app/system/htmlsanitize"
	"github.com/bmsit/facultymeet/internal/app/system/lifecycle"
	"github.com/bmsit/facultymeet/internal/app/system/timeouts"
	"github.com/bmsit/facultymeet/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// HandleEdit processes PUT /meetings/{id}.
//
// Only Active meetings can be edited; a meeting that was cancelled or
// completed since the client loaded it comes back 409. When the start moved,
// the update re-arms the start notifier and recipients get a
// postponed/preponed notification.
func (h *Handler) HandleEdit(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid meeting id")
		return
	}

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

	before, err := h.Meetings.GetByID(ctx, id)
	if err != nil {
		writeError(w, http.StatusNotFound, "meeting not found")
		return
	}

	if len(participants) > 0 {
		res, err := h.checkAvailability(ctx, start, end, participants, id.Hex())
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

	upd := meetingstore.Update{
		Title:             title,
		Start:             start,
		End:               end,
		Location:          htmlsanitize.PlainText(in.Location),
		Description:       htmlsanitize.Sanitize(in.Description),
		Participants:      participants,
		Attendees:         in.Attendees,
		CustomAttendeeIDs: in.CustomAttendeeIDs,
	}
	after, err := h.Meetings.ApplyUpdate(ctx, id, upd)
	if err != nil {
		if errors.Is(err, meetingstore.ErrNotActive) {
			writeError(w, http.StatusConflict, "meeting is no longer active")
			return
		}
		h.Log.Error("update meeting failed", zap.Error(err), zap.String("meeting_id", id.Hex()))
		writeError(w, http.StatusInternalServerError, "failed to update meeting")
		return
	}

	if ev, ok := lifecycle.ClassifyUpdate(*before, *after, time.Now(), h.Loc); ok {
		h.announce(ctx, *after, ev, false)
	}

	writeJSON(w, http.StatusOK, after)
}
