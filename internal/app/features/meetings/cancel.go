// internal/app/features/meetings/cancel.go
package meetings

import (
	"context"
	"errors"
	"net/http"
	"time"

	meetingstore "github.com/bmsit/facultymeet/internal/app/store/meetings"
	"github.com/bmsit/facultymeet/internal/app/system/lifecycle"
	"github.com/bmsit/facultymeet/internal/app/system/timeouts"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// HandleCancel processes POST /meetings/{id}/cancel.
//
// Cancellation is terminal. Cancelling a meeting that already reached a
// terminal state returns 409 rather than silently succeeding, so a client
// with a stale list learns the meeting moved on without it.
func (h *Handler) HandleCancel(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid meeting id")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	before, err := h.Meetings.GetByID(ctx, id)
	if err != nil {
		writeError(w, http.StatusNotFound, "meeting not found")
		return
	}

	after, err := h.Meetings.Cancel(ctx, id)
	if err != nil {
		if errors.Is(err, meetingstore.ErrNotActive) {
			writeError(w, http.StatusConflict, "meeting is not active")
			return
		}
		h.Log.Error("cancel meeting failed", zap.Error(err), zap.String("meeting_id", id.Hex()))
		writeError(w, http.StatusInternalServerError, "failed to cancel meeting")
		return
	}

	if ev, ok := lifecycle.ClassifyUpdate(*before, *after, time.Now(), h.Loc); ok {
		h.announce(ctx, *after, ev, false)
	}

	writeJSON(w, http.StatusOK, after)
}
