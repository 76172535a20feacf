// internal/app/features/meetings/list.go
package meetings

import (
	"context"
	"net/http"
	"time"

	"github.com/bmsit/facultymeet/internal/app/system/timeouts"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// ServeList handles GET /meetings?from=&to=.
//
// With no range, it returns the coming month. The range is inclusive of
// meetings that start inside it; a meeting straddling the "from" edge is
// found by widening on the client if needed.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	now := time.Now().In(h.Loc)
	from := now.AddDate(0, 0, -1)
	to := now.AddDate(0, 1, 0)

	if v := r.URL.Query().Get("from"); v != "" {
		t, err := parseTimeInput(v, h.Loc)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid from time")
			return
		}
		from = t
	}
	if v := r.URL.Query().Get("to"); v != "" {
		t, err := parseTimeInput(v, h.Loc)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid to time")
			return
		}
		to = t
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	list, err := h.Meetings.ListRange(ctx, from, to)
	if err != nil {
		h.Log.Error("list meetings failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to list meetings")
		return
	}

	writeJSON(w, http.StatusOK, listResponse{Meetings: list})
}

// ServeView handles GET /meetings/{id}.
func (h *Handler) ServeView(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid meeting id")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	m, err := h.Meetings.GetByID(ctx, id)
	if err != nil {
		writeError(w, http.StatusNotFound, "meeting not found")
		return
	}

	writeJSON(w, http.StatusOK, m)
}
