// internal/app/features/notificationsfeed/handler.go
package notificationsfeed

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	notificationstore "github.com/bmsit/facultymeet/internal/app/store/notifications"
	"github.com/bmsit/facultymeet/internal/app/system/auth"
	"github.com/bmsit/facultymeet/internal/app/system/notify"
	"github.com/bmsit/facultymeet/internal/app/system/timeouts"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler serves the in-app notification feed and the manual dashboard
// refresh broadcast.
type Handler struct {
	Notes  *notificationstore.Store
	Notify *notify.Service
	Log    *zap.Logger
}

// NewHandler constructs a notifications feed handler.
func NewHandler(db *mongo.Database, n *notify.Service, logger *zap.Logger) *Handler {
	return &Handler{
		Notes:  notificationstore.New(db),
		Notify: n,
		Log:    logger,
	}
}

// ServeFeed handles GET /notifications?limit=. It returns the caller's own
// feed, newest first.
func (h *Handler) ServeFeed(w http.ResponseWriter, r *http.Request) {
	u, ok := auth.CurrentUser(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "sign in required")
		return
	}

	var limit int64
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = n
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	list, err := h.Notes.ListForRecipient(ctx, u.ID, limit)
	if err != nil {
		h.Log.Error("list notifications failed", zap.Error(err), zap.String("user_id", u.ID))
		writeError(w, http.StatusInternalServerError, "failed to list notifications")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"notifications": list})
}

// HandleRefresh handles POST /notifications/refresh: an admin-triggered
// broadcast asking every subscribed dashboard to reload.
func (h *Handler) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	if err := h.Notify.BroadcastRefresh(ctx, "dashboard refresh requested"); err != nil {
		h.Log.Error("refresh broadcast failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to broadcast refresh")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Routes mounts the notification routes (typically under "/notifications").
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)
		pr.Get("/", h.ServeFeed)
	})

	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)
		pr.Use(sm.RequireDesignation("ADMIN"))
		pr.Post("/refresh", h.HandleRefresh)
	})

	return r
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
