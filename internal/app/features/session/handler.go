// internal/app/features/session/handler.go
package session

import (
	"context"
	"encoding/json"
	"net/http"

	userstore "github.com/bmsit/facultymeet/internal/app/store/users"
	"github.com/bmsit/facultymeet/internal/app/system/auth"
	"github.com/bmsit/facultymeet/internal/app/system/ratelimit"
	"github.com/bmsit/facultymeet/internal/app/system/timeouts"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// identityHeader carries the verified email set by the fronting auth
// service. The portal never sees credentials; requests reaching these
// handlers have already been authenticated upstream.
const identityHeader = "X-Auth-Email"

// Handler turns an upstream-verified identity into a session cookie.
type Handler struct {
	Users    *userstore.Store
	Sessions *auth.SessionManager
	Logins   *ratelimit.LoginLimiter
	Log      *zap.Logger
}

// NewHandler constructs a session handler with the production login limits.
func NewHandler(db *mongo.Database, sm *auth.SessionManager, logger *zap.Logger) *Handler {
	return &Handler{
		Users:    userstore.New(db),
		Sessions: sm,
		Logins:   ratelimit.NewLoginLimiter(),
		Log:      logger,
	}
}

// HandleLogin handles POST /session. The identity header must match a
// faculty record; unknown or disabled accounts get 403. Attempts are
// limited per IP and per identity; a successful login clears the identity
// window.
func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	email := r.Header.Get(identityHeader)
	if email == "" {
		writeError(w, http.StatusUnauthorized, "missing verified identity")
		return
	}
	if ok, reason := h.Logins.Check(r, email); !ok {
		writeError(w, http.StatusTooManyRequests, reason)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	u, err := h.Users.GetByEmail(ctx, email)
	if err != nil {
		writeError(w, http.StatusForbidden, "no faculty record for this identity")
		return
	}
	if u.Status != "active" {
		writeError(w, http.StatusForbidden, "account is disabled")
		return
	}

	su := auth.SessionUser{
		ID:          u.ID.Hex(),
		Name:        u.FullName,
		Email:       u.Email,
		Designation: u.Designation,
	}
	if err := h.Sessions.Establish(w, r, su); err != nil {
		h.Log.Error("establish session failed", zap.Error(err), zap.String("email", email))
		writeError(w, http.StatusInternalServerError, "failed to establish session")
		return
	}
	h.Logins.ResetEmail(email)
	writeJSON(w, http.StatusOK, map[string]string{
		"id":          su.ID,
		"name":        su.Name,
		"email":       su.Email,
		"designation": su.Designation,
	})
}

// HandleLogout handles DELETE /session.
func (h *Handler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	if err := h.Sessions.Clear(w, r); err != nil {
		h.Log.Warn("clear session failed", zap.Error(err))
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "signed out"})
}

// HandleMe handles GET /session. It reports who the cookie says you are.
func (h *Handler) HandleMe(w http.ResponseWriter, r *http.Request) {
	u, ok := auth.CurrentUser(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "not signed in")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"id":          u.ID,
		"name":        u.Name,
		"email":       u.Email,
		"designation": u.Designation,
	})
}

// Routes mounts the session routes (typically under "/session"). Login
// throttling lives in the handler itself, keyed on IP and identity.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Post("/", h.HandleLogin)
	r.Delete("/", h.HandleLogout)
	r.Get("/", h.HandleMe)
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
