// internal/app/features/voice/handler.go
package voice

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/bmsit/facultymeet/internal/app/system/auth"
	"github.com/bmsit/facultymeet/internal/app/system/limits"
	"github.com/bmsit/facultymeet/internal/app/system/ratelimit"
	"github.com/bmsit/facultymeet/internal/app/system/voice"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// Handler exposes the voice-command parser over HTTP.
type Handler struct {
	Parser *voice.Parser
	Log    *zap.Logger
}

// NewHandler constructs a Voice handler around a parser.
func NewHandler(p *voice.Parser, logger *zap.Logger) *Handler {
	return &Handler{Parser: p, Log: logger}
}

// parseRequest is the JSON body for POST /voice/parse.
type parseRequest struct {
	Text string `json:"text"`
}

// HandleParse handles POST /voice/parse. The response is a meeting draft
// the client presents for confirmation; nothing is stored here.
func (h *Handler) HandleParse(w http.ResponseWriter, r *http.Request) {
	var req parseRequest
	if err := json.NewDecoder(http.MaxBytesReader(nil, r.Body, limits.MaxVoiceTextSize)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	res, err := h.Parser.Parse(r.Context(), req.Text, time.Now())
	if err != nil {
		if errors.Is(err, voice.ErrEmptyText) {
			writeError(w, http.StatusBadRequest, "missing text")
			return
		}
		h.Log.Error("voice parse failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to parse command")
		return
	}

	writeJSON(w, http.StatusOK, res)
}

// Routes mounts the voice routes (typically under "/voice"). Parse requests
// are rate limited per IP since each may fan out to the NLU service.
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	lim := ratelimit.New(30, time.Minute)

	r := chi.NewRouter()
	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)
		pr.Use(ratelimit.Middleware(lim))
		pr.Post("/parse", h.HandleParse)
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
