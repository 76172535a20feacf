// internal/app/features/faculty/token.go
package faculty

import (
	"context"
	"net/http"

	"github.com/bmsit/facultymeet/internal/app/system/auth"
	"github.com/bmsit/facultymeet/internal/app/system/timeouts"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// tokenInput is the JSON body for device-token registration. An empty token
// deregisters the caller's device.
type tokenInput struct {
	Token string `json:"token"`
}

// HandleRegisterToken handles POST /faculty/token.
//
// The token always attaches to the signed-in caller; there is no way to set
// another user's delivery address.
func (h *Handler) HandleRegisterToken(w http.ResponseWriter, r *http.Request) {
	u, ok := auth.CurrentUser(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "sign in required")
		return
	}
	id, err := primitive.ObjectIDFromHex(u.ID)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid session user id")
		return
	}

	var in tokenInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	if err := h.Users.SetFCMToken(ctx, id, in.Token); err != nil {
		h.Log.Error("register token failed", zap.Error(err), zap.String("user_id", u.ID))
		writeError(w, http.StatusInternalServerError, "failed to register token")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
