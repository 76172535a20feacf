// internal/app/features/faculty/handler.go
package faculty

import (
	"encoding/json"
	"net/http"

	userstore "github.com/bmsit/facultymeet/internal/app/store/users"
	"github.com/bmsit/facultymeet/internal/app/system/limits"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler is the feature-level entry point for faculty records.
type Handler struct {
	DB    *mongo.Database
	Users *userstore.Store
	Log   *zap.Logger
}

// NewHandler constructs a Faculty handler bound to a DB and logger.
func NewHandler(db *mongo.Database, logger *zap.Logger) *Handler {
	return &Handler{
		DB:    db,
		Users: userstore.New(db),
		Log:   logger,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(nil, r.Body, limits.MaxJSONBodySize))
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}
