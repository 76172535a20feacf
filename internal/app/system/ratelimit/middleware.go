// internal/app/system/ratelimit/middleware.go
package ratelimit

import (
	"encoding/json"
	"net/http"
)

// Middleware rejects requests over the per-IP limit with a JSON 429. Used
// on the voice-parse endpoint, where each hit may call the NLU service.
func Middleware(l *Limiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !l.Allow(ClientIP(r)) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusTooManyRequests)
				_ = json.NewEncoder(w).Encode(map[string]string{"error": "too many requests"})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
