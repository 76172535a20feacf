// Package ratelimit provides sliding-window rate limiting for the portal's
// abuse-prone endpoints: voice parsing (each hit may fan out to the NLU
// service) and session establishment.
package ratelimit

import (
	"net"
	"net/http"
	"strings"
	"sync"
	"time"
)

// Limiter counts requests per key over a sliding window. Safe for
// concurrent use.
type Limiter struct {
	mu       sync.Mutex
	windows  map[string]*window
	limit    int
	duration time.Duration
	cleanup  time.Duration
}

type window struct {
	count     int
	expiresAt time.Time
}

// New creates a limiter allowing limit requests per duration per key.
func New(limit int, duration time.Duration) *Limiter {
	l := &Limiter{
		windows:  make(map[string]*window),
		limit:    limit,
		duration: duration,
		cleanup:  duration * 2,
	}
	go l.cleanupLoop()
	return l
}

// Allow reports whether a request under the given key fits in the current
// window and counts it if so.
func (l *Limiter) Allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	w, exists := l.windows[key]

	if !exists || now.After(w.expiresAt) {
		l.windows[key] = &window{
			count:     1,
			expiresAt: now.Add(l.duration),
		}
		return true
	}

	if w.count >= l.limit {
		return false
	}

	w.count++
	return true
}

// Remaining returns how many requests are left for this key in the current
// window.
func (l *Limiter) Remaining(key string) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	w, exists := l.windows[key]

	if !exists || now.After(w.expiresAt) {
		return l.limit
	}

	remaining := l.limit - w.count
	if remaining < 0 {
		return 0
	}
	return remaining
}

// Reset clears the window for a key.
func (l *Limiter) Reset(key string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.windows, key)
}

// cleanupLoop removes expired windows so idle keys do not accumulate.
func (l *Limiter) cleanupLoop() {
	ticker := time.NewTicker(l.cleanup)
	defer ticker.Stop()

	for range ticker.C {
		l.mu.Lock()
		now := time.Now()
		for key, w := range l.windows {
			if now.After(w.expiresAt) {
				delete(l.windows, key)
			}
		}
		l.mu.Unlock()
	}
}

// ClientIP extracts the client IP from a request, preferring the
// X-Forwarded-For and X-Real-IP headers the fronting proxy sets, then
// falling back to RemoteAddr.
func ClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		parts := strings.Split(xff, ",")
		if len(parts) > 0 {
			ip := strings.TrimSpace(parts[0])
			if ip != "" {
				return ip
			}
		}
	}

	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return strings.TrimSpace(xri)
	}

	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		// RemoteAddr might not have a port
		return r.RemoteAddr
	}
	return ip
}

// LoginLimiter throttles session establishment on two axes: per client IP
// and per claimed identity. The identity axis matters even though the
// upstream auth service verifies the email, since a compromised or
// misconfigured proxy could replay one identity from many addresses.
type LoginLimiter struct {
	ip       *Limiter
	identity *Limiter
}

// NewLoginLimiter creates a login limiter with the production limits:
// 10 attempts per IP per minute, 5 per identity per 5 minutes.
func NewLoginLimiter() *LoginLimiter {
	return NewLoginLimiterWithConfig(10, time.Minute, 5, 5*time.Minute)
}

// NewLoginLimiterWithConfig creates a login limiter with explicit limits.
func NewLoginLimiterWithConfig(ipLimit int, ipDuration time.Duration, identityLimit int, identityDuration time.Duration) *LoginLimiter {
	return &LoginLimiter{
		ip:       New(ipLimit, ipDuration),
		identity: New(identityLimit, identityDuration),
	}
}

// Check reports whether a login attempt fits both limits. The reason is
// suitable for the JSON error body when blocked.
func (ll *LoginLimiter) Check(r *http.Request, email string) (bool, string) {
	if !ll.ip.Allow(ClientIP(r)) {
		return false, "too many login attempts from this address"
	}
	if email != "" {
		if !ll.identity.Allow(identityKey(email)) {
			return false, "too many login attempts for this account"
		}
	}
	return true, ""
}

// ResetEmail clears the identity window after a successful login, so a
// legitimate user who just signed in is not penalized for earlier retries.
func (ll *LoginLimiter) ResetEmail(email string) {
	if email != "" {
		ll.identity.Reset(identityKey(email))
	}
}

func identityKey(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
