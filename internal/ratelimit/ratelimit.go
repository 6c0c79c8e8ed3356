// Package ratelimit limits how many requests a client may make in a fixed
// window.
package ratelimit

import (
	"context"
	"encoding/json"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"
)

// Message is returned to clients over their budget.
const Message = "Too many requests, please try again later."

// Limiter counts hits per key.
type Limiter interface {
	// Allow records a hit for key and reports whether it is within budget.
	Allow(ctx context.Context, key string) (bool, error)
}

// Middleware rejects requests from clients over their budget with 429.
// Limiter errors are logged and the request is let through.
func Middleware(l Limiter, limit int) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ok, err := l.Allow(r.Context(), ClientKey(r))
			if err != nil {
				slog.Error("rate limiter failed", "error", err)
				ok = true
			}
			if !ok {
				w.Header().Set("Content-Type", "application/json")
				w.Header().Set("X-RateLimit-Limit", strconv.Itoa(limit))
				w.WriteHeader(http.StatusTooManyRequests)
				json.NewEncoder(w).Encode(map[string]string{"error": Message})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// ClientKey identifies the client by the IP of RemoteAddr. Proxy headers are
// only honoured if a real-IP middleware has rewritten RemoteAddr upstream.
func ClientKey(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// windowStart truncates now to the start of its window.
func windowStart(now time.Time, window time.Duration) time.Time {
	return now.Truncate(window)
}
