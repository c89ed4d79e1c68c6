package server

import (
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"
)

// DefaultRequestsPerMinute is the per-client request budget.
const DefaultRequestsPerMinute = 60

// RateLimiter is a sliding-window limiter keyed by client address. Requests
// inside the window count against the budget; the window slides, so a burst
// does not reset at minute boundaries.
type RateLimiter struct {
	mu        sync.Mutex
	window    time.Duration
	limit     int
	clients   map[string][]time.Time
	lastSweep time.Time

	// now is swapped out by tests to control the window.
	now func() time.Time
}

// NewRateLimiter creates a limiter allowing limit requests per minute per
// client. Non-positive limits fall back to the default.
func NewRateLimiter(limit int) *RateLimiter {
	if limit <= 0 {
		limit = DefaultRequestsPerMinute
	}
	return &RateLimiter{
		window:  time.Minute,
		limit:   limit,
		clients: make(map[string][]time.Time),
		now:     time.Now,
	}
}

// Allow reports whether the client may proceed and how many requests remain
// in its window.
func (rl *RateLimiter) Allow(client string) (bool, int) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	cutoff := now.Add(-rl.window)

	// Drop clients whose whole window has expired, at most once per window,
	// so the map stays bounded by the number of recently active clients.
	if now.Sub(rl.lastSweep) >= rl.window {
		for c, ts := range rl.clients {
			if len(ts) == 0 || !ts[len(ts)-1].After(cutoff) {
				delete(rl.clients, c)
			}
		}
		rl.lastSweep = now
	}

	recent := rl.clients[client][:0]
	for _, t := range rl.clients[client] {
		if t.After(cutoff) {
			recent = append(recent, t)
		}
	}

	if len(recent) >= rl.limit {
		rl.clients[client] = recent
		return false, 0
	}

	rl.clients[client] = append(recent, now)
	return true, rl.limit - len(recent) - 1
}

// Middleware enforces the limit and sets the X-RateLimit headers.
func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		client, _, err := net.SplitHostPort(r.RemoteAddr)
		if err != nil {
			client = r.RemoteAddr
		}

		allowed, remaining := rl.Allow(client)
		w.Header().Set("X-RateLimit-Limit", strconv.Itoa(rl.limit))
		w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(remaining))

		if !allowed {
			writeJSON(w, http.StatusTooManyRequests, errorResponse{
				Error: "Too many requests, please try again later.",
			})
			return
		}
		next.ServeHTTP(w, r)
	})
}
