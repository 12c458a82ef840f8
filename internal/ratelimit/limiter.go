// Package ratelimit provides token-bucket limiters for chat turns and
// per-role turn budgets.
package ratelimit

import (
	"sync"

	"golang.org/x/time/rate"
)

// TurnLimiter rate-limits chat turns per session using token buckets. A
// runaway client (or a scripted one) cannot drown the chat backend.
type TurnLimiter struct {
	mu       sync.Mutex
	perMin   float64
	burst    int
	limiters map[string]*rate.Limiter
}

// NewTurnLimiter creates a limiter allowing perMin turns per minute with
// the given burst per session.
func NewTurnLimiter(perMin float64, burst int) *TurnLimiter {
	return &TurnLimiter{
		perMin:   perMin,
		burst:    burst,
		limiters: make(map[string]*rate.Limiter),
	}
}

// Allow reports whether the session may send a turn now.
func (tl *TurnLimiter) Allow(sessionID string) bool {
	tl.mu.Lock()
	limiter, ok := tl.limiters[sessionID]
	if !ok {
		limiter = rate.NewLimiter(rate.Limit(tl.perMin/60.0), tl.burst)
		tl.limiters[sessionID] = limiter
	}
	tl.mu.Unlock()
	return limiter.Allow()
}

// Forget drops the bucket for a session, e.g. after eviction.
func (tl *TurnLimiter) Forget(sessionID string) {
	tl.mu.Lock()
	defer tl.mu.Unlock()
	delete(tl.limiters, sessionID)
}
