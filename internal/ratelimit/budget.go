package ratelimit

import (
	"fmt"
	"sync"
	"time"
)

// TurnBudget tracks per-role turn counts within time windows. Unlike the
// per-session bucket, this caps aggregate chat-backend spend for a whole
// role tier.
type TurnBudget struct {
	mu     sync.Mutex
	counts map[string]*windowCounter

	maxPerWindow int
	windowSize   time.Duration
	now          func() time.Time
}

type windowCounter struct {
	count     int
	windowEnd time.Time
}

// NewTurnBudget creates a budget limiter.
// maxPerWindow limits turns per role within windowSize.
func NewTurnBudget(maxPerWindow int, windowSize time.Duration) *TurnBudget {
	return &TurnBudget{
		counts:       make(map[string]*windowCounter),
		maxPerWindow: maxPerWindow,
		windowSize:   windowSize,
		now:          time.Now,
	}
}

// Check returns an error if the role has exceeded its turn budget.
func (b *TurnBudget) Check(role string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	wc, ok := b.counts[role]
	if !ok || b.now().After(wc.windowEnd) {
		return nil // no window or expired window
	}
	if wc.count >= b.maxPerWindow {
		return fmt.Errorf("turn budget exceeded: role %s (%d/%d in window)",
			role, wc.count, b.maxPerWindow)
	}
	return nil
}

// Record records a turn for the role.
func (b *TurnBudget) Record(role string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	wc, ok := b.counts[role]
	if !ok || b.now().After(wc.windowEnd) {
		b.counts[role] = &windowCounter{
			count:     1,
			windowEnd: b.now().Add(b.windowSize),
		}
		return
	}
	wc.count++
}
