package assistant

import "sync"

// confirmationSlot holds at most one pending confirmation. A new prompt
// overwrites an undecided old one; Confirm and Cancel consume via take,
// which clears the slot before any deferred call fires.
type confirmationSlot struct {
	mu      sync.Mutex
	pending *PendingConfirmation
}

// set stores a new pending confirmation, returning the one it replaced.
func (s *confirmationSlot) set(p PendingConfirmation) (replaced PendingConfirmation, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pending != nil {
		replaced, ok = *s.pending, true
	}
	s.pending = &p
	return replaced, ok
}

// get returns the pending confirmation without consuming it.
func (s *confirmationSlot) get() (PendingConfirmation, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pending == nil {
		return PendingConfirmation{}, false
	}
	return *s.pending, true
}

// take consumes the pending confirmation, clearing the slot.
func (s *confirmationSlot) take() (PendingConfirmation, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pending == nil {
		return PendingConfirmation{}, false
	}
	p := *s.pending
	s.pending = nil
	return p, true
}
