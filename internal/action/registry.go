package action

import "sync"

// Registry maps an action type to the ordered list of handlers registered
// for it. Views register on mount and dispose on unmount; multiple views
// may hold registrations for the same type across navigations.
//
// Execution order policy: the most recently registered handler wins. When
// two views are simultaneously mounted and both register the same type,
// the later mount shadows the earlier one until it is disposed.
type Registry struct {
	mu      sync.Mutex
	nextID  uint64
	entries map[string][]registration
}

type registration struct {
	id      uint64
	handler Handler
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{entries: make(map[string][]registration)}
}

// Register appends handler to the list for actionType and returns a
// disposer that removes exactly this registration. Disposing twice is a
// no-op. Registration cannot fail.
func (r *Registry) Register(actionType string, h Handler) func() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	id := r.nextID
	r.entries[actionType] = append(r.entries[actionType], registration{id: id, handler: h})

	return func() {
		r.mu.Lock()
		defer r.mu.Unlock()

		regs := r.entries[actionType]
		for i, reg := range regs {
			if reg.id == id {
				r.entries[actionType] = append(regs[:i:i], regs[i+1:]...)
				if len(r.entries[actionType]) == 0 {
					delete(r.entries, actionType)
				}
				return
			}
		}
	}
}

// Resolve returns the handler that should execute actionType, or false if
// none is registered.
func (r *Registry) Resolve(actionType string) (Handler, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	regs := r.entries[actionType]
	if len(regs) == 0 {
		return nil, false
	}
	return regs[len(regs)-1].handler, true
}

// Handlers returns a read-only snapshot of the handlers registered for
// actionType, in registration order.
func (r *Registry) Handlers(actionType string) []Handler {
	r.mu.Lock()
	defer r.mu.Unlock()

	regs := r.entries[actionType]
	out := make([]Handler, len(regs))
	for i, reg := range regs {
		out[i] = reg.handler
	}
	return out
}

// Types returns the action types that currently have at least one handler.
func (r *Registry) Types() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]string, 0, len(r.entries))
	for t := range r.entries {
		out = append(out, t)
	}
	return out
}

// Reset clears all registrations. Outstanding disposers become no-ops.
func (r *Registry) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = make(map[string][]registration)
}
