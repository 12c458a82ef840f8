// Package session aggregates the per-conversation state: action registry,
// dispatcher, coordinator, navigation context, transcript, and event bus.
package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/newsdesk-hq/newsdesk-go/internal/action"
	"github.com/newsdesk-hq/newsdesk-go/internal/agui"
	"github.com/newsdesk-hq/newsdesk-go/internal/assistant"
	"github.com/newsdesk-hq/newsdesk-go/internal/chat"
	"github.com/newsdesk-hq/newsdesk-go/internal/views"
)

// Session is one user's conversation with the assistant plus the mounted
// view's handler registrations. The mutex serializes turns: a second
// message for the same session waits for the previous turn to finish,
// mirroring the disabled-input invariant of the browser UI.
type Session struct {
	ID        string    `json:"id"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`

	mu         sync.Mutex
	registry   *action.Registry
	dispatcher *action.Dispatcher
	coord      *assistant.Coordinator
	nav        *assistant.NavContext
	editor     *assistant.EditorStore
	transcript *assistant.Transcript
	bus        *agui.Bus
	deps       views.Deps

	view       views.View
	unmount    func()
	stopBridge func()
}

// Snapshot is the full session state returned by the snapshot endpoint.
type Snapshot struct {
	ID            string                         `json:"id"`
	Role          string                         `json:"role"`
	View          views.View                     `json:"view"`
	CreatedAt     time.Time                      `json:"created_at"`
	Context       chat.ContextPayload            `json:"context"`
	Display       assistant.DisplayInfo          `json:"display"`
	Transcript    []assistant.Entry              `json:"transcript"`
	Pending       *assistant.PendingConfirmation `json:"pending_confirmation,omitempty"`
	EditorContent *chat.EditorContent            `json:"editor_content,omitempty"`
}

// ProcessMessage runs one chat turn.
func (s *Session) ProcessMessage(ctx context.Context, text string) (*assistant.TurnOutcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.coord.ProcessMessage(ctx, text)
}

// Confirm resolves the pending confirmation positively.
func (s *Session) Confirm(ctx context.Context) (*assistant.TurnOutcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.coord.Confirm(ctx)
}

// Cancel resolves the pending confirmation negatively.
func (s *Session) Cancel(ctx context.Context) (*assistant.TurnOutcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.coord.Cancel(ctx)
}

// MountView switches the mounted view, disposing the previous view's
// handler registrations first. ViewNone unmounts everything.
func (s *Session) MountView(v views.View) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !views.Known(v) {
		return fmt.Errorf("session: unknown view %q", v)
	}
	if s.unmount != nil {
		s.unmount()
		s.unmount = nil
	}
	s.view = v
	if v == views.ViewNone {
		return nil
	}

	dispose, err := views.Mount(s.registry, v, s.deps)
	if err != nil {
		return fmt.Errorf("session: mount %s: %w", v, err)
	}
	s.unmount = dispose
	return nil
}

// View returns the currently mounted view.
func (s *Session) View() views.View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view
}

// UpdateContext replaces the navigation context with what the browser
// reports.
func (s *Session) UpdateContext(p chat.ContextPayload) {
	s.nav.Replace(p)
	s.bus.Publish(agui.Event{
		Type:      agui.EventContextChanged,
		Timestamp: time.Now().UTC(),
		SessionID: s.ID,
		Data:      p,
	})
}

// Close stops the action-result bridge. The store calls it on eviction.
func (s *Session) Close() {
	if s.stopBridge != nil {
		s.stopBridge()
	}
}

// Bus returns the session's event bus for SSE streaming.
func (s *Session) Bus() *agui.Bus {
	return s.bus
}

// Registry returns the session's action registry. Embedding applications
// may register handlers directly instead of going through views.
func (s *Session) Registry() *action.Registry {
	return s.registry
}

// Snapshot captures the current session state.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	view := s.view
	s.mu.Unlock()

	snap := Snapshot{
		ID:         s.ID,
		Role:       s.Role,
		View:       view,
		CreatedAt:  s.CreatedAt,
		Context:    s.nav.ForAPI(),
		Display:    s.nav.Display(),
		Transcript: s.transcript.Entries(),
	}
	if pending, ok := s.coord.Pending(); ok {
		snap.Pending = &pending
	}
	if ec, ok := s.editor.Current(); ok {
		snap.EditorContent = &ec
	}
	return snap
}
