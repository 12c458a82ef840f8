// Package agui implements AG-UI style SSE eventing: structured follow-ups
// from the assistant pushed to whichever browser tab holds the session.
package agui

import "time"

// EventType identifies an assistant event.
type EventType string

const (
	EventTranscriptEntry      EventType = "TRANSCRIPT_ENTRY"
	EventNavigation           EventType = "NAVIGATION"
	EventActionResult         EventType = "ACTION_RESULT"
	EventEditorContent        EventType = "EDITOR_CONTENT"
	EventConfirmationRequest  EventType = "CONFIRMATION_REQUESTED"
	EventConfirmationResolved EventType = "CONFIRMATION_RESOLVED"
	EventContextChanged       EventType = "CONTEXT_CHANGED"
)

// Event is a single SSE event emitted to the client.
type Event struct {
	Type      EventType `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	SessionID string    `json:"session_id"`
	Data      any       `json:"data,omitempty"`
}

// NavigationData carries a navigation or logout command. DelayMS is a UX
// pacing hint; the browser applies it, not the gateway.
type NavigationData struct {
	Action  string `json:"action"`
	Target  string `json:"target,omitempty"`
	DelayMS int    `json:"delay_ms,omitempty"`
}

// ConfirmationResolvedData reports how a pending confirmation ended.
type ConfirmationResolvedData struct {
	ID        string `json:"id"`
	Confirmed bool   `json:"confirmed"`
}

// Sink accepts events for delivery. The coordinator publishes through it;
// Bus is the concrete implementation.
type Sink interface {
	Publish(Event)
}
