package assistant

import (
	"sync"
	"time"
)

// EntryKind classifies a transcript entry.
type EntryKind string

const (
	EntryUser      EntryKind = "user"
	EntryAssistant EntryKind = "assistant"
	EntrySystem    EntryKind = "system"
	EntryError     EntryKind = "error"
)

// Entry is one line of the conversation transcript.
type Entry struct {
	Kind EntryKind `json:"kind"`
	Text string    `json:"text"`
	At   time.Time `json:"at"`
}

// Transcript is the in-memory conversation log for one session.
type Transcript struct {
	mu      sync.Mutex
	entries []Entry
	now     func() time.Time
}

// NewTranscript returns an empty transcript.
func NewTranscript() *Transcript {
	return &Transcript{now: time.Now}
}

// Append adds an entry and returns it.
func (t *Transcript) Append(kind EntryKind, text string) Entry {
	t.mu.Lock()
	defer t.mu.Unlock()
	e := Entry{Kind: kind, Text: text, At: t.now().UTC()}
	t.entries = append(t.entries, e)
	return e
}

// Entries returns a snapshot of all entries in order.
func (t *Transcript) Entries() []Entry {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]Entry, len(t.entries))
	copy(out, t.entries)
	return out
}

// Len returns the number of entries.
func (t *Transcript) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.entries)
}
