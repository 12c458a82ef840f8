package assistant

import (
	"sync"

	"github.com/newsdesk-hq/newsdesk-go/internal/chat"
)

// Editor content actions the store accepts. Anything else degrades to
// ContentActionFill: overwriting with fresh content is the safest default
// for a payload we do not understand.
const (
	ContentActionFill           = "fill"
	ContentActionReplace        = "replace"
	ContentActionAppend         = "append"
	ContentActionUpdateHeadline = "update_headline"
	ContentActionUpdateKeywords = "update_keywords"
)

var allowedContentActions = map[string]bool{
	ContentActionFill:           true,
	ContentActionReplace:        true,
	ContentActionAppend:         true,
	ContentActionUpdateHeadline: true,
	ContentActionUpdateKeywords: true,
}

// NormalizeContentAction validates an editor content action string against
// the allow-list, degrading unrecognized values to "fill".
func NormalizeContentAction(s string) string {
	if allowedContentActions[s] {
		return s
	}
	return ContentActionFill
}

// EditorStore is the single-slot hand-off between the coordinator and the
// currently mounted editor. A chat turn writes a payload; the editor view
// takes it when it is ready to apply it.
type EditorStore struct {
	mu      sync.Mutex
	content *chat.EditorContent
}

// NewEditorStore returns an empty store.
func NewEditorStore() *EditorStore {
	return &EditorStore{}
}

// Set stores the payload with its action normalized, replacing any
// previous unconsumed payload.
func (s *EditorStore) Set(ec chat.EditorContent) chat.EditorContent {
	ec.Action = NormalizeContentAction(ec.Action)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.content = &ec
	return ec
}

// Current returns the stored payload without consuming it.
func (s *EditorStore) Current() (chat.EditorContent, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.content == nil {
		return chat.EditorContent{}, false
	}
	return *s.content, true
}

// Take consumes and returns the stored payload.
func (s *EditorStore) Take() (chat.EditorContent, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.content == nil {
		return chat.EditorContent{}, false
	}
	ec := *s.content
	s.content = nil
	return ec, true
}
