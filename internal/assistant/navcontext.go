package assistant

import (
	"strings"
	"sync"

	"github.com/newsdesk-hq/newsdesk-go/internal/chat"
)

// NavContext is the ambient description of where the user conceptually is:
// section, topic, current article, current resource, view mode. Views
// mutate it on load and selection change; the coordinator attaches it to
// every outgoing chat turn.
type NavContext struct {
	mu  sync.Mutex
	cur chat.ContextPayload
}

// NewNavContext returns a NavContext starting in section.
func NewNavContext(section string) *NavContext {
	return &NavContext{cur: chat.ContextPayload{Section: section}}
}

// Replace swaps in a full context snapshot, mirroring what the browser
// reports after a navigation or selection change.
func (n *NavContext) Replace(p chat.ContextPayload) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.cur = p
}

// ApplyArticle merges an article_context field from a chat reply. Empty
// fields leave the existing values untouched.
func (n *NavContext) ApplyArticle(ac chat.ArticleContext) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if ac.ArticleID != "" {
		n.cur.ArticleID = ac.ArticleID
	}
	if ac.Headline != "" {
		n.cur.ArticleHeadline = ac.Headline
	}
	if len(ac.Keywords) > 0 {
		n.cur.ArticleKeywords = ac.Keywords
	}
	if ac.Status != "" {
		n.cur.ArticleStatus = ac.Status
	}
}

// SetArticle records the currently open article.
func (n *NavContext) SetArticle(id, headline, status string, keywords []string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.cur.ArticleID = id
	n.cur.ArticleHeadline = headline
	n.cur.ArticleStatus = status
	n.cur.ArticleKeywords = keywords
}

// ClearArticle drops the article fields, e.g. when the editor unmounts.
func (n *NavContext) ClearArticle() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.cur.ArticleID = ""
	n.cur.ArticleHeadline = ""
	n.cur.ArticleStatus = ""
	n.cur.ArticleKeywords = nil
}

// SetTopic records the selected topic slug.
func (n *NavContext) SetTopic(topic string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.cur.Topic = topic
}

// SetViewMode records the active tab or view mode within the section.
func (n *NavContext) SetViewMode(mode string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.cur.ViewMode = mode
}

// ForAPI returns the context payload to attach to a chat turn.
func (n *NavContext) ForAPI() chat.ContextPayload {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.cur
}

// DisplayInfo is the derived projection used to label the assistant in
// the UI.
type DisplayInfo struct {
	Label    string `json:"label"`
	Sublabel string `json:"sublabel,omitempty"`
}

// Display derives the assistant label from the current context.
func (n *NavContext) Display() DisplayInfo {
	n.mu.Lock()
	defer n.mu.Unlock()

	label := "Assistant"
	if n.cur.Section != "" {
		label = strings.ToUpper(n.cur.Section[:1]) + n.cur.Section[1:] + " assistant"
	}

	var parts []string
	if n.cur.Topic != "" {
		parts = append(parts, n.cur.Topic)
	}
	if n.cur.ArticleHeadline != "" {
		parts = append(parts, n.cur.ArticleHeadline)
	} else if n.cur.ResourceName != "" {
		parts = append(parts, n.cur.ResourceName)
	}
	return DisplayInfo{Label: label, Sublabel: strings.Join(parts, " · ")}
}
