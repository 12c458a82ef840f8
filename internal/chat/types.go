// Package chat defines the wire contract with the external chat backend
// and an HTTP client for it.
package chat

// TurnRequest is one user message plus the ambient navigation context.
type TurnRequest struct {
	Message string         `json:"message"`
	Context ContextPayload `json:"context"`
}

// ContextPayload describes where the user conceptually is. All fields are
// optional; the chat backend uses them for grounding and agent labeling.
type ContextPayload struct {
	Section         string   `json:"section,omitempty"`
	Topic           string   `json:"topic,omitempty"`
	ArticleID       string   `json:"article_id,omitempty"`
	ArticleHeadline string   `json:"article_headline,omitempty"`
	ArticleKeywords []string `json:"article_keywords,omitempty"`
	ArticleStatus   string   `json:"article_status,omitempty"`
	ResourceID      string   `json:"resource_id,omitempty"`
	ResourceName    string   `json:"resource_name,omitempty"`
	ResourceType    string   `json:"resource_type,omitempty"`
	ViewMode        string   `json:"view_mode,omitempty"`
}

// TurnReply is the structured reply for one chat turn. Response is always
// present; every other field is optional and at most one of Navigation,
// UIAction, and Confirmation is expected per turn.
type TurnReply struct {
	Response       string          `json:"response"`
	Navigation     *Navigation     `json:"navigation,omitempty"`
	UIAction       *UIAction       `json:"ui_action,omitempty"`
	EditorContent  *EditorContent  `json:"editor_content,omitempty"`
	Confirmation   *Confirmation   `json:"confirmation,omitempty"`
	ArticleContext *ArticleContext `json:"article_context,omitempty"`
}

// Navigation actions.
const (
	NavActionNavigate = "navigate"
	NavActionLogout   = "logout"
)

// Navigation is a direct navigation command.
type Navigation struct {
	Action string `json:"action"`
	Target string `json:"target,omitempty"`
}

// UIAction is a structured command for whichever view is mounted.
type UIAction struct {
	Type   string         `json:"type"`
	Params map[string]any `json:"params,omitempty"`
}

// EditorContent is a payload for the currently mounted editor. Action
// selects how it is applied; unrecognized values degrade to "fill".
type EditorContent struct {
	Headline        string           `json:"headline,omitempty"`
	Content         string           `json:"content,omitempty"`
	Keywords        []string         `json:"keywords,omitempty"`
	Action          string           `json:"action"`
	LinkedResources []LinkedResource `json:"linked_resources,omitempty"`
	ArticleID       string           `json:"article_id,omitempty"`
}

// LinkedResource references an uploaded resource to attach to an article.
type LinkedResource struct {
	ResourceID string `json:"resource_id"`
	Name       string `json:"name,omitempty"`
	Type       string `json:"type,omitempty"`
}

// Confirmation is a human-in-the-loop gate: a side-effecting call the
// gateway must not make until the user explicitly approves it.
type Confirmation struct {
	ID              string         `json:"id"`
	Type            string         `json:"type"`
	Title           string         `json:"title"`
	Message         string         `json:"message"`
	ConfirmLabel    string         `json:"confirm_label,omitempty"`
	CancelLabel     string         `json:"cancel_label,omitempty"`
	ConfirmEndpoint string         `json:"confirm_endpoint,omitempty"`
	ConfirmMethod   string         `json:"confirm_method,omitempty"`
	ConfirmBody     map[string]any `json:"confirm_body,omitempty"`
	ArticleID       string         `json:"article_id,omitempty"`
}

// ArticleContext updates the ambient article in the navigation context.
type ArticleContext struct {
	ArticleID string   `json:"article_id"`
	Headline  string   `json:"headline,omitempty"`
	Keywords  []string `json:"keywords,omitempty"`
	Status    string   `json:"status,omitempty"`
}
