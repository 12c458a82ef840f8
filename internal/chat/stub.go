package chat

import (
	"context"
	"strings"
)

// StubBackend is a keyword-scripted chat backend for stub mode and local
// development. It requires no network and produces deterministic replies.
type StubBackend struct{}

// NewStubBackend returns a StubBackend.
func NewStubBackend() *StubBackend {
	return &StubBackend{}
}

// SendTurn returns a canned reply keyed off the message text.
func (s *StubBackend) SendTurn(_ context.Context, req TurnRequest) (*TurnReply, error) {
	msg := strings.ToLower(req.Message)

	switch {
	case strings.Contains(msg, "save"):
		return &TurnReply{
			Response: "Saving your draft now.",
			UIAction: &UIAction{Type: "save_draft"},
		}, nil
	case strings.Contains(msg, "publish"):
		articleID := req.Context.ArticleID
		return &TurnReply{
			Response: "Publishing needs your approval.",
			Confirmation: &Confirmation{
				ID:              "stub-publish-" + articleID,
				Type:            "publish_approval",
				Title:           "Publish article",
				Message:         "Publish the current article?",
				ConfirmLabel:    "Publish",
				CancelLabel:     "Keep as draft",
				ConfirmEndpoint: "/api/articles/" + articleID + "/publish",
				ConfirmMethod:   "POST",
				ArticleID:       articleID,
			},
		}, nil
	case strings.Contains(msg, "home"):
		return &TurnReply{
			Response:   "Taking you home.",
			Navigation: &Navigation{Action: NavActionNavigate, Target: "/"},
		}, nil
	case strings.Contains(msg, "log out"), strings.Contains(msg, "logout"):
		return &TurnReply{
			Response:   "Logging you out.",
			Navigation: &Navigation{Action: NavActionLogout},
		}, nil
	case strings.Contains(msg, "draft about"):
		topic := strings.TrimSpace(msg[strings.Index(msg, "draft about")+len("draft about"):])
		return &TurnReply{
			Response: "Here is a starting draft.",
			EditorContent: &EditorContent{
				Headline: "Draft: " + topic,
				Content:  "An opening paragraph about " + topic + ".",
				Keywords: []string{topic},
				Action:   "fill",
			},
		}, nil
	default:
		return &TurnReply{Response: "I can save drafts, fill the editor, publish with your approval, or navigate."}, nil
	}
}

// NotifyCancellation is a no-op for the stub backend.
func (s *StubBackend) NotifyCancellation(_ context.Context, _ string) error {
	return nil
}

var _ Backend = (*StubBackend)(nil)
