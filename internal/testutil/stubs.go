// Package testutil provides stub collaborators shared across test packages.
package testutil

import (
	"context"
	"sync"

	"github.com/newsdesk-hq/newsdesk-go/internal/chat"
	"github.com/newsdesk-hq/newsdesk-go/internal/platform"
)

// StubChat satisfies chat.Backend with scripted replies. Replies are
// consumed in order; when the script runs out the last reply repeats.
type StubChat struct {
	mu            sync.Mutex
	Replies       []*chat.TurnReply
	Err           error
	CancelErr     error
	Requests      []chat.TurnRequest
	Cancellations []string
}

// SendTurn records the request and returns the next scripted reply.
func (s *StubChat) SendTurn(_ context.Context, req chat.TurnRequest) (*chat.TurnReply, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.Requests = append(s.Requests, req)
	if s.Err != nil {
		return nil, s.Err
	}
	if len(s.Replies) == 0 {
		return &chat.TurnReply{Response: "ok"}, nil
	}
	reply := s.Replies[0]
	if len(s.Replies) > 1 {
		s.Replies = s.Replies[1:]
	}
	return reply, nil
}

// NotifyCancellation records the cancelled confirmation ID.
func (s *StubChat) NotifyCancellation(_ context.Context, confirmationID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Cancellations = append(s.Cancellations, confirmationID)
	return s.CancelErr
}

// LastRequest returns the most recent turn request sent.
func (s *StubChat) LastRequest() (chat.TurnRequest, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.Requests) == 0 {
		return chat.TurnRequest{}, false
	}
	return s.Requests[len(s.Requests)-1], true
}

var _ chat.Backend = (*StubChat)(nil)

// PlatformCall records one data-driven call made against StubPlatform.
type PlatformCall struct {
	Method   string
	Endpoint string
	Body     map[string]any
}

// StubPlatform satisfies platform.API, recording calls and returning
// canned results. OnCall, when set, runs inside Call before the canned
// result is returned; tests use it to assert on coordinator state at the
// moment the deferred call fires.
type StubPlatform struct {
	mu        sync.Mutex
	Calls     []PlatformCall
	CallMsg   string
	CallErr   error
	CreatedID string
	CreateErr error
	Created   []string
	OnCall    func(PlatformCall)
}

// Call implements platform.API.
func (s *StubPlatform) Call(_ context.Context, method, endpoint string, body map[string]any) (string, error) {
	s.mu.Lock()
	call := PlatformCall{Method: method, Endpoint: endpoint, Body: body}
	s.Calls = append(s.Calls, call)
	onCall := s.OnCall
	msg, err := s.CallMsg, s.CallErr
	s.mu.Unlock()

	if onCall != nil {
		onCall(call)
	}
	return msg, err
}

// CreateArticle implements platform.API.
func (s *StubPlatform) CreateArticle(_ context.Context, headline string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Created = append(s.Created, headline)
	if s.CreateErr != nil {
		return "", s.CreateErr
	}
	if s.CreatedID == "" {
		return "article-1", nil
	}
	return s.CreatedID, nil
}

// CallCount returns the number of data-driven calls made.
func (s *StubPlatform) CallCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.Calls)
}

var _ platform.API = (*StubPlatform)(nil)
