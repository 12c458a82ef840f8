// Package mcpserver exposes assistant gateway sessions via MCP tools, so
// agent hosts can inspect conversations and drive confirmations.
package mcpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/newsdesk-hq/newsdesk-go/internal/assistant"
	"github.com/newsdesk-hq/newsdesk-go/internal/session"
	"github.com/newsdesk-hq/newsdesk-go/internal/views"
)

// RegisterTools registers all gateway MCP tools on the given server.
func RegisterTools(server *mcp.Server, store *session.Store) {
	mcp.AddTool(server,
		&mcp.Tool{
			Name:        "list_sessions",
			Description: "List live assistant sessions with role, mounted view, and pending confirmations",
		},
		listSessionsHandler(store),
	)

	mcp.AddTool(server,
		&mcp.Tool{
			Name:        "get_session",
			Description: "Get the full state of a session: transcript, navigation context, editor content",
		},
		getSessionHandler(store),
	)

	mcp.AddTool(server,
		&mcp.Tool{
			Name:        "create_session",
			Description: "Create a new assistant session for a platform role",
		},
		createSessionHandler(store),
	)

	mcp.AddTool(server,
		&mcp.Tool{
			Name:        "send_message",
			Description: "Send a chat message into a session and return the turn outcome",
		},
		sendMessageHandler(store),
	)

	mcp.AddTool(server,
		&mcp.Tool{
			Name:        "confirm_pending",
			Description: "Approve the session's pending confirmation, firing its deferred action",
		},
		confirmPendingHandler(store),
	)

	mcp.AddTool(server,
		&mcp.Tool{
			Name:        "cancel_pending",
			Description: "Decline the session's pending confirmation",
		},
		cancelPendingHandler(store),
	)
}

func listSessionsHandler(store *session.Store) mcp.ToolHandlerFor[struct{}, any] {
	return func(_ context.Context, _ *mcp.CallToolRequest, _ struct{}) (*mcp.CallToolResult, any, error) {
		return textResult(store.List())
	}
}

type sessionIDInput struct {
	SessionID string `json:"session_id"`
}

func getSessionHandler(store *session.Store) mcp.ToolHandlerFor[sessionIDInput, any] {
	return func(_ context.Context, _ *mcp.CallToolRequest, input sessionIDInput) (*mcp.CallToolResult, any, error) {
		sess, ok := lookup(store, input.SessionID)
		if !ok {
			return errorResult("session not found: " + input.SessionID), nil, nil
		}
		return textResult(sess.Snapshot())
	}
}

type createSessionInput struct {
	Role string `json:"role"`
	View string `json:"view,omitempty"`
}

func createSessionHandler(store *session.Store) mcp.ToolHandlerFor[createSessionInput, any] {
	return func(_ context.Context, _ *mcp.CallToolRequest, input createSessionInput) (*mcp.CallToolResult, any, error) {
		if input.Role == "" {
			return errorResult("role is required"), nil, nil
		}

		sess, err := store.Create(input.Role, views.View(input.View))
		if err != nil {
			return errorResult(err.Error()), nil, nil
		}
		return textResult(sess.Snapshot())
	}
}

type sendMessageInput struct {
	SessionID string `json:"session_id"`
	Message   string `json:"message"`
}

func sendMessageHandler(store *session.Store) mcp.ToolHandlerFor[sendMessageInput, any] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input sendMessageInput) (*mcp.CallToolResult, any, error) {
		if input.SessionID == "" || input.Message == "" {
			return errorResult("session_id and message are required"), nil, nil
		}
		sess, ok := lookup(store, input.SessionID)
		if !ok {
			return errorResult("session not found: " + input.SessionID), nil, nil
		}

		outcome, err := sess.ProcessMessage(ctx, input.Message)
		if err != nil {
			return nil, nil, fmt.Errorf("send_message: %w", err)
		}
		return textResult(outcome)
	}
}

func confirmPendingHandler(store *session.Store) mcp.ToolHandlerFor[sessionIDInput, any] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input sessionIDInput) (*mcp.CallToolResult, any, error) {
		sess, ok := lookup(store, input.SessionID)
		if !ok {
			return errorResult("session not found: " + input.SessionID), nil, nil
		}

		outcome, err := sess.Confirm(ctx)
		if errors.Is(err, assistant.ErrNoPendingConfirmation) {
			return errorResult("no pending confirmation"), nil, nil
		}
		if err != nil {
			return nil, nil, fmt.Errorf("confirm_pending: %w", err)
		}
		return textResult(outcome)
	}
}

func cancelPendingHandler(store *session.Store) mcp.ToolHandlerFor[sessionIDInput, any] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input sessionIDInput) (*mcp.CallToolResult, any, error) {
		sess, ok := lookup(store, input.SessionID)
		if !ok {
			return errorResult("session not found: " + input.SessionID), nil, nil
		}

		outcome, err := sess.Cancel(ctx)
		if errors.Is(err, assistant.ErrNoPendingConfirmation) {
			return errorResult("no pending confirmation"), nil, nil
		}
		if err != nil {
			return nil, nil, fmt.Errorf("cancel_pending: %w", err)
		}
		return textResult(outcome)
	}
}

func lookup(store *session.Store, id string) (*session.Session, bool) {
	if id == "" {
		return nil, false
	}
	return store.Get(id)
}

func textResult(v any) (*mcp.CallToolResult, any, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, nil, fmt.Errorf("marshal result: %w", err)
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: string(data)},
		},
	}, nil, nil
}

func errorResult(msg string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: msg},
		},
		IsError: true,
	}
}
