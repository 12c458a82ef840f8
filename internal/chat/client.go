package chat

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Backend is the coordinator's view of the chat service.
type Backend interface {
	SendTurn(ctx context.Context, req TurnRequest) (*TurnReply, error)
	NotifyCancellation(ctx context.Context, confirmationID string) error
}

// Client talks to the external chat backend over HTTP.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a Client for the backend at baseURL.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 60 * time.Second},
	}
}

// SendTurn posts one chat turn and decodes the structured reply.
func (c *Client) SendTurn(ctx context.Context, req TurnRequest) (*TurnReply, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("chat: marshal turn request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("chat: build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("chat: send turn: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("chat: backend returned %d: %s", resp.StatusCode, msg)
	}

	var reply TurnReply
	if err := json.NewDecoder(resp.Body).Decode(&reply); err != nil {
		return nil, fmt.Errorf("chat: decode reply: %w", err)
	}
	return &reply, nil
}

// NotifyCancellation tells the backend the user declined a confirmation.
// Best-effort: callers may ignore the error.
func (c *Client) NotifyCancellation(ctx context.Context, confirmationID string) error {
	body, err := json.Marshal(map[string]string{"confirmation_id": confirmationID})
	if err != nil {
		return fmt.Errorf("chat: marshal cancellation: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/cancellations", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("chat: build cancellation request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return fmt.Errorf("chat: notify cancellation: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("chat: cancellation returned %d", resp.StatusCode)
	}
	return nil
}

var _ Backend = (*Client)(nil)
