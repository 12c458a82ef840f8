// Package platform provides the HTTP client for the Newsdesk content API.
// The coordinator uses it for two things: the deferred call named inside a
// confirmation payload, and the create-article call behind the
// create_new_article fallback.
package platform

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// API is the coordinator's view of the content platform.
type API interface {
	// Call performs a data-driven request: method and endpoint come from a
	// confirmation payload, not from gateway code. It returns the server's
	// human-readable message, if any.
	Call(ctx context.Context, method, endpoint string, body map[string]any) (string, error)

	// CreateArticle creates an empty draft and returns its ID.
	CreateArticle(ctx context.Context, headline string) (string, error)
}

// Client talks to the content API at a fixed base URL, forwarding the
// user's bearer token when present.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a Client for the content API at baseURL.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 30 * time.Second},
	}
}

// Call implements API. Endpoint must be an absolute path on the content
// API, e.g. "/api/articles/42/publish".
func (c *Client) Call(ctx context.Context, method, endpoint string, body map[string]any) (string, error) {
	if method == "" {
		method = http.MethodPost
	}
	if !strings.HasPrefix(endpoint, "/") {
		return "", fmt.Errorf("platform: endpoint must be an absolute path, got %q", endpoint)
	}

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return "", fmt.Errorf("platform: marshal body: %w", err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+endpoint, reader)
	if err != nil {
		return "", fmt.Errorf("platform: build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := bearerToken(ctx); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("platform: %s %s: %w", method, endpoint, err)
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if resp.StatusCode >= 300 {
		return "", fmt.Errorf("platform: %s %s returned %d: %s", method, endpoint, resp.StatusCode, strings.TrimSpace(string(raw)))
	}

	var parsed struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(raw, &parsed); err == nil && parsed.Message != "" {
		return parsed.Message, nil
	}
	return "", nil
}

// CreateArticle implements API.
func (c *Client) CreateArticle(ctx context.Context, headline string) (string, error) {
	body, err := json.Marshal(map[string]string{"headline": headline})
	if err != nil {
		return "", fmt.Errorf("platform: marshal article: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/articles", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("platform: build create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token := bearerToken(ctx); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("platform: create article: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", fmt.Errorf("platform: create article returned %d: %s", resp.StatusCode, msg)
	}

	var created struct {
		ID string `json:"id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		return "", fmt.Errorf("platform: decode created article: %w", err)
	}
	if created.ID == "" {
		return "", fmt.Errorf("platform: create article response missing id")
	}
	return created.ID, nil
}

var _ API = (*Client)(nil)
