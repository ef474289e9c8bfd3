package api

import (
	"context"
	"net/http"

	"github.com/docuchat/assistant-cli/internal/model"
)

// SendMessage posts one query to POST /chat. documentIDs optionally scopes
// retrieval to a subset of the collection; nil means all documents.
func (c *Client) SendMessage(ctx context.Context, query string, documentIDs []string) (*model.ChatResponse, error) {
	var out model.ChatResponse
	err := c.postJSON(ctx, "/chat", model.ChatRequest{Query: query, DocumentIDs: documentIDs}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// ChatHistory fetches GET /chat/history/{sessionId}. The backend reserves
// this endpoint and currently answers with a note instead of messages.
func (c *Client) ChatHistory(ctx context.Context, sessionID string) (*model.ChatHistoryResponse, error) {
	var out model.ChatHistoryResponse
	if err := c.do(ctx, http.MethodGet, "/chat/history/"+sessionID, nil, "", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Health probes GET /health. Any transport failure means the backend is not
// reachable; there is no payload contract beyond success.
func (c *Client) Health(ctx context.Context) error {
	var out model.HealthResponse
	return c.do(ctx, http.MethodGet, "/health", nil, "", &out)
}
