package model

// Sender identifies which side of the conversation produced a message.
type Sender string

const (
	SenderUser      Sender = "user"
	SenderAssistant Sender = "assistant"
)

// Source points at the passage an answer was drawn from.
type Source struct {
	Document string `json:"document"`
	Page     int    `json:"page"`
}

// Message is one transcript entry. Messages are append-only for the lifetime
// of the session; IDs are assigned by the session and strictly increase.
type Message struct {
	ID        int      `json:"id"`
	Text      string   `json:"text"`
	Sender    Sender   `json:"sender"`
	Timestamp string   `json:"timestamp"`
	Sources   []Source `json:"sources,omitempty"`
}

// ChatRequest is the body of POST /chat. DocumentIDs optionally scopes the
// query to a subset of the uploaded documents.
type ChatRequest struct {
	Query       string   `json:"query"`
	DocumentIDs []string `json:"document_ids,omitempty"`
}

// ChatResponse is the payload of POST /chat.
type ChatResponse struct {
	Answer  string   `json:"answer"`
	Sources []Source `json:"sources"`
}

// ChatHistoryResponse is the payload of GET /chat/history/{sessionId}. The
// endpoint is reserved on the backend and currently answers with a note
// instead of messages.
type ChatHistoryResponse struct {
	SessionID string    `json:"session_id"`
	Messages  []Message `json:"messages,omitempty"`
	Note      string    `json:"message,omitempty"`
}
