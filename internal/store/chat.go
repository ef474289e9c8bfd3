package store

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/docuchat/assistant-cli/internal/api"
	"github.com/docuchat/assistant-cli/internal/model"
	"github.com/docuchat/assistant-cli/pkg/logger"
	"github.com/docuchat/assistant-cli/pkg/metrics"
)

// WelcomeText opens every session's transcript.
const WelcomeText = "Hello! I'm your RAG chatbot. Upload some documents and ask me questions about them!"

// processingErrorText is the fixed transcript entry appended when a request
// fails. The detailed error travels separately, for banner display.
const processingErrorText = "Sorry, I encountered an error processing your request. Please try again."

const timestampLayout = "15:04:05"

// ChatBackend is the slice of the REST client the chat session needs.
type ChatBackend interface {
	SendMessage(ctx context.Context, query string, documentIDs []string) (*model.ChatResponse, error)
}

// ChatSession owns the ordered transcript and the in-flight request state.
// At most one request is outstanding at a time; Send calls made while a
// request is pending are no-ops, which also makes Send safe against
// double-dispatch from sloppy input handling.
type ChatSession struct {
	backend ChatBackend
	log     *logger.Logger
	clock   func() time.Time

	mu        sync.Mutex
	messages  []model.Message
	nextID    int
	pendingID string // empty when idle
	scope     []string
	lastErr   string
}

// NewChatSession starts a session whose transcript opens with the welcome
// message at id 1.
func NewChatSession(backend ChatBackend, log *logger.Logger) *ChatSession {
	s := &ChatSession{
		backend: backend,
		log:     log,
		clock:   time.Now,
		nextID:  1,
	}
	s.appendLocked(model.Message{Text: WelcomeText, Sender: model.SenderAssistant})
	return s
}

// Send appends the user's message, issues the chat request and appends the
// assistant's reply. Blank text is a no-op, as is any call made while a
// request is pending. The session is Idle again on every exit path.
func (s *ChatSession) Send(ctx context.Context, text string) error {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	s.mu.Lock()
	if s.pendingID != "" {
		s.mu.Unlock()
		return nil
	}
	reqID := uuid.New().String()
	s.pendingID = reqID
	s.lastErr = ""
	s.appendLocked(model.Message{Text: text, Sender: model.SenderUser})
	scope := append([]string(nil), s.scope...)
	s.mu.Unlock()

	metrics.ChatMessagesTotal.WithLabelValues(string(model.SenderUser)).Inc()
	resp, err := s.backend.SendMessage(ctx, text, scope)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pendingID != reqID {
		// Superseded completion; nothing left to apply.
		return nil
	}
	s.pendingID = ""
	if err != nil {
		// Two channels: a fixed transcript entry and the detailed banner.
		s.lastErr = "Failed to get response: " + api.Message(err)
		s.appendLocked(model.Message{Text: processingErrorText, Sender: model.SenderAssistant})
		s.log.Warn("chat request failed", zap.Error(err))
		return err
	}

	// The full source list is kept; capping for display is the UI's call.
	s.appendLocked(model.Message{
		Text:    resp.Answer,
		Sender:  model.SenderAssistant,
		Sources: resp.Sources,
	})
	metrics.ChatMessagesTotal.WithLabelValues(string(model.SenderAssistant)).Inc()
	return nil
}

// Messages returns a copy of the transcript.
func (s *ChatSession) Messages() []model.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.Message, len(s.messages))
	copy(out, s.messages)
	return out
}

// Pending reports whether a request is in flight.
func (s *ChatSession) Pending() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pendingID != ""
}

// Err returns the banner error from the last failed request, if any.
func (s *ChatSession) Err() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

// ClearError dismisses the banner error.
func (s *ChatSession) ClearError() {
	s.mu.Lock()
	s.lastErr = ""
	s.mu.Unlock()
}

// SetScope restricts subsequent queries to the given document ids. An empty
// scope queries the whole collection.
func (s *ChatSession) SetScope(ids []string) {
	s.mu.Lock()
	s.scope = append([]string(nil), ids...)
	s.mu.Unlock()
}

// Scope returns the current document id filter.
func (s *ChatSession) Scope() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.scope...)
}

// appendLocked assigns the next monotonic id and stamps the message. Callers
// hold s.mu, except NewChatSession which has exclusive access.
func (s *ChatSession) appendLocked(m model.Message) {
	m.ID = s.nextID
	s.nextID++
	m.Timestamp = s.clock().Format(timestampLayout)
	s.messages = append(s.messages, m)
}
