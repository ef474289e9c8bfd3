package ui

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/docuchat/assistant-cli/internal/api"
	"github.com/docuchat/assistant-cli/internal/model"
	"github.com/docuchat/assistant-cli/internal/store"
	"github.com/docuchat/assistant-cli/internal/upload"
	"github.com/docuchat/assistant-cli/pkg/logger"
)

const helpText = `Commands:
  /docs            show the document collection
  /refresh         re-fetch the document list
  /upload <path>   upload a PDF
  /delete <id>     delete a document by id
  /use [id ...]    scope questions to the given documents (no ids clears)
  /history         fetch server-side chat history for this session
  /health          check backend liveness
  /quit            exit
Anything else is sent to the assistant as a question.`

// StatusClient is the slice of the REST client the REPL uses directly,
// outside the two stores.
type StatusClient interface {
	Health(ctx context.Context) error
	ChatHistory(ctx context.Context, sessionID string) (*model.ChatHistoryResponse, error)
}

// REPL reads lines from in, dispatches them into the stores and renders the
// resulting state. Plain lines are chat sends; the Enter keystroke is the
// commit action. Slash-prefixed lines drive the document collection.
type REPL struct {
	docs      *store.DocumentStore
	chat      *store.ChatSession
	client    StatusClient
	render    *Renderer
	log       *logger.Logger
	in        io.Reader
	sessionID string

	rendered int  // transcript entries already printed
	loaded   bool // collection fetched at least once
}

// New builds a REPL over stdin/stdout.
func New(docs *store.DocumentStore, chat *store.ChatSession, client StatusClient, log *logger.Logger) *REPL {
	return &REPL{
		docs:      docs,
		chat:      chat,
		client:    client,
		render:    NewRenderer(os.Stdout, os.Stderr),
		log:       log,
		in:        os.Stdin,
		sessionID: uuid.New().String(),
	}
}

// Run loops until EOF, /quit or context cancellation.
func (r *REPL) Run(ctx context.Context) error {
	r.renderNewMessages()
	r.render.Info("Type a question and press Enter. /help lists commands.")

	scanner := bufio.NewScanner(r.in)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for {
		fmt.Print(userLabel("You: "))
		if !scanner.Scan() {
			return scanner.Err()
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}

		line := scanner.Text()
		if strings.HasPrefix(strings.TrimSpace(line), "/") {
			if quit := r.dispatch(ctx, strings.TrimSpace(line)); quit {
				return nil
			}
			continue
		}
		r.send(ctx, line)
	}
}

// dispatch handles one slash command. It returns true when the session
// should end.
func (r *REPL) dispatch(ctx context.Context, line string) bool {
	fields := strings.Fields(line)
	cmd, args := fields[0], fields[1:]

	switch cmd {
	case "/quit", "/exit":
		return true
	case "/help":
		r.render.Info(helpText)
	case "/docs":
		if !r.loaded {
			r.refresh(ctx)
		}
		r.render.Collection(r.docs.Snapshot())
	case "/refresh":
		r.refresh(ctx)
		r.render.Collection(r.docs.Snapshot())
	case "/upload":
		r.upload(ctx, args)
	case "/delete":
		if len(args) != 1 {
			r.render.Info("usage: /delete <id>")
			break
		}
		r.delete(ctx, args[0])
	case "/use":
		r.chat.SetScope(args)
		if len(args) == 0 {
			r.render.Info("Questions now cover all documents.")
		} else {
			r.render.Info("Questions scoped to: " + strings.Join(args, ", "))
		}
	case "/history":
		r.history(ctx)
	case "/health":
		if err := r.client.Health(ctx); err != nil {
			r.render.Banner("Backend unavailable: " + api.Message(err))
		} else {
			r.render.Info("Backend is healthy.")
		}
	default:
		r.render.Info("Unknown command. /help lists commands.")
	}
	return false
}

func (r *REPL) send(ctx context.Context, text string) {
	if err := r.chat.Send(ctx, text); err != nil {
		r.log.Debug("send failed") // transcript and banner already carry it
	}
	r.renderNewMessages()
	if msg := r.chat.Err(); msg != "" {
		r.render.Banner(msg)
		r.chat.ClearError()
	}
}

func (r *REPL) refresh(ctx context.Context) {
	if err := r.docs.Refresh(ctx); err == nil {
		r.loaded = true
	}
}

func (r *REPL) upload(ctx context.Context, args []string) {
	var names []string
	var contents io.Reader

	if len(args) > 0 {
		path := args[0]
		f, err := os.Open(path)
		if err != nil {
			r.render.Banner("Upload failed: " + err.Error())
			return
		}
		defer f.Close()
		names = []string{filepath.Base(path)}
		contents = f
	}

	resp, err := r.docs.Upload(ctx, names, contents)
	if err != nil {
		var verr *upload.ValidationError
		if errors.As(err, &verr) {
			r.render.Banner("Upload failed: " + verr.Error())
		}
		// Transport failures already landed in the store error.
		r.render.Collection(r.docs.Snapshot())
		r.docs.ClearError()
		return
	}
	r.loaded = true
	r.render.Info(fmt.Sprintf("Document %s uploaded successfully!", resp.Filename))
	r.render.Collection(r.docs.Snapshot())
}

func (r *REPL) delete(ctx context.Context, id string) {
	if err := r.docs.Delete(ctx, id); err != nil {
		if errors.Is(err, store.ErrUnknownDocument) {
			r.render.Banner("No such document: " + id)
			return
		}
		r.render.Collection(r.docs.Snapshot())
		r.docs.ClearError()
		return
	}
	r.render.Info("Document deleted.")
	r.render.Collection(r.docs.Snapshot())
}

func (r *REPL) history(ctx context.Context) {
	resp, err := r.client.ChatHistory(ctx, r.sessionID)
	if err != nil {
		r.render.Banner("Failed to fetch history: " + api.Message(err))
		return
	}
	if len(resp.Messages) == 0 {
		note := resp.Note
		if note == "" {
			note = "No server-side history for this session."
		}
		r.render.Info(note)
		return
	}
	for _, m := range resp.Messages {
		r.render.Message(m)
	}
}

// renderNewMessages prints transcript entries appended since the last call.
// It always re-reads the session; nothing is cached across operations.
func (r *REPL) renderNewMessages() {
	msgs := r.chat.Messages()
	for ; r.rendered < len(msgs); r.rendered++ {
		r.render.Message(msgs[r.rendered])
	}
}
