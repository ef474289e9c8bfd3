package api

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies a transport failure.
type Kind string

const (
	// KindServer means the backend answered with a non-success status.
	KindServer Kind = "server"
	// KindNetwork means no response was received at all.
	KindNetwork Kind = "network"
	// KindTimeout means the request exceeded the global deadline. It is a
	// network-class failure reported under its own name.
	KindTimeout Kind = "timeout"
	// KindClient means the request could not be built or sent.
	KindClient Kind = "client"
)

// Error is the single failure shape the transport produces. Callers branch
// on Kind; the classification is preserved end to end.
type Error struct {
	Kind   Kind
	Status int    // HTTP status, server kind only
	Detail string // backend-provided detail when present
	Err    error  // underlying cause, if any
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindServer:
		if e.Detail != "" {
			return fmt.Sprintf("server error (%d): %s", e.Status, e.Detail)
		}
		return fmt.Sprintf("server error (%d): %s", e.Status, http.StatusText(e.Status))
	case KindTimeout:
		return "request timed out"
	case KindNetwork:
		return fmt.Sprintf("network error: %v", e.Err)
	default:
		return fmt.Sprintf("request error: %v", e.Err)
	}
}

func (e *Error) Unwrap() error { return e.Err }

// Message renders err as a human-readable string suitable for direct
// display. Server detail is surfaced verbatim when the backend provided it.
func Message(err error) string {
	var apiErr *Error
	if !errors.As(err, &apiErr) {
		return err.Error()
	}
	switch apiErr.Kind {
	case KindServer:
		if apiErr.Detail != "" {
			return apiErr.Detail
		}
		return fmt.Sprintf("server returned %d %s", apiErr.Status, http.StatusText(apiErr.Status))
	case KindTimeout:
		return "the request timed out"
	case KindNetwork:
		return "could not reach the server"
	default:
		return "the request could not be sent"
	}
}
