package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// ========================================
// ERROR KINDS
// ========================================
// Every failure surfaced by the client stack matches exactly one of these
// with errors.Is. Callers switch on the kind, never on the message.

var (
	ErrValidation     = errors.New("validation error")
	ErrConnectivity   = errors.New("connectivity error")
	ErrServer         = errors.New("server error")
	ErrNotFound       = errors.New("not found")
	ErrProtocol       = errors.New("protocol error")
	ErrUploadRejected = errors.New("upload rejected")
)

// Error carries the context of a failed remote operation.
type Error struct {
	Kind    error  // one of the Err* sentinels above
	Op      string // e.g. "list carousels", "upload"
	Status  int    // HTTP status, 0 when no response was received
	Code    string // backend error code, if any
	Message string // backend (or client) message, shown to the user as-is
	Err     error  // underlying cause
}

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	if msg == "" {
		msg = e.Kind.Error()
	}
	if e.Status != 0 {
		return fmt.Sprintf("%s: %s (status %d)", e.Op, msg, e.Status)
	}
	return fmt.Sprintf("%s: %s", e.Op, msg)
}

func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// FromStatus maps a non-2xx HTTP status to its error kind.
func FromStatus(status int) error {
	switch {
	case status == http.StatusNotFound:
		return ErrNotFound
	case status >= 500:
		return ErrServer
	case status >= 400:
		return ErrValidation
	default:
		return ErrProtocol
	}
}

// Message returns the text to show the user for err. Wrapped *Error values
// expose their backend message; everything else falls back to err.Error().
func Message(err error) string {
	if err == nil {
		return ""
	}
	var appErr *Error
	if errors.As(err, &appErr) && appErr.Message != "" {
		return appErr.Message
	}
	return err.Error()
}

// Kind reports which sentinel err matches, or nil.
func Kind(err error) error {
	for _, kind := range []error{
		ErrUploadRejected, ErrValidation, ErrNotFound, ErrServer, ErrConnectivity, ErrProtocol,
	} {
		if errors.Is(err, kind) {
			return kind
		}
	}
	return nil
}
