// Package apierror provides the error kinds raised by the core workflows and
// the standardized response envelope every 4xx/5xx reply goes through. Clients
// branch on the machine-readable kind; the message is for humans. Internal
// details (stack traces, DB errors) never reach the wire.
package apierror

import (
	"errors"
	"net/http"
)

// Kind identifies a failure class for programmatic branching.
type Kind string

const (
	KindNoOpenSession      Kind = "no_open_session"
	KindSessionAlreadyOpen Kind = "session_already_open"
	KindInsufficientStock  Kind = "insufficient_stock"
	KindNotFound           Kind = "not_found"
	KindValidationFailed   Kind = "validation_failed"
	KindFailed             Kind = "failed"
)

// Error is a kind-tagged error. Workflows return these so handlers can map
// them to HTTP statuses without string matching.
type Error struct {
	Kind    Kind
	Message string
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return e.Message + ": " + e.cause.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.cause }

// New creates a kind-tagged error.
func New(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Message: msg}
}

// Wrap tags an underlying failure as KindFailed, preserving the cause chain.
// Errors that already carry a kind pass through unchanged.
func Wrap(err error, msg string) *Error {
	var tagged *Error
	if errors.As(err, &tagged) {
		return tagged
	}
	return &Error{Kind: KindFailed, Message: msg, cause: err}
}

// KindOf extracts the kind from an error chain, defaulting to KindFailed.
func KindOf(err error) Kind {
	var tagged *Error
	if errors.As(err, &tagged) {
		return tagged.Kind
	}
	return KindFailed
}

// HTTPStatus maps an error kind to its response status.
func (k Kind) HTTPStatus() int {
	switch k {
	case KindNotFound:
		return http.StatusNotFound
	case KindValidationFailed:
		return http.StatusUnprocessableEntity
	case KindNoOpenSession, KindSessionAlreadyOpen, KindInsufficientStock:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// Response is the canonical error envelope: {"error": kind, "message": …}.
type Response struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// Payload resolves an error to its HTTP status and wire envelope.
func Payload(err error) (int, Response) {
	kind := KindOf(err)
	msg := err.Error()
	var tagged *Error
	if errors.As(err, &tagged) {
		msg = tagged.Message
	}
	if kind == KindFailed {
		// Never leak internals on generic failures.
		msg = "internal error"
	}
	return kind.HTTPStatus(), Response{Error: string(kind), Message: msg}
}

// ValidationResponse wraps multiple field errors.
type ValidationResponse struct {
	Error   string            `json:"error"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields"`
}

func NewValidation(fields map[string]string) *ValidationResponse {
	return &ValidationResponse{
		Error:   string(KindValidationFailed),
		Message: "validation failed",
		Fields:  fields,
	}
}
