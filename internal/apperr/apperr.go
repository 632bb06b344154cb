// Package apperr defines the error taxonomy shared by all request handlers.
package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies a failure so the handler boundary can map it to a
// response without inspecting error text.
type Kind int

const (
	// Internal is the catch-all for store and programming failures.
	Internal Kind = iota
	// InvalidArgument means a required input was missing or empty. Checked
	// before any network or store call.
	InvalidArgument
	// UpstreamAuthFailed means Last.fm rejected the credentials.
	UpstreamAuthFailed
	// UpstreamError means Last.fm returned an error envelope for a
	// non-auth call.
	UpstreamError
	// UpstreamProtocolError means a success envelope was missing fields we
	// depend on.
	UpstreamProtocolError
	// NoMatchingRecords means a query was legitimately empty where
	// emptiness is meaningful (playlist build).
	NoMatchingRecords
	// NotFound means the addressed document does not exist.
	NotFound
)

func (k Kind) String() string {
	switch k {
	case InvalidArgument:
		return "invalid_argument"
	case UpstreamAuthFailed:
		return "upstream_auth_failed"
	case UpstreamError:
		return "upstream_error"
	case UpstreamProtocolError:
		return "upstream_protocol_error"
	case NoMatchingRecords:
		return "no_matching_records"
	case NotFound:
		return "not_found"
	default:
		return "internal"
	}
}

// Error carries a kind plus a human-readable message and the wrapped cause.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New creates an error with the given kind and message.
func New(kind Kind, msg string) error {
	return &Error{Kind: kind, Message: msg}
}

// Newf creates an error with the given kind and formatted message.
func Newf(kind Kind, format string, args ...any) error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap attaches a kind and message to an underlying error.
func Wrap(kind Kind, msg string, err error) error {
	return &Error{Kind: kind, Message: msg, Err: err}
}

// KindOf extracts the kind from err, defaulting to Internal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return Internal
}

// MessageOf extracts the message from err, or the error text for untyped
// errors.
func MessageOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind Kind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == kind
}
