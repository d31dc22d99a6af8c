package errs

import (
	"errors"
	"fmt"
)

// Kind classifies an error so callers can branch on the category
// without parsing messages.
type Kind int

const (
	Internal Kind = iota
	NotFound
	AccessDenied
	InvalidOperation
	CipherFailure
	Conflict
)

// String returns a human-readable name for the kind
func (k Kind) String() string {
	switch k {
	case NotFound:
		return "not_found"
	case AccessDenied:
		return "access_denied"
	case InvalidOperation:
		return "invalid_operation"
	case CipherFailure:
		return "cipher_failure"
	case Conflict:
		return "conflict"
	default:
		return "internal"
	}
}

// Error is a classified error with a stable, user-visible message
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the wrapped cause, if any
func (e *Error) Unwrap() error {
	return e.Err
}

// New creates a classified error with a fixed message
func New(kind Kind, message string) error {
	return &Error{Kind: kind, Message: message}
}

// Newf creates a classified error with a formatted message
func Newf(kind Kind, format string, args ...interface{}) error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap attaches a kind and message to an underlying cause
func Wrap(kind Kind, message string, err error) error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// KindOf extracts the kind from an error chain; unclassified errors
// are reported as Internal
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return Internal
}

// MessageOf returns the stable message of a classified error, or a
// generic message for unclassified faults so internal details never
// leak to clients
func MessageOf(err error) string {
	var e *Error
	if errors.As(err, &e) && e.Kind != Internal && e.Kind != CipherFailure {
		return e.Message
	}
	return "An internal server error occurred. Please contact support."
}

// IsRetryable reports whether the operation is safe to retry as-is
func IsRetryable(err error) bool {
	return KindOf(err) == Conflict
}
