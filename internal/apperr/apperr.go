// Package apperr classifies failures so callers can branch on what went wrong
// rather than on message text.
package apperr

import (
	"errors"
	"fmt"
)

// Kind identifies a class of failure
type Kind string

const (
	ValidationKind     Kind = "validation"
	DuplicateLikeKind  Kind = "duplicate_like"
	InvalidPayloadKind Kind = "invalid_payload"
	InvalidBodyKind    Kind = "invalid_body"
	StorageKind        Kind = "storage"
	TimeoutKind        Kind = "timeout"
	NotFoundKind       Kind = "not_found"
)

// Error is a classified failure. Field names the offending input, when known.
type Error struct {
	Kind    Kind
	Message string
	Field   string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New creates a classified error
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Wrap classifies err under kind
func Wrap(kind Kind, err error, message string) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// Validation creates a ValidationKind error for field
func Validation(field, message string) *Error {
	return &Error{Kind: ValidationKind, Message: message, Field: field}
}

// KindOf returns the kind of the first classified error in err's chain, or "".
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// Is reports whether err carries kind
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// Message returns the user-facing message of a classified error, or err.Error().
func Message(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}
