package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies failures surfaced to callers. Every kind requires caller
// correction; none is retried automatically.
type Kind string

const (
	KindValidation      Kind = "validation"
	KindNotFound        Kind = "not_found"
	KindInvalidRange    Kind = "invalid_range"
	KindPastDate        Kind = "past_date"
	KindConflict        Kind = "conflict"
	KindForbidden       Kind = "forbidden"
	KindUnauthorized    Kind = "unauthorized"
	KindPaymentDeclined Kind = "payment_declined"
)

// Error is a kinded, human-readable failure.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches another *Error by kind and message so package-level sentinels
// keep working after Wrap.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind && e.Message == t.Message
}

func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func Newf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap attaches a kind and message to an underlying cause.
func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

func Validation(message string) *Error   { return New(KindValidation, message) }
func NotFound(message string) *Error     { return New(KindNotFound, message) }
func InvalidRange(message string) *Error { return New(KindInvalidRange, message) }
func PastDate(message string) *Error     { return New(KindPastDate, message) }
func Conflict(message string) *Error     { return New(KindConflict, message) }
func Forbidden(message string) *Error    { return New(KindForbidden, message) }
func Unauthorized(message string) *Error { return New(KindUnauthorized, message) }

// KindOf returns the kind of the first *Error in the chain, or "" when err
// carries none.
func KindOf(err error) Kind {
	var target *Error
	if errors.As(err, &target) {
		return target.Kind
	}
	return ""
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// Message returns the human-readable message of a kinded error, falling back
// to err.Error().
func Message(err error) string {
	var target *Error
	if errors.As(err, &target) {
		return target.Message
	}
	if err == nil {
		return ""
	}
	return err.Error()
}
