package domain

import (
	"errors"
	"fmt"
)

type ErrorKind string

const (
	KindInvalidInput       ErrorKind = "INVALID_INPUT"
	KindValidation         ErrorKind = "VALIDATION"
	KindInsufficientStock  ErrorKind = "INSUFFICIENT_STOCK"
	KindInvalidTransition  ErrorKind = "INVALID_TRANSITION"
	KindConversion         ErrorKind = "CONVERSION"
	KindAlreadyPaid        ErrorKind = "ALREADY_PAID"
	KindNotFound           ErrorKind = "NOT_FOUND"
	KindPermissionDenied   ErrorKind = "PERMISSION_DENIED"
	KindStorageTimeout     ErrorKind = "STORAGE_TIMEOUT"
	KindStorageUnavailable ErrorKind = "STORAGE_UNAVAILABLE"
)

// Error is the typed error returned across the service boundary. Callers
// branch on Kind (or errors.Is against the sentinels below), never on Message.
type Error struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" {
		msg = string(e.Kind)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches any *Error of the same kind, so errors.Is(err, ErrNotFound)
// works regardless of message.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

var (
	ErrInvalidInput       = &Error{Kind: KindInvalidInput}
	ErrValidation         = &Error{Kind: KindValidation}
	ErrInsufficientStock  = &Error{Kind: KindInsufficientStock}
	ErrInvalidTransition  = &Error{Kind: KindInvalidTransition}
	ErrConversion         = &Error{Kind: KindConversion}
	ErrAlreadyPaid        = &Error{Kind: KindAlreadyPaid}
	ErrNotFound           = &Error{Kind: KindNotFound}
	ErrPermissionDenied   = &Error{Kind: KindPermissionDenied}
	ErrStorageTimeout     = &Error{Kind: KindStorageTimeout}
	ErrStorageUnavailable = &Error{Kind: KindStorageUnavailable}
)

func NewError(kind ErrorKind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func WrapError(kind ErrorKind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

func InvalidInput(format string, args ...any) *Error {
	return NewError(KindInvalidInput, format, args...)
}

func NotFound(entity, id string) *Error {
	return NewError(KindNotFound, "%s %s not found", entity, id)
}

// KindOf returns the kind of the first *Error in err's chain, or "" when the
// error is untyped.
func KindOf(err error) ErrorKind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return ""
}

// IsRetryable reports whether err is an infrastructure failure worth retrying.
// Business and validation errors are never retryable.
func IsRetryable(err error) bool {
	switch KindOf(err) {
	case KindStorageTimeout, KindStorageUnavailable:
		return true
	}
	return false
}
