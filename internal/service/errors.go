package service

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
)

type ErrorKind string

const (
	KindNotFound              ErrorKind = "not_found"
	KindAlreadyFinalized      ErrorKind = "already_finalized"
	KindInvalidState          ErrorKind = "invalid_state"
	KindThresholdTableMissing ErrorKind = "threshold_table_missing"
	KindDependencyUnavailable ErrorKind = "dependency_unavailable"
	KindForbidden             ErrorKind = "forbidden"
	KindInvalidInput          ErrorKind = "invalid_input"
)

// Error is the typed error every service operation returns.
type Error struct {
	Kind    ErrorKind
	Message string
	Err     error
}

// Sentinels for errors.Is; they match any Error of the same kind.
var (
	ErrNotFound              = &Error{Kind: KindNotFound}
	ErrAlreadyFinalized      = &Error{Kind: KindAlreadyFinalized}
	ErrInvalidState          = &Error{Kind: KindInvalidState}
	ErrThresholdTableMissing = &Error{Kind: KindThresholdTableMissing}
	ErrDependencyUnavailable = &Error{Kind: KindDependencyUnavailable}
	ErrForbidden             = &Error{Kind: KindForbidden}
	ErrInvalidInput          = &Error{Kind: KindInvalidInput}
)

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

func (e *Error) Unwrap() error { return e.Err }

func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// Retryable reports whether the caller may try the same request again.
func (e *Error) Retryable() bool {
	return e.Kind == KindDependencyUnavailable
}

func newError(kind ErrorKind, msg string, err error) *Error {
	return &Error{Kind: kind, Message: msg, Err: err}
}

// KindOf returns the kind of err, or "" when err is not a service Error.
func KindOf(err error) ErrorKind {
	var se *Error
	if errors.As(err, &se) {
		return se.Kind
	}
	return ""
}

// storeError classifies a repository failure. Missing rows are NotFound;
// everything else, timeouts included, is a retryable dependency failure.
func storeError(what string, err error) *Error {
	var se *Error
	if errors.As(err, &se) {
		return se
	}
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return newError(KindNotFound, what+" not found", err)
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return newError(KindDependencyUnavailable, what+": store timed out", err)
	default:
		return newError(KindDependencyUnavailable, what+": store unavailable", err)
	}
}
