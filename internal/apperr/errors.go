package apperr

import (
	"context"
	"errors"
	"fmt"
)

// Kind classifies a failure so the HTTP boundary can map it to a stable status.
type Kind int

const (
	KindStorage Kind = iota
	KindNotFound
	KindNotAuthorized
	KindForbidden
	KindConflict
	KindBadRequest
	KindServer
	KindTimeout
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindNotAuthorized:
		return "not_authorized"
	case KindForbidden:
		return "forbidden"
	case KindConflict:
		return "conflict"
	case KindBadRequest:
		return "bad_request"
	case KindServer:
		return "server_error"
	case KindTimeout:
		return "timeout"
	default:
		return "storage_error"
	}
}

// Error is the typed failure returned by services and the auth guard.
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

func NotFound(message string) *Error {
	return &Error{Kind: KindNotFound, Message: message}
}

func NotAuthorized(message string) *Error {
	return &Error{Kind: KindNotAuthorized, Message: message}
}

func Forbidden(message string) *Error {
	return &Error{Kind: KindForbidden, Message: message}
}

func Conflict(message string) *Error {
	return &Error{Kind: KindConflict, Message: message}
}

func BadRequest(message string) *Error {
	return &Error{Kind: KindBadRequest, Message: message}
}

// Server wraps a credential subsystem failure.
func Server(message string, err error) *Error {
	return &Error{Kind: KindServer, Message: message, Err: err}
}

// Storage wraps a data engine failure. The wrapped detail is for logs only.
func Storage(err error) *Error {
	return &Error{Kind: KindStorage, Message: "storage failure", Err: err}
}

// Timeout reports an operation that ran out of time; clients may retry.
func Timeout(message string, err error) *Error {
	return &Error{Kind: KindTimeout, Message: message, Err: err}
}

// As extracts the typed error from a chain.
func As(err error) (*Error, bool) {
	var target *Error
	if errors.As(err, &target) {
		return target, true
	}
	return nil, false
}

// KindOf returns the kind of err. Untyped errors count as storage failures,
// except context deadline errors which are timeouts.
func KindOf(err error) Kind {
	if e, ok := As(err); ok {
		return e.Kind
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return KindTimeout
	}
	return KindStorage
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}
