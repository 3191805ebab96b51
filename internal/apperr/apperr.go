package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

type Kind int

const (
	KindInternal Kind = iota
	KindUnauthenticated
	KindNotFound
	KindInvalidInput
	KindUnprocessable
	KindUpstream
	KindUnavailable
)

// Error carries a public message. Cause is logged, never sent to clients.
type Error struct {
	Kind    Kind
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Cause }

// Is matches on kind and message so callers can compare against
// constructor results: errors.Is(err, apperr.NotFound("event")).
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && t.Message == e.Message
}

var ErrUnauthenticated = &Error{Kind: KindUnauthenticated, Message: "unauthorized"}

func NotFound(what string) *Error {
	return &Error{Kind: KindNotFound, Message: what + " not found"}
}

func Invalid(msg string) *Error {
	return &Error{Kind: KindInvalidInput, Message: msg}
}

func Unprocessable(msg string) *Error {
	return &Error{Kind: KindUnprocessable, Message: msg}
}

func Upstream(msg string, cause error) *Error {
	return &Error{Kind: KindUpstream, Message: msg, Cause: cause}
}

// Unavailable marks a feature the server is not configured to provide.
func Unavailable(msg string) *Error {
	return &Error{Kind: KindUnavailable, Message: msg}
}

func Internal(cause error) *Error {
	return &Error{Kind: KindInternal, Message: "internal server error", Cause: cause}
}

func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

func Is(err error, k Kind) bool {
	return err != nil && KindOf(err) == k
}

// StatusOf maps an error to its HTTP status. Unknown errors are 500.
func StatusOf(err error) int {
	switch KindOf(err) {
	case KindUnauthenticated:
		return http.StatusUnauthorized
	case KindNotFound:
		return http.StatusNotFound
	case KindInvalidInput:
		return http.StatusBadRequest
	case KindUnprocessable:
		return http.StatusUnprocessableEntity
	case KindUpstream:
		return http.StatusBadGateway
	case KindUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// PublicMessage is the only error text that may reach a client.
func PublicMessage(err error) string {
	var e *Error
	if errors.As(err, &e) && e.Kind != KindInternal {
		return e.Message
	}
	return "internal server error"
}
