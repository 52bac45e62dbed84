package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind tags an application error. Its String value is the wire error code.
type Kind int

const (
	KindInternal Kind = iota
	KindInput
	KindAuth
	KindDB
	KindRateLimit
)

func (k Kind) String() string {
	switch k {
	case KindInput:
		return "InputError"
	case KindAuth:
		return "AuthError"
	case KindDB:
		return "DBError"
	case KindRateLimit:
		return "RateLimitError"
	default:
		return "InternalError"
	}
}

// Error is the single error type crossing the service/handler boundary.
type Error struct {
	Kind    Kind
	Status  int
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

func (e *Error) Code() string { return e.Kind.String() }

// Input reports caller-supplied data that is invalid, or a resource outside the
// caller's permitted view.
func Input(message string) *Error {
	return &Error{Kind: KindInput, Status: http.StatusBadRequest, Message: message}
}

// Inputf is Input with formatting.
func Inputf(format string, args ...any) *Error {
	return Input(fmt.Sprintf(format, args...))
}

// Auth reports a missing or incorrect credential or session.
func Auth(message string) *Error {
	return &Error{Kind: KindAuth, Status: http.StatusUnauthorized, Message: message}
}

// RateLimited reports a client that exceeded its request budget.
func RateLimited(message string) *Error {
	return &Error{Kind: KindRateLimit, Status: http.StatusTooManyRequests, Message: message}
}

func Internal(err error) *Error {
	return &Error{Kind: KindInternal, Status: http.StatusInternalServerError, Message: "Internal server error", Err: err}
}

// From returns err as *Error, classifying anything unknown as internal.
func From(err error) *Error {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}
	return Internal(err)
}

// IsKind reports whether err is an *Error of the given kind.
func IsKind(err error, kind Kind) bool {
	var appErr *Error
	return errors.As(err, &appErr) && appErr.Kind == kind
}
