package common

import (
	"errors"
	"fmt"
)

// Error kinds, one per failure class a caller can act on.
const (
	KindUnauthenticated = "UNAUTHENTICATED"
	KindAccessDenied    = "ACCESS_DENIED"
	KindNotFound        = "NOT_FOUND"
	KindInvalidState    = "INVALID_STATE"
	KindValidation      = "VALIDATION_ERROR"
)

// Error is a typed error carried from the service layer to the transport
// layer, which maps kinds to HTTP status codes.
type Error struct {
	Kind    string
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

func Unauthenticated() error {
	return &Error{Kind: KindUnauthenticated, Message: "no authenticated actor"}
}

func AccessDenied(message string) error {
	return &Error{Kind: KindAccessDenied, Message: message}
}

func NotFound(resource string) error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf("%s not found", resource)}
}

func InvalidState(message string) error {
	return &Error{Kind: KindInvalidState, Message: message}
}

func Validation(message string) error {
	return &Error{Kind: KindValidation, Message: message}
}

func Validationf(format string, args ...interface{}) error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

// KindOf returns the kind of err, or an empty string for untyped errors.
func KindOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

func IsKind(err error, kind string) bool {
	return KindOf(err) == kind
}
