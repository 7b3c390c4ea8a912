package apperror

import "errors"

// Kinds. Use errors.Is against these; the HTTP layer maps them to status codes.
var (
	ErrNotFound          = errors.New("not found")
	ErrUnauthorized      = errors.New("unauthorized")
	ErrForbidden         = errors.New("forbidden")
	ErrEligibilityDenied = errors.New("eligibility denied")
	ErrValidation        = errors.New("validation error")
	ErrConflict          = errors.New("conflict")
	ErrInvalidState      = errors.New("invalid state transition")
)

// Error carries a caller-facing message on top of one of the kinds above.
type Error struct {
	Kind    error
	Message string
}

func (e *Error) Error() string {
	if e.Message == "" {
		return e.Kind.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Kind
}

func New(kind error, message string) error {
	return &Error{Kind: kind, Message: message}
}

func NotFound(message string) error {
	return New(ErrNotFound, message)
}

func Forbidden(message string) error {
	return New(ErrForbidden, message)
}

func Validation(message string) error {
	return New(ErrValidation, message)
}

func Unauthorized(message string) error {
	return New(ErrUnauthorized, message)
}

func Conflict(message string) error {
	return New(ErrConflict, message)
}

func InvalidState(message string) error {
	return New(ErrInvalidState, message)
}
