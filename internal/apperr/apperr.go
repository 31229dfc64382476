package apperr

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
)

var (
	// ErrNotFound is returned when no record matches the requested id.
	ErrNotFound = New(fiber.StatusNotFound, "resource not found")

	// ErrInvalid covers malformed input and writes the store refused.
	ErrInvalid = New(fiber.StatusBadRequest, "invalid request")

	// ErrUnsupportedMedia rejects request bodies in a format the API does not read.
	ErrUnsupportedMedia = New(fiber.StatusUnsupportedMediaType, "unsupported content type")

	// ErrInternal covers unreachable stores and failed disk writes.
	ErrInternal = New(fiber.StatusInternalServerError, "internal server error occurred")
)

// Error carries the HTTP status a failure maps to and the message shown to the client.
type Error struct {
	Status  int
	Message string
	cause   error
}

func New(status int, message string) *Error {
	return &Error{Status: status, Message: message}
}

// Msg returns a copy with a new message; the receiver is left untouched.
func (e Error) Msg(format string, parts ...any) *Error {
	e.Message = fmt.Sprintf(format, parts...)
	return &e
}

// Wrap returns a copy that remembers the underlying cause for logging.
func (e Error) Wrap(cause error) *Error {
	e.cause = cause
	return &e
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%d: %s: %v", e.Status, e.Message, e.cause)
	}
	return fmt.Sprintf("%d: %s", e.Status, e.Message)
}

func (e *Error) Unwrap() error { return e.cause }
