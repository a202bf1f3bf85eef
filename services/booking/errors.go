package booking

import "fmt"

// Rejection codes shared across the booking core and its admin consumers.
const (
	CodeNotFound     = "notFound"
	CodeInvalidState = "invalidState"
	CodeUnauthorized = "unauthorized"
	CodeInternal     = "internal"
)

// Error is a domain rejection with a machine-readable code and a reason
// specific enough to drive UI messaging.
type Error struct {
	Code    string
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func NewNotFoundError(msg string) error {
	return &Error{Code: CodeNotFound, Message: msg}
}

func NewInvalidStateError(msg string) error {
	return &Error{Code: CodeInvalidState, Message: msg}
}

func NewInternalError(msg string) error {
	return &Error{Code: CodeInternal, Message: msg}
}
