// Package domainerr carries the structured error codes the API reports to clients.
package domainerr

import (
	"errors"
	"fmt"
)

// Error codes. Clients branch on these instead of on message text.
const (
	CodeSelfBooking       = "SELF_BOOKING"
	CodeAlreadyBooked     = "ALREADY_BOOKED"
	CodeInvalidStatus     = "INVALID_STATUS"
	CodeInvalidTransition = "INVALID_TRANSITION"
	CodeValidation        = "VALIDATION_FAILED"
	CodeForbidden         = "FORBIDDEN"
	CodeNotFound          = "NOT_FOUND"
)

// Error is a user-presentable failure of a business rule.
type Error struct {
	Code    string
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// New returns an *Error with the given code and message.
func New(code, message string) error {
	return &Error{Code: code, Message: message}
}

// Code returns err's code, or "" when err is not a domain error.
func Code(err error) string {
	var de *Error
	if errors.As(err, &de) {
		return de.Code
	}
	return ""
}

// Is reports whether err is a domain error with the given code.
func Is(err error, code string) bool {
	return code != "" && Code(err) == code
}

var (
	ErrSelfBooking   = New(CodeSelfBooking, "You cannot book your own service")
	ErrAlreadyBooked = New(CodeAlreadyBooked,
		"You have already booked this service. You cannot book the same service multiple times.")
	ErrForbidden = New(CodeForbidden, "Unauthorized access")
)

// NotFound reports a missing resource of the given kind.
func NotFound(kind string) error {
	return New(CodeNotFound, kind+" not found")
}

// Validation reports a missing or malformed field.
func Validation(message string) error {
	return New(CodeValidation, message)
}
