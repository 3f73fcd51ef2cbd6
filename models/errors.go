package models

import (
	"errors"
	"fmt"
)

// Error kinds, matched with errors.Is
var (
	ErrValidation  = errors.New("validation error")
	ErrNotFound    = errors.New("not found")
	ErrPersistence = errors.New("persistence error")
	ErrTransport   = errors.New("transport error")
)

// Error is the error type surfaced to callers and published on the error stream
type Error struct {
	Kind    error
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() []error {
	errs := []error{e.Kind}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	return errs
}

func NewValidationError(message string) *Error {
	return &Error{Kind: ErrValidation, Message: message}
}

func NewNotFoundError(message string) *Error {
	return &Error{Kind: ErrNotFound, Message: message}
}

func NewPersistenceError(message string, err error) *Error {
	return &Error{Kind: ErrPersistence, Message: message, Err: err}
}

func NewTransportError(message string, err error) *Error {
	return &Error{Kind: ErrTransport, Message: message, Err: err}
}

// Common validation messages
const (
	MsgNameEmpty    = "Name cannot be empty."
	MsgEmailEmpty   = "Email cannot be empty."
	MsgEmailInvalid = "Invalid email format."
	MsgEmailTaken   = "Email is already taken."
	MsgUserNotFound = "User not found"
)

// KindName returns a stable name for the kind of err
func KindName(err error) string {
	switch {
	case errors.Is(err, ErrValidation):
		return "validation"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrPersistence):
		return "persistence"
	case errors.Is(err, ErrTransport):
		return "transport"
	default:
		return "unknown"
	}
}
