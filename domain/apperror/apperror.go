// Package apperror defines the error taxonomy shared by the todo and account
// modules, together with the wire form used across request-reply services.
package apperror

import (
	"errors"
	"fmt"
)

// Kind classifies a domain failure.
type Kind string

const (
	KindValidation   Kind = "validation"
	KindNotFound     Kind = "not_found"
	KindConflict     Kind = "conflict"
	KindUnauthorized Kind = "unauthorized"
)

var (
	// ErrValidation matches any validation failure via errors.Is.
	ErrValidation = &Error{Kind: KindValidation, Message: "validation failed"}
	// ErrNotFound matches any missing or malformed resource via errors.Is.
	ErrNotFound = &Error{Kind: KindNotFound, Message: "not found"}
	// ErrConflict matches uniqueness violations via errors.Is.
	ErrConflict = &Error{Kind: KindConflict, Message: "conflict"}
	// ErrUnauthorized matches authentication failures via errors.Is.
	ErrUnauthorized = &Error{Kind: KindUnauthorized, Message: "unauthorized"}
)

// Error is a classified domain failure. Fields carries per-field messages
// for validation and conflict failures.
type Error struct {
	Kind    Kind
	Message string
	Fields  map[string]string
}

func (e *Error) Error() string {
	if len(e.Fields) == 0 {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Fields)
}

// Is reports whether target is an *Error of the same kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// Validation returns a validation error with optional per-field messages.
func Validation(message string, fields map[string]string) *Error {
	return &Error{Kind: KindValidation, Message: message, Fields: fields}
}

// NotFound returns a not-found error.
func NotFound(message string) *Error {
	return &Error{Kind: KindNotFound, Message: message}
}

// Conflict returns a conflict error for the given field.
func Conflict(field, message string) *Error {
	return &Error{Kind: KindConflict, Message: message, Fields: map[string]string{field: message}}
}

// Unauthorized returns an authentication error.
func Unauthorized(message string) *Error {
	return &Error{Kind: KindUnauthorized, Message: message}
}

// Fault is the JSON form of an *Error carried inside request-reply responses.
type Fault struct {
	Kind    Kind              `json:"kind"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

// ToFault converts a domain error into its wire form. It returns nil when err
// is not a classified domain error; such errors travel as transport errors.
func ToFault(err error) *Fault {
	var appErr *Error
	if !errors.As(err, &appErr) {
		return nil
	}
	return &Fault{Kind: appErr.Kind, Message: appErr.Message, Fields: appErr.Fields}
}

// Err converts the fault back into an *Error. A nil fault yields nil.
func (f *Fault) Err() error {
	if f == nil {
		return nil
	}
	return &Error{Kind: f.Kind, Message: f.Message, Fields: f.Fields}
}
