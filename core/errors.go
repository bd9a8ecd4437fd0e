package core

import (
	"fmt"

	"github.com/pkg/errors"
)

// FieldError is used to indicate an error with a specific struct field.
type FieldError struct {
	Field string
	Error string
}

// ValidationError is a client input error. It is rendered as a 400 response.
type ValidationError struct {
	Err    error
	Fields []FieldError
}

func NewValidationError(err error, flds ...FieldError) error {
	return &ValidationError{err, flds}
}

func (err ValidationError) Error() string {
	if err.Err == nil {
		if len(err.Fields) > 0 {
			return err.Fields[0].Field + ": " + err.Fields[0].Error
		}
		return ""
	}
	return err.Err.Error()
}

// IntegrityError reports stored data that violates an invariant (e.g. a malformed period time).
// Unlike ValidationError it is not the client's fault, but its message is safe to expose.
type IntegrityError struct {
	Entity string
	ID     string
	Err    error
}

func NewIntegrityError(entity, id string, err error) error {
	return &IntegrityError{Entity: entity, ID: id, Err: err}
}

func (err IntegrityError) Error() string {
	return fmt.Sprintf("data integrity: %s %s: %v", err.Entity, err.ID, err.Err)
}

func (err IntegrityError) Unwrap() error { return err.Err }

type shutdown struct {
	message string
}

func NewShutdownError(msg string) error {
	return &shutdown{message: msg}
}

func (s shutdown) Error() string {
	return s.message
}

func IsShutdown(err error) bool {
	_, ok := errors.Cause(err).(*shutdown)
	return ok
}
