package errors

import (
	"errors"
	"fmt"
)

var (
	ErrValidation         = errors.New("validation failed")
	ErrNotFound           = errors.New("not found")
	ErrAlreadyExists      = errors.New("already exists")
	ErrOrderNotFound      = fmt.Errorf("order %w", ErrNotFound)
	ErrInvalidTransition  = errors.New("invalid status transition")
	ErrTillAlreadyOpen    = errors.New("till already open")
	ErrTillNotOpen        = errors.New("till not open")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrForbidden          = errors.New("forbidden")
	ErrPrint              = errors.New("print dispatch failed")
	ErrTrackingExhausted  = errors.New("no free tracking code")
)

// ValidationError names the offending input field.
type ValidationError struct {
	Field  string
	Reason string
}

// Validation builds a ValidationError for field.
func Validation(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// TransitionError reports a rejected status change.
type TransitionError struct {
	Current   string
	Requested string
	Actor     string
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("invalid status transition %s -> %s by %s", e.Current, e.Requested, e.Actor)
}

func (e *TransitionError) Unwrap() error { return ErrInvalidTransition }

// PrintError wraps a sink failure. It is a warning for the caller: the
// operation it accompanied has already been committed.
type PrintError struct {
	Printer string
	Err     error
}

func (e *PrintError) Error() string {
	if e.Printer == "" {
		return fmt.Sprintf("print: %v", e.Err)
	}
	return fmt.Sprintf("print on %s: %v", e.Printer, e.Err)
}

func (e *PrintError) Unwrap() []error { return []error{ErrPrint, e.Err} }
