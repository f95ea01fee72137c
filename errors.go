package main

import (
	"errors"
	"fmt"
)

// Failure kinds; every evaluation failure wraps exactly one of these, so
// callers may classify with errors.Is.
var (
	ErrStackUnderflow = errors.New("stack underflow")
	ErrUnbound        = errors.New("invalid token")
	ErrMalformed      = errors.New("malformed special form")
	ErrStorage        = errors.New("storage mismatch")
	ErrNoReference    = errors.New("no variable reference")
	ErrDivideByZero   = errors.New("division by zero")
	ErrTooDeep        = errors.New("evaluation too deep")
)

type evalError struct {
	kind error
	mess string
}

func (err evalError) Error() string { return err.mess }
func (err evalError) Unwrap() error { return err.kind }

func underflowError(mess string) error { return evalError{ErrStackUnderflow, mess} }

func malformedf(mess string, args ...interface{}) error {
	return evalError{ErrMalformed, fmt.Sprintf(mess, args...)}
}

func storagef(mess string, args ...interface{}) error {
	return evalError{ErrStorage, fmt.Sprintf(mess, args...)}
}

type unboundError string

func (tok unboundError) Error() string { return fmt.Sprintf("invalid token: %v", string(tok)) }
func (tok unboundError) Unwrap() error { return ErrUnbound }

// abortError unwinds every evaluation frame, rather than just the current one.
type abortError struct{ error }

func (err abortError) Unwrap() error { return err.error }
