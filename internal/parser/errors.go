package parser

import (
	"errors"
	"fmt"
)

// ErrorKind classifies structural errors reported by the transducer.
// Malformed scalar text is never an error; it falls back to defaults.
type ErrorKind uint8

const (
	// ErrorInvalidState means dispatch reached a state that consumes no
	// characters. It indicates a bug, not malformed input.
	ErrorInvalidState ErrorKind = iota + 1
	// ErrorInvalidCSVText means a quoted field was finalized outside the
	// header or data modes.
	ErrorInvalidCSVText
	// ErrorUnexpectedEOF means the mode stack did not unwind at end of input.
	ErrorUnexpectedEOF
)

// Sentinel errors matching each ErrorKind, for use with errors.Is.
var (
	ErrInvalidState   = errors.New("invalid parser state")
	ErrInvalidCSVText = errors.New("invalid CSV text")
	ErrUnexpectedEOF  = errors.New("unexpected end of input")
)

// Err returns the sentinel error for the kind.
func (k ErrorKind) Err() error {
	switch k {
	case ErrorInvalidState:
		return ErrInvalidState
	case ErrorInvalidCSVText:
		return ErrInvalidCSVText
	case ErrorUnexpectedEOF:
		return ErrUnexpectedEOF
	default:
		return fmt.Errorf("unknown error kind %d", uint8(k))
	}
}

// String returns the kind name.
func (k ErrorKind) String() string {
	switch k {
	case ErrorInvalidState:
		return "invalid_state"
	case ErrorInvalidCSVText:
		return "invalid_csv_text"
	case ErrorUnexpectedEOF:
		return "unexpected_eof"
	default:
		return fmt.Sprintf("ErrorKind(%d)", uint8(k))
	}
}

// ParseError is a structural error with the position where it was detected.
type ParseError struct {
	Kind   ErrorKind
	Line   int
	Column int
}

// Error returns a formatted error message with position information.
func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error on line %d, column %d: %v", e.Line, e.Column, e.Kind.Err())
}

// Unwrap returns the sentinel error of the kind.
func (e *ParseError) Unwrap() error {
	return e.Kind.Err()
}

// ErrorHandler decides what happens when a structural error is detected.
// Returning a non-nil error aborts the parse with that error; returning nil
// lets parsing continue.
type ErrorHandler interface {
	Error(kind ErrorKind, line, column int) error
}

// ErrorHandlerFunc adapts a function to the ErrorHandler interface.
type ErrorHandlerFunc func(kind ErrorKind, line, column int) error

// Error calls f.
func (f ErrorHandlerFunc) Error(kind ErrorKind, line, column int) error {
	return f(kind, line, column)
}

// DefaultErrorHandler aborts on every error with a *ParseError.
var DefaultErrorHandler ErrorHandler = ErrorHandlerFunc(func(kind ErrorKind, line, column int) error {
	return &ParseError{Kind: kind, Line: line, Column: column}
})

// IgnoreErrors is an ErrorHandler that lets parsing continue on every error.
var IgnoreErrors ErrorHandler = ErrorHandlerFunc(func(ErrorKind, int, int) error {
	return nil
})
