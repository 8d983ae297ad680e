package csv

import (
	"fmt"

	"github.com/shapestone/shape-csvjson/internal/parser"
)

// ErrorKind classifies structural errors.
type ErrorKind = parser.ErrorKind

const (
	// ErrorInvalidState indicates an internal inconsistency of the parser.
	ErrorInvalidState = parser.ErrorInvalidState
	// ErrorInvalidCSVText indicates a quoted field outside header or data.
	ErrorInvalidCSVText = parser.ErrorInvalidCSVText
	// ErrorUnexpectedEOF indicates the input ended in an unterminated state.
	ErrorUnexpectedEOF = parser.ErrorUnexpectedEOF
)

// Common parsing errors, matched with errors.Is against a *ParseError.
var (
	ErrInvalidState   = parser.ErrInvalidState
	ErrInvalidCSVText = parser.ErrInvalidCSVText
	ErrUnexpectedEOF  = parser.ErrUnexpectedEOF
)

// ParseError represents a structural error with position information.
//
// Malformed values in typed columns are never parse errors: they fall back
// to the column default or null and are reported to WarningCallback.
type ParseError = parser.ParseError

// ErrorHandler decides what happens on a structural error. Returning a
// non-nil error aborts parsing with that error.
type ErrorHandler = parser.ErrorHandler

// ErrorHandlerFunc adapts a function to the ErrorHandler interface.
type ErrorHandlerFunc = parser.ErrorHandlerFunc

// WarningHandler is a callback function for logging warnings.
type WarningHandler func(line int, message string)

// ErrorMode specifies how structural errors are handled when no
// ErrorHandler is configured.
type ErrorMode int

const (
	// ErrorModeAbort stops parsing and returns a *ParseError (default).
	ErrorModeAbort ErrorMode = iota
	// ErrorModeWarn reports the error to WarningCallback and continues.
	ErrorModeWarn
	// ErrorModeIgnore silently continues.
	ErrorModeIgnore
)

// String returns the string representation of ErrorMode.
func (m ErrorMode) String() string {
	switch m {
	case ErrorModeAbort:
		return "abort"
	case ErrorModeWarn:
		return "warn"
	case ErrorModeIgnore:
		return "ignore"
	default:
		return fmt.Sprintf("ErrorMode(%d)", m)
	}
}

// ParseErrorMode parses an error mode name.
func ParseErrorMode(name string) (ErrorMode, error) {
	switch name {
	case "abort", "error", "":
		return ErrorModeAbort, nil
	case "warn":
		return ErrorModeWarn, nil
	case "ignore", "skip":
		return ErrorModeIgnore, nil
	default:
		return 0, &OptionsError{Field: "OnError", Message: fmt.Sprintf("unknown error mode %q", name)}
	}
}

// errorHandler resolves the ErrorHandler implied by the options.
func (o Options) errorHandler() ErrorHandler {
	if o.ErrorHandler != nil {
		return o.ErrorHandler
	}
	switch o.OnError {
	case ErrorModeWarn:
		warn := o.WarningCallback
		return ErrorHandlerFunc(func(kind ErrorKind, line, column int) error {
			if warn != nil {
				warn(line, (&ParseError{Kind: kind, Line: line, Column: column}).Error())
			}
			return nil
		})
	case ErrorModeIgnore:
		return parser.IgnoreErrors
	default:
		return parser.DefaultErrorHandler
	}
}
