package store

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrorCategory tags the kind of failure a store or runtime operation
// produced, so callers can branch on category without string matching.
type ErrorCategory uint8

const (
	CategoryUnknown ErrorCategory = iota
	CategoryLexingError
	CategoryParsingError
	CategoryBuildError
	CategoryTypeMismatch
	CategoryStackUnderflow
	CategoryCapacityExceeded
	CategoryNumeric
	CategoryUnsupportedOpTypes
	CategoryStateError
	CategoryDuplicateExpression
)

var categoryNames = map[ErrorCategory]string{
	CategoryUnknown:             "Unknown",
	CategoryLexingError:         "LexingError",
	CategoryParsingError:        "ParsingError",
	CategoryBuildError:          "BuildError",
	CategoryTypeMismatch:        "TypeMismatch",
	CategoryStackUnderflow:      "StackUnderflow",
	CategoryCapacityExceeded:    "CapacityExceeded",
	CategoryNumeric:             "Numeric",
	CategoryUnsupportedOpTypes:  "UnsupportedOpTypes",
	CategoryStateError:          "StateError",
	CategoryDuplicateExpression: "DuplicateExpression",
}

func (c ErrorCategory) String() string {
	if s, ok := categoryNames[c]; ok {
		return s
	}
	return "Unknown"
}

// Error is a categorized error produced by the data store or VM runtime.
type Error struct {
	Category ErrorCategory
	cause    error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Category, e.cause)
}

func (e *Error) Unwrap() error { return e.cause }

// NewError builds a categorized error, wrapping msg with a stack trace via
// github.com/pkg/errors so diagnostics can recover the call site.
func NewError(category ErrorCategory, msg string) *Error {
	return &Error{Category: category, cause: errors.New(msg)}
}

// NewErrorf is NewError with fmt.Sprintf-style formatting.
func NewErrorf(category ErrorCategory, format string, args ...any) *Error {
	return &Error{Category: category, cause: errors.Errorf(format, args...)}
}

// Is reports whether err carries the given category.
func Is(err error, category ErrorCategory) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Category == category
	}
	return false
}
