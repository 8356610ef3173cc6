package iam

import (
	"errors"
	"fmt"
)

// Common engine errors.
var (
	// ErrInvalidFormat indicates that a resource address does not start
	// with the required "arn:" prefix.
	ErrInvalidFormat = errors.New(`resource address must start with "arn:"`)

	// ErrTooManySegments indicates that a resource address carries more
	// than six colon-delimited fields after the prefix.
	ErrTooManySegments = errors.New("resource address has more than six fields")
)

// ParseError indicates that identifier or resource address text could
// not be parsed. It is always surfaced to the caller; parse failures
// are hard errors, never silently defaulted.
type ParseError struct {
	// Field is the resource address field being parsed, if any.
	Field string

	// Input is the text that failed to parse.
	Input string

	// Err is the underlying error.
	Err error
}

// Error returns the error message.
func (e *ParseError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("parse %s %q: %v", e.Field, e.Input, e.Err)
	}
	return fmt.Sprintf("parse %q: %v", e.Input, e.Err)
}

// Unwrap returns the underlying error.
func (e *ParseError) Unwrap() error {
	return e.Err
}

// PatternError indicates that a wildcard-side value is not a
// syntactically valid pattern.
type PatternError struct {
	// Pattern is the pattern text that failed to compile.
	Pattern string

	// Err is the underlying compile error.
	Err error
}

// Error returns the error message.
func (e *PatternError) Error() string {
	return fmt.Sprintf("invalid pattern %q: %v", e.Pattern, e.Err)
}

// Unwrap returns the underlying error.
func (e *PatternError) Unwrap() error {
	return e.Err
}

// SchemaError indicates that a policy or statement document is
// malformed: an unknown field, a missing required field, or a value of
// the wrong shape.
type SchemaError struct {
	// Err is the underlying decode error.
	Err error
}

// Error returns the error message.
func (e *SchemaError) Error() string {
	return fmt.Sprintf("policy schema: %v", e.Err)
}

// Unwrap returns the underlying error.
func (e *SchemaError) Unwrap() error {
	return e.Err
}

// IsInvalidFormat checks if an error is a missing-prefix address error.
func IsInvalidFormat(err error) bool {
	return errors.Is(err, ErrInvalidFormat)
}

// IsParseError checks if an error is a parse error.
func IsParseError(err error) bool {
	var pe *ParseError
	return errors.As(err, &pe)
}

// IsPatternError checks if an error is a pattern compile error.
func IsPatternError(err error) bool {
	var pe *PatternError
	return errors.As(err, &pe)
}

// IsSchemaError checks if an error is a schema error.
func IsSchemaError(err error) bool {
	var se *SchemaError
	return errors.As(err, &se)
}
