// Package errors provides standardized error types and helpers for the
// vmr2tei codebase.
package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors for common cases
var (
	// ErrNotFound indicates a resource was not found
	ErrNotFound = errors.New("not found")
	// ErrInvalidInput indicates invalid input or validation failure
	ErrInvalidInput = errors.New("invalid input")
	// ErrCacheMiss indicates the response cache held no fresh entry
	ErrCacheMiss = errors.New("cache miss")
)

// MissingAttributeError reports a segmentReading lacking a required
// attribute. It identifies the offending unit and reading so a whole
// conversion never fails anonymously.
type MissingAttributeError struct {
	Unit      string // composite unit id (verse, plus word segments)
	Reading   string // reading label, if any
	Attribute string // the missing attribute name
}

func (e *MissingAttributeError) Error() string {
	if e.Reading != "" {
		return fmt.Sprintf("unit %s reading %s: missing required attribute %q", e.Unit, e.Reading, e.Attribute)
	}
	return fmt.Sprintf("unit %s: missing required attribute %q", e.Unit, e.Attribute)
}

func (e *MissingAttributeError) Unwrap() error {
	return ErrInvalidInput
}

// IndexError reports a malformed NTVMR content index.
type IndexError struct {
	Index   string // the index string as given
	Message string // what was wrong with it
	Err     error  // underlying error, if any
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("invalid content index %q: %s", e.Index, e.Message)
}

func (e *IndexError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return ErrInvalidInput
}

// HTTPError represents a non-success HTTP response from the NTVMR API.
type HTTPError struct {
	StatusCode int
	Status     string
	URL        string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("HTTP error: %s", e.Status)
}

// ParseError represents a parsing or deserialization error.
type ParseError struct {
	Format  string // format being parsed (e.g. "VMR XML", "config")
	Path    string // file path or URL, if applicable
	Message string // error details
	Err     error  // underlying error, if any
}

func (e *ParseError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("failed to parse %s at %s: %s", e.Format, e.Path, e.Message)
	}
	return fmt.Sprintf("failed to parse %s: %s", e.Format, e.Message)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Is reports whether target matches err, delegating to the standard
// library so callers need only one errors import.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As delegates to the standard library errors.As.
func As(err error, target any) bool {
	return errors.As(err, target)
}
