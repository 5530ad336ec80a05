package domain

import (
	"errors"
	"fmt"
)

// ErrNotGeoClaw is returned when a GeoClaw-only section is requested from run
// data built for another solver package.
var ErrNotGeoClaw = errors.New("run data has no geoclaw sections")

// ConfigurationError reports an invalid or missing run-configuration value.
type ConfigurationError struct {
	Field  string
	Reason string
	Err    error
}

func (e *ConfigurationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("configuration %s: %s: %v", e.Field, e.Reason, e.Err)
	}
	return fmt.Sprintf("configuration %s: %s", e.Field, e.Reason)
}

func (e *ConfigurationError) Unwrap() error { return e.Err }

func configErrorf(field, format string, args ...any) *ConfigurationError {
	return &ConfigurationError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

// FormatError reports a record that does not match the expected column layout.
// Line is 1-based; Column is the 1-based column index, or 0 when the whole
// record is at fault.
type FormatError struct {
	Source string
	Line   int
	Column int
	Reason string
	Err    error
}

func (e *FormatError) Error() string {
	loc := fmt.Sprintf("%s:%d", e.Source, e.Line)
	if e.Column > 0 {
		loc = fmt.Sprintf("%s:%d:%d", e.Source, e.Line, e.Column)
	}
	if e.Err != nil {
		return fmt.Sprintf("format %s: %s: %v", loc, e.Reason, e.Err)
	}
	return fmt.Sprintf("format %s: %s", loc, e.Reason)
}

func (e *FormatError) Unwrap() error { return e.Err }
