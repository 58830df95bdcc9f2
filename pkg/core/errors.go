package core

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNoRows is returned when a schedule has a header but no data rows.
var ErrNoRows = errors.New("schedule has no rows")

// ParseError reports a cell that could not be converted.
type ParseError struct {
	Line   int
	Column string
	Value  string
	Err    error
}

func (e *ParseError) Error() string {
	msg := fmt.Sprintf("line %d: invalid %s %q", e.Line, e.Column, e.Value)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ParseError) Unwrap() error { return e.Err }

// SchemaError reports required columns missing from the header.
type SchemaError struct {
	Missing []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("missing required columns: %s", strings.Join(e.Missing, ", "))
}
