package model

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidMonth  = errors.New("invalid month value, expecting an integer between 1 and 12")
	ErrInvalidSource = errors.New("invalid data source type, expecting listings or calendar")
	ErrInvalidDay    = errors.New("invalid day value for the given month")

	// ErrSnapshotNotFound signals a raw snapshot that was never downloaded.
	// Callers decide whether that month is skipped or the run fails.
	ErrSnapshotNotFound = errors.New("snapshot file not found")
	ErrSummaryNotFound  = errors.New("monthly summary not found")
)

// ParseError is returned when a decorated numeric field can't be converted.
type ParseError struct {
	Field string
	Value string
	Err   error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("failed to parse %s from '%s': %v", e.Field, e.Value, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
