package models

import (
	"errors"
	"fmt"
	"time"
)

// ErrNotFound is returned by stores when a record does not exist.
var ErrNotFound = errors.New("record not found")

// ValidationError rejects malformed or out-of-range input before any computation.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// InsufficientDataError rejects a price series too short for indicator math.
// There is no fallback padding: the caller must supply a full series.
type InsufficientDataError struct {
	Have int
	Want int
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("insufficient price history: have %d points, need %d", e.Have, e.Want)
}

// NotYetDueError rejects an outcome evaluation attempted before the
// prediction's horizon has elapsed. The caller should retry after DueAt.
type NotYetDueError struct {
	PredictionID string
	DueAt        time.Time
}

func (e *NotYetDueError) Error() string {
	return fmt.Sprintf("prediction %s not yet due for validation, due at %s",
		e.PredictionID, e.DueAt.Format(time.RFC3339))
}
