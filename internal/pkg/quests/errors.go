package quests

import (
	"errors"
	"fmt"
	"time"
)

// ErrNotFound is returned when no quest day exists for the requested date.
var ErrNotFound = errors.New("no quest day found for this date")

// ValidationError reports a rejected state transition, e.g. locking choices
// while a quest text is still empty.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// AlreadySubmittedError is returned when a day is submitted a second time.
// It carries the original submission timestamp so callers can display it.
type AlreadySubmittedError struct {
	SubmittedAt *time.Time
}

func (e *AlreadySubmittedError) Error() string {
	if e.SubmittedAt != nil {
		return fmt.Sprintf("already submitted at %s", e.SubmittedAt.Format(time.RFC3339))
	}
	return "already submitted"
}
