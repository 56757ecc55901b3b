// Package usecase implements the business logic for the tasks feature.
package usecase

import "errors"

// ErrTaskNotFound is returned when a task does not exist or belongs to another user.
// Callers cannot tell the two cases apart.
var ErrTaskNotFound = errors.New("task not found")

// ValidationError carries the user-facing message of the first failed task rule.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}
