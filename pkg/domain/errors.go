package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for lookups against external collaborators
var (
	ErrTemplateNotFound  = errors.New("template not found")
	ErrScenarioNotFound  = errors.New("scenario not found")
	ErrExecutionNotFound = errors.New("execution not found")
)

// Conflict reasons surfaced to callers, who decide to retry or force
const (
	ConflictAlreadyExecuting           = "AlreadyExecuting"
	ConflictScenarioCurrentlyExecuting = "ScenarioCurrentlyExecuting"
)

// ConflictError reports an operation rejected because of an in-flight
// execution. It is never fatal: the conflicting execution continues.
type ConflictError struct {
	Reason     string
	ScenarioID string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s: scenario %s", e.Reason, e.ScenarioID)
}

// IsConflict reports whether err is a ConflictError
func IsConflict(err error) bool {
	var ce *ConflictError
	return errors.As(err, &ce)
}

// ValidationError wraps a failed ValidationResult. It always carries
// the complete violation list, never a partial one.
type ValidationError struct {
	Result *ValidationResult
}

func (e *ValidationError) Error() string {
	n := len(e.Result.Violations)
	if n == 1 {
		return fmt.Sprintf("scenario validation failed: %s", e.Result.Violations[0])
	}
	return fmt.Sprintf("scenario validation failed with %d violations (first: %s)", n, e.Result.Violations[0])
}

// AsValidation extracts a ValidationError from err, if any
func AsValidation(err error) (*ValidationError, bool) {
	var ve *ValidationError
	ok := errors.As(err, &ve)
	return ve, ok
}
