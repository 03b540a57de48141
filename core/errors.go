package core

import (
	"errors"
	"fmt"
)

// ErrNotFound is a sentinel error for "not found" cases. Handlers map it to a
// 404 without distinguishing between a missing row and a row owned by another
// user, so ownership is never leaked through error responses.
var ErrNotFound = errors.New("not found")

// ErrValidation is a sentinel error for bad or missing input, detected before
// any side effect takes place. Handlers map it to a 400.
var ErrValidation = errors.New("validation failed")

// IsNotFoundError checks if an error is a "not found" error
func IsNotFoundError(err error) bool {
	return err != nil && errors.Is(err, ErrNotFound)
}

// IsValidationError checks if an error is a validation error
func IsValidationError(err error) bool {
	return err != nil && errors.Is(err, ErrValidation)
}

// NewValidationError wraps a message in the ErrValidation sentinel
func NewValidationError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// PlanLimitError is returned when an operation would exceed the caller's
// subscription plan limits. It is a reported condition, not a server fault.
type PlanLimitError struct {
	Plan    string
	Limit   int
	Current int
}

func (e *PlanLimitError) Error() string {
	return fmt.Sprintf("plan %s allows %d active shares, %d already exist", e.Plan, e.Limit, e.Current)
}

// IsPlanLimitError checks if an error is a plan limit error
func IsPlanLimitError(err error) bool {
	var planErr *PlanLimitError
	return errors.As(err, &planErr)
}
