package domain

import (
	"errors"
	"fmt"
)

// ErrNotFound is wrapped by every kind-specific not-found error so callers can
// match either the broad or the precise case.
var ErrNotFound = errors.New("not found")

var (
	// ErrWorkoutNotFound is returned when a workout session cannot be located for the user.
	ErrWorkoutNotFound = fmt.Errorf("workout session %w", ErrNotFound)
	// ErrSetNotFound is returned when a set does not belong to the given session.
	ErrSetNotFound = fmt.Errorf("workout set %w", ErrNotFound)
	// ErrRecordNotFound is returned when no personal record exists for an exercise.
	ErrRecordNotFound = fmt.Errorf("personal record %w", ErrNotFound)
	// ErrWeightEntryNotFound is returned when a body-weight entry cannot be located.
	ErrWeightEntryNotFound = fmt.Errorf("body weight entry %w", ErrNotFound)
	// ErrFoodEntryNotFound is returned when a food entry cannot be located.
	ErrFoodEntryNotFound = fmt.Errorf("food entry %w", ErrNotFound)
	// ErrGoalsNotFound is returned when the user has not saved macro goals yet.
	ErrGoalsNotFound = fmt.Errorf("macro goals %w", ErrNotFound)
	// ErrMealPlanNotFound is returned when a meal plan cannot be located.
	ErrMealPlanNotFound = fmt.Errorf("meal plan %w", ErrNotFound)

	// ErrSessionFinished is returned when sets are added to, or a finish is
	// requested for, a session that already has an end time.
	ErrSessionFinished = errors.New("workout session already finished")
)

// ValidationError describes a rejected input field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Reason)
}

func invalid(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var target *ValidationError
	return errors.As(err, &target)
}
