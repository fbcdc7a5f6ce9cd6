package domain

import (
	"errors"
	"fmt"
)

// ErrValidation is the umbrella for every expected input failure. Each
// ValidationError also unwraps to one of the code sentinels below.
var ErrValidation = errors.New("validation failed")

// Validation codes. Callers discriminate with errors.Is.
var (
	// ErrMissingProps is returned when a required field is absent. The
	// presence check runs before any value object is constructed.
	ErrMissingProps = errors.New("missing required properties")

	ErrInvalidName       = errors.New("invalid name")
	ErrInvalidUsername   = errors.New("invalid username")
	ErrInvalidEmail      = errors.New("invalid email format")
	ErrInvalidPassword   = errors.New("invalid password")
	ErrInvalidAge        = errors.New("invalid age")
	ErrInvalidBodyWeight = errors.New("invalid body weight")
	ErrInvalidHeight     = errors.New("invalid height")
	ErrInvalidOrder      = errors.New("invalid order")
	ErrInvalidNumReps    = errors.New("invalid number of reps")
	ErrInvalidSetWeight  = errors.New("invalid set weight")
	ErrInvalidNumDrops   = errors.New("invalid number of drops")
	ErrInvalidURL        = errors.New("invalid url")
	ErrInvalidInfo       = errors.New("invalid info")

	// ErrWorkoutMismatch is returned when a WorkoutExercise is given both a
	// workout id and a workout aggregate that disagree.
	ErrWorkoutMismatch = errors.New("workout id does not match attached workout")

	// ErrExerciseMismatch is the exercise counterpart of ErrWorkoutMismatch.
	ErrExerciseMismatch = errors.New("exercise id does not match attached exercise")
)

// ErrMissingID is returned when an aggregate that was never persisted is
// projected to an output shape.
var ErrMissingID = errors.New("aggregate has no id")

// ValidationError describes a single rejected field.
type ValidationError struct {
	Field   string
	Message string
	Err     error
}

// Error implements the error interface for ValidationError.
func (e *ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("validation failed: %s", e.Message)
	}
	return fmt.Sprintf("validation failed: %s: %s", e.Field, e.Message)
}

// Unwrap exposes both ErrValidation and the specific code to errors.Is.
func (e *ValidationError) Unwrap() []error {
	if e.Err == nil || e.Err == ErrValidation {
		return []error{ErrValidation}
	}
	return []error{ErrValidation, e.Err}
}

// NewValidationError creates a ValidationError for field with the given code.
func NewValidationError(field, message string, err error) *ValidationError {
	return &ValidationError{
		Field:   field,
		Message: message,
		Err:     err,
	}
}

// IsValidationError reports whether err is an expected input failure.
func IsValidationError(err error) bool {
	return errors.Is(err, ErrValidation)
}

func missingProps(fields ...string) error {
	return NewValidationError("", fmt.Sprintf("missing %v", fields), ErrMissingProps)
}

func missingID(entity string) error {
	return fmt.Errorf("%w: %s", ErrMissingID, entity)
}
