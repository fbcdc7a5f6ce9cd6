package service

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"

	"github.com/phrazzld/lift-api/internal/domain"
	"github.com/phrazzld/lift-api/internal/store"
)

// Kind classifies a service failure for the caller.
type Kind int

const (
	KindServer Kind = iota
	KindValidation
	KindNotFound
	KindForbidden
	KindConflict
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindForbidden:
		return "forbidden"
	case KindConflict:
		return "conflict"
	default:
		return "server"
	}
}

// Status maps the kind onto an HTTP status code.
func (k Kind) Status() int {
	switch k {
	case KindValidation:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindForbidden:
		return http.StatusForbidden
	case KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// Sentinels carried in Error.Err. Callers check them with errors.Is.
var (
	ErrUserNotFound            = errors.New("user not found")
	ErrMuscleNotFound          = errors.New("muscle not found")
	ErrExerciseNotFound        = errors.New("exercise not found")
	ErrWorkoutNotFound         = errors.New("workout not found")
	ErrWorkoutExerciseNotFound = errors.New("workout exercise not found")
	ErrSetNotFound             = errors.New("set not found")

	// ErrWorkoutNotBelongToUser is returned when a user acts on another
	// user's workout or on anything inside it.
	ErrWorkoutNotBelongToUser = errors.New("workout does not belong to user")

	// ErrCannotUpdateOthersWorkout is the update-specific variant.
	ErrCannotUpdateOthersWorkout = errors.New("cannot update another user's workout")

	ErrNotAdmin = errors.New("admin privileges required")

	// ErrExerciseInUse is returned when an exercise still appears in a
	// workout and so cannot be deleted.
	ErrExerciseInUse = errors.New("exercise is used by a workout")
)

// Error is the only error type returned by services.
type Error struct {
	Kind    Kind
	Op      string // e.g. "start_routine"
	Message string
	// Payload carries structured detail, e.g. the conflicting fields of a
	// duplicate.
	Payload map[string]any
	Err     error
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Op, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf reports the kind of err, KindServer when err is not an *Error.
func KindOf(err error) Kind {
	var se *Error
	if errors.As(err, &se) {
		return se.Kind
	}
	return KindServer
}

// Translate maps a domain or store error to an *Error. An err that already
// is an *Error is returned as is.
func Translate(op string, err error) error {
	if err == nil {
		return nil
	}

	var se *Error
	if errors.As(err, &se) {
		return err
	}

	var dup *store.DuplicateError
	switch {
	case domain.IsValidationError(err):
		return &Error{Kind: KindValidation, Op: op, Message: err.Error(), Err: err}
	case errors.Is(err, store.ErrItemNotFound), errors.Is(err, store.ErrInvalidReference):
		return &Error{Kind: KindNotFound, Op: op, Message: err.Error(), Err: err}
	case errors.Is(err, store.ErrConstraintViolated):
		return &Error{Kind: KindValidation, Op: op, Message: err.Error(), Err: err}
	case errors.Is(err, store.ErrItemInUse):
		return &Error{Kind: KindConflict, Op: op, Message: err.Error(), Err: err}
	case errors.As(err, &dup):
		return &Error{Kind: KindConflict, Op: op, Message: dup.Error(), Payload: dup.Fields, Err: err}
	default:
		return &Error{Kind: KindServer, Op: op, Message: err.Error(), Err: err}
	}
}

func notFound(op string, sentinel error, id uuid.UUID) *Error {
	return &Error{
		Kind:    KindNotFound,
		Op:      op,
		Message: fmt.Sprintf("%s: %s", sentinel, id),
		Payload: map[string]any{"id": id},
		Err:     sentinel,
	}
}

func forbidden(op string, sentinel error) *Error {
	return &Error{Kind: KindForbidden, Op: op, Message: sentinel.Error(), Err: sentinel}
}

// lookup translates a failed load. A missing row becomes NotFound carrying
// sentinel and the requested id.
func lookup(op string, err error, sentinel error, id uuid.UUID) error {
	if errors.Is(err, store.ErrItemNotFound) {
		return notFound(op, sentinel, id)
	}
	return Translate(op, err)
}
