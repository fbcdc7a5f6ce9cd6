package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/phrazzld/lift-api/internal/domain"
)

// WorkoutStore persists workouts. A workout name is unique per owner.
type WorkoutStore interface {
	// Create returns a *DuplicateError carrying userId and name when the
	// owner already has a workout with that name.
	Create(ctx context.Context, workout *domain.Workout) (*domain.Workout, error)

	GetByID(ctx context.Context, id uuid.UUID) (*domain.Workout, error)

	// ListByUser returns the user's workouts, newest first.
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Workout, error)

	// Update allows a workout to keep its own name.
	Update(ctx context.Context, workout *domain.Workout) error

	// Delete cascades to workout exercises and their sets.
	Delete(ctx context.Context, id uuid.UUID) error

	// LockForUpdate takes row locks on ids in ascending id order. It only
	// has an effect inside a transaction.
	LockForUpdate(ctx context.Context, ids []uuid.UUID) error

	WithTx(tx *sql.Tx) WorkoutStore
}

// WorkoutExerciseStore persists the exercises placed inside workouts.
type WorkoutExerciseStore interface {
	Create(ctx context.Context, we *domain.WorkoutExercise) (*domain.WorkoutExercise, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.WorkoutExercise, error)

	// ListByWorkout returns entries with their exercise attached, ordered
	// by order (unordered last), then creation time, then id.
	ListByWorkout(ctx context.Context, workoutID uuid.UUID) ([]*domain.WorkoutExercise, error)

	// NextOrder returns one past the highest order in the workout, or 0.
	NextOrder(ctx context.Context, workoutID uuid.UUID) (int, error)

	Update(ctx context.Context, we *domain.WorkoutExercise) error
	Delete(ctx context.Context, id uuid.UUID) error
	WithTx(tx *sql.Tx) WorkoutExerciseStore
}

// SetStore persists sets.
type SetStore interface {
	Create(ctx context.Context, set *domain.Set) (*domain.Set, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Set, error)

	// ListByWorkoutExercise uses the same ordering as ListByWorkout.
	ListByWorkoutExercise(ctx context.Context, workoutExerciseID uuid.UUID) ([]*domain.Set, error)

	// GetVisible returns the set only if userID owns its workout or the
	// workout is public. Anything else is ErrItemNotFound.
	GetVisible(ctx context.Context, id, userID uuid.UUID) (*domain.Set, error)

	ListVisibleByWorkoutExercise(ctx context.Context, workoutExerciseID, userID uuid.UUID) ([]*domain.Set, error)

	// Progress returns, per calendar day, the heaviest set userID logged
	// for exerciseID, oldest day first.
	Progress(ctx context.Context, userID, exerciseID uuid.UUID) ([]domain.ProgressPoint, error)

	NextOrder(ctx context.Context, workoutExerciseID uuid.UUID) (int, error)

	Update(ctx context.Context, set *domain.Set) error
	Delete(ctx context.Context, id uuid.UUID) error
	WithTx(tx *sql.Tx) SetStore
}
