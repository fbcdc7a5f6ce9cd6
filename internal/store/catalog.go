package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/phrazzld/lift-api/internal/domain"
)

// MuscleStore persists muscles. Names are unique.
type MuscleStore interface {
	Create(ctx context.Context, muscle *domain.Muscle) (*domain.Muscle, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Muscle, error)
	List(ctx context.Context) ([]*domain.Muscle, error)
	Delete(ctx context.Context, id uuid.UUID) error
	WithTx(tx *sql.Tx) MuscleStore
}

// ExerciseStore persists exercises. Names are unique.
type ExerciseStore interface {
	Create(ctx context.Context, exercise *domain.Exercise) (*domain.Exercise, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Exercise, error)

	// List returns exercises by name, optionally only those of muscleID.
	List(ctx context.Context, muscleID *uuid.UUID) ([]*domain.Exercise, error)

	Update(ctx context.Context, exercise *domain.Exercise) error
	Delete(ctx context.Context, id uuid.UUID) error
	WithTx(tx *sql.Tx) ExerciseStore
}
