package service

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/phrazzld/lift-api/internal/domain"
	"github.com/phrazzld/lift-api/internal/events"
	"github.com/phrazzld/lift-api/internal/store"
)

// The store mocks return themselves from WithTx so expectations set on the
// outer handle also cover calls made inside a transaction.

type mockWorkoutStore struct{ mock.Mock }

func (m *mockWorkoutStore) Create(ctx context.Context, w *domain.Workout) (*domain.Workout, error) {
	args := m.Called(ctx, w)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Workout), args.Error(1)
}

func (m *mockWorkoutStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Workout, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Workout), args.Error(1)
}

func (m *mockWorkoutStore) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Workout, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]*domain.Workout), args.Error(1)
}

func (m *mockWorkoutStore) Update(ctx context.Context, w *domain.Workout) error {
	return m.Called(ctx, w).Error(0)
}

func (m *mockWorkoutStore) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockWorkoutStore) LockForUpdate(ctx context.Context, ids []uuid.UUID) error {
	return m.Called(ctx, ids).Error(0)
}

func (m *mockWorkoutStore) WithTx(*sql.Tx) store.WorkoutStore { return m }

type mockWorkoutExerciseStore struct{ mock.Mock }

func (m *mockWorkoutExerciseStore) Create(ctx context.Context, we *domain.WorkoutExercise) (*domain.WorkoutExercise, error) {
	args := m.Called(ctx, we)
	if fn, ok := args.Get(0).(func(context.Context, *domain.WorkoutExercise) *domain.WorkoutExercise); ok {
		return fn(ctx, we), args.Error(1)
	}
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.WorkoutExercise), args.Error(1)
}

func (m *mockWorkoutExerciseStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.WorkoutExercise, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.WorkoutExercise), args.Error(1)
}

func (m *mockWorkoutExerciseStore) ListByWorkout(ctx context.Context, workoutID uuid.UUID) ([]*domain.WorkoutExercise, error) {
	args := m.Called(ctx, workoutID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.WorkoutExercise), args.Error(1)
}

func (m *mockWorkoutExerciseStore) NextOrder(ctx context.Context, workoutID uuid.UUID) (int, error) {
	args := m.Called(ctx, workoutID)
	return args.Int(0), args.Error(1)
}

func (m *mockWorkoutExerciseStore) Update(ctx context.Context, we *domain.WorkoutExercise) error {
	return m.Called(ctx, we).Error(0)
}

func (m *mockWorkoutExerciseStore) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockWorkoutExerciseStore) WithTx(*sql.Tx) store.WorkoutExerciseStore { return m }

type mockSetStore struct{ mock.Mock }

func (m *mockSetStore) Create(ctx context.Context, set *domain.Set) (*domain.Set, error) {
	args := m.Called(ctx, set)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Set), args.Error(1)
}

func (m *mockSetStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Set, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Set), args.Error(1)
}

func (m *mockSetStore) ListByWorkoutExercise(ctx context.Context, workoutExerciseID uuid.UUID) ([]*domain.Set, error) {
	args := m.Called(ctx, workoutExerciseID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Set), args.Error(1)
}

func (m *mockSetStore) GetVisible(ctx context.Context, id, userID uuid.UUID) (*domain.Set, error) {
	args := m.Called(ctx, id, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Set), args.Error(1)
}

func (m *mockSetStore) ListVisibleByWorkoutExercise(ctx context.Context, workoutExerciseID, userID uuid.UUID) ([]*domain.Set, error) {
	args := m.Called(ctx, workoutExerciseID, userID)
	return args.Get(0).([]*domain.Set), args.Error(1)
}

func (m *mockSetStore) Progress(ctx context.Context, userID, exerciseID uuid.UUID) ([]domain.ProgressPoint, error) {
	args := m.Called(ctx, userID, exerciseID)
	return args.Get(0).([]domain.ProgressPoint), args.Error(1)
}

func (m *mockSetStore) NextOrder(ctx context.Context, workoutExerciseID uuid.UUID) (int, error) {
	args := m.Called(ctx, workoutExerciseID)
	return args.Int(0), args.Error(1)
}

func (m *mockSetStore) Update(ctx context.Context, set *domain.Set) error {
	return m.Called(ctx, set).Error(0)
}

func (m *mockSetStore) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockSetStore) WithTx(*sql.Tx) store.SetStore { return m }

type mockExerciseStore struct{ mock.Mock }

func (m *mockExerciseStore) Create(ctx context.Context, e *domain.Exercise) (*domain.Exercise, error) {
	args := m.Called(ctx, e)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Exercise), args.Error(1)
}

func (m *mockExerciseStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Exercise, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Exercise), args.Error(1)
}

func (m *mockExerciseStore) List(ctx context.Context, muscleID *uuid.UUID) ([]*domain.Exercise, error) {
	args := m.Called(ctx, muscleID)
	return args.Get(0).([]*domain.Exercise), args.Error(1)
}

func (m *mockExerciseStore) Update(ctx context.Context, e *domain.Exercise) error {
	return m.Called(ctx, e).Error(0)
}

func (m *mockExerciseStore) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockExerciseStore) WithTx(*sql.Tx) store.ExerciseStore { return m }

type mockMuscleStore struct{ mock.Mock }

func (m *mockMuscleStore) Create(ctx context.Context, muscle *domain.Muscle) (*domain.Muscle, error) {
	args := m.Called(ctx, muscle)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Muscle), args.Error(1)
}

func (m *mockMuscleStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Muscle, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Muscle), args.Error(1)
}

func (m *mockMuscleStore) List(ctx context.Context) ([]*domain.Muscle, error) {
	args := m.Called(ctx)
	return args.Get(0).([]*domain.Muscle), args.Error(1)
}

func (m *mockMuscleStore) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockMuscleStore) WithTx(*sql.Tx) store.MuscleStore { return m }

type mockUserStore struct{ mock.Mock }

func (m *mockUserStore) Create(ctx context.Context, u *domain.User) (*domain.User, error) {
	args := m.Called(ctx, u)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *mockUserStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *mockUserStore) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *mockUserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *mockUserStore) Update(ctx context.Context, u *domain.User) error {
	return m.Called(ctx, u).Error(0)
}

func (m *mockUserStore) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockUserStore) WithTx(*sql.Tx) store.UserStore { return m }

type mockEmitter struct{ mock.Mock }

func (m *mockEmitter) EmitEvent(ctx context.Context, event *events.Event) error {
	return m.Called(ctx, event).Error(0)
}
