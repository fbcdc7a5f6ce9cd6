package service

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/phrazzld/lift-api/internal/domain"
	"github.com/phrazzld/lift-api/internal/store"
)

type workoutFixtureSet struct {
	db               sqlmock.Sqlmock
	workouts         *mockWorkoutStore
	workoutExercises *mockWorkoutExerciseStore
	exercises        *mockExerciseStore
	sets             *mockSetStore
	svc              WorkoutService
}

func setupWorkoutService(t *testing.T) *workoutFixtureSet {
	t.Helper()
	db, sqlMock := newTxDB(t)
	f := &workoutFixtureSet{
		db:               sqlMock,
		workouts:         &mockWorkoutStore{},
		workoutExercises: &mockWorkoutExerciseStore{},
		exercises:        &mockExerciseStore{},
		sets:             &mockSetStore{},
	}
	svc, err := NewWorkoutService(db, f.workouts, f.workoutExercises, f.exercises, f.sets, testLogger)
	require.NoError(t, err)
	f.svc = svc
	return f
}

func TestWorkoutCreate(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	userID := uuid.New()

	t.Run("defaults to private", func(t *testing.T) {
		t.Parallel()
		f := setupWorkoutService(t)
		id := uuid.New()
		f.workouts.On("Create", mock.Anything, mock.MatchedBy(func(w *domain.Workout) bool {
			return w.IsPrivate() && w.UserID() == userID && w.Name().Value() == "Leg Day"
		})).Return(workoutFixture(id, userID, "Leg Day", true), nil)

		dto, err := f.svc.Create(ctx, userID, WorkoutInput{Name: "  Leg Day  "})
		require.NoError(t, err)
		assert.Equal(t, id, dto.ID)
		assert.True(t, dto.IsPrivate)
	})

	t.Run("empty name is a validation error", func(t *testing.T) {
		t.Parallel()
		f := setupWorkoutService(t)
		_, err := f.svc.Create(ctx, userID, WorkoutInput{Name: ""})
		requireKind(t, err, KindValidation)
		f.workouts.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("same name for the same user conflicts", func(t *testing.T) {
		t.Parallel()
		f := setupWorkoutService(t)
		f.workouts.On("Create", mock.Anything, mock.Anything).
			Return(nil, store.NewDuplicateError("workout", map[string]any{"userId": userID, "name": "Leg Day"}))

		_, err := f.svc.Create(ctx, userID, WorkoutInput{Name: "Leg Day"})
		se := requireKind(t, err, KindConflict)
		assert.Equal(t, "Leg Day", se.Payload["name"])
	})
}

func TestWorkoutGetVisibility(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	owner, other := uuid.New(), uuid.New()

	tests := []struct {
		name    string
		private bool
		viewer  uuid.UUID
		kind    *Kind
	}{
		{"owner sees private", true, owner, nil},
		{"anyone sees public", false, other, nil},
		{"private hidden from others", true, other, kindp(KindForbidden)},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			f := setupWorkoutService(t)
			id := uuid.New()
			f.workouts.On("GetByID", mock.Anything, id).Return(workoutFixture(id, owner, "Push", tc.private), nil)

			dto, err := f.svc.Get(ctx, tc.viewer, id)
			if tc.kind != nil {
				requireKind(t, err, *tc.kind)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, id, dto.ID)
		})
	}
}

func TestWorkoutUpdate(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	owner := uuid.New()

	t.Run("owner renames", func(t *testing.T) {
		t.Parallel()
		f := setupWorkoutService(t)
		id := uuid.New()
		w := workoutFixture(id, owner, "Push", true)
		f.workouts.On("GetByID", mock.Anything, id).Return(w, nil)
		f.workouts.On("Update", mock.Anything, w).Return(nil)

		dto, err := f.svc.Update(ctx, owner, id, domain.WorkoutUpdate{
			Name:      domain.Some("Push Heavy"),
			IsPrivate: domain.Some(false),
		})
		require.NoError(t, err)
		assert.Equal(t, "Push Heavy", dto.Name)
		assert.False(t, dto.IsPrivate)
	})

	t.Run("another user is forbidden", func(t *testing.T) {
		t.Parallel()
		f := setupWorkoutService(t)
		id := uuid.New()
		f.workouts.On("GetByID", mock.Anything, id).Return(workoutFixture(id, owner, "Push", false), nil)

		_, err := f.svc.Update(ctx, uuid.New(), id, domain.WorkoutUpdate{Name: domain.Some("Mine now")})
		se := requireKind(t, err, KindForbidden)
		assert.ErrorIs(t, se, ErrCannotUpdateOthersWorkout)
		f.workouts.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})

	t.Run("missing workout", func(t *testing.T) {
		t.Parallel()
		f := setupWorkoutService(t)
		id := uuid.New()
		f.workouts.On("GetByID", mock.Anything, id).
			Return(nil, store.NewStoreError("workout", "get", "not found", store.ErrItemNotFound))

		_, err := f.svc.Update(ctx, owner, id, domain.WorkoutUpdate{})
		se := requireKind(t, err, KindNotFound)
		assert.Equal(t, id, se.Payload["id"])
	})
}

func TestWorkoutDelete(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	owner := uuid.New()
	id := uuid.New()

	f := setupWorkoutService(t)
	f.workouts.On("GetByID", mock.Anything, id).Return(workoutFixture(id, owner, "Push", true), nil)
	f.workouts.On("Delete", mock.Anything, id).Return(nil).Once()

	err := f.svc.Delete(ctx, uuid.New(), id)
	requireKind(t, err, KindForbidden)

	require.NoError(t, f.svc.Delete(ctx, owner, id))
	f.workouts.AssertExpectations(t)
}

func TestWorkoutAddExercise(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	owner, workoutID, exerciseID := uuid.New(), uuid.New(), uuid.New()

	t.Run("appends after the last position", func(t *testing.T) {
		t.Parallel()
		f := setupWorkoutService(t)
		weID := uuid.New()
		f.exercises.On("GetByID", mock.Anything, exerciseID).Return(exerciseFixture(exerciseID, uuid.New(), "Squat"), nil)

		f.db.ExpectBegin()
		f.workouts.On("GetByID", mock.Anything, workoutID).Return(workoutFixture(workoutID, owner, "Legs", true), nil)
		f.workouts.On("LockForUpdate", mock.Anything, []uuid.UUID{workoutID}).Return(nil)
		f.workoutExercises.On("NextOrder", mock.Anything, workoutID).Return(3, nil)
		f.workoutExercises.On("Create", mock.Anything, mock.MatchedBy(func(we *domain.WorkoutExercise) bool {
			return orderOf(we.Order()) == 3 && we.WorkoutID() == workoutID && we.ExerciseID() == exerciseID
		})).Return(workoutExerciseFixture(weID, workoutID, exerciseID, intp(3)), nil)
		f.db.ExpectCommit()

		dto, err := f.svc.AddExercise(ctx, owner, workoutID, exerciseID)
		require.NoError(t, err)
		assert.Equal(t, weID, dto.ID)
		require.NotNil(t, dto.Order)
		assert.Equal(t, 3, *dto.Order)
		f.workouts.AssertExpectations(t)
	})

	t.Run("unknown exercise opens no transaction", func(t *testing.T) {
		t.Parallel()
		f := setupWorkoutService(t)
		f.exercises.On("GetByID", mock.Anything, exerciseID).
			Return(nil, store.NewStoreError("exercise", "get", "not found", store.ErrItemNotFound))

		_, err := f.svc.AddExercise(ctx, owner, workoutID, exerciseID)
		se := requireKind(t, err, KindNotFound)
		assert.ErrorIs(t, se, ErrExerciseNotFound)
	})

	t.Run("another user's workout rolls back", func(t *testing.T) {
		t.Parallel()
		f := setupWorkoutService(t)
		f.exercises.On("GetByID", mock.Anything, exerciseID).Return(exerciseFixture(exerciseID, uuid.New(), "Squat"), nil)

		f.db.ExpectBegin()
		f.workouts.On("GetByID", mock.Anything, workoutID).Return(workoutFixture(workoutID, uuid.New(), "Legs", false), nil)
		f.db.ExpectRollback()

		_, err := f.svc.AddExercise(ctx, owner, workoutID, exerciseID)
		se := requireKind(t, err, KindForbidden)
		assert.ErrorIs(t, se, ErrWorkoutNotBelongToUser)
		f.workoutExercises.AssertNotCalled(t, "NextOrder", mock.Anything, mock.Anything)
	})
}

func TestWorkoutRemoveExercise(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	owner, workoutID := uuid.New(), uuid.New()
	we := workoutExerciseFixture(uuid.New(), workoutID, uuid.New(), intp(0))

	f := setupWorkoutService(t)
	f.workoutExercises.On("GetByID", mock.Anything, we.ID()).Return(we, nil)
	f.workouts.On("GetByID", mock.Anything, workoutID).Return(workoutFixture(workoutID, owner, "Legs", true), nil)
	f.workoutExercises.On("Delete", mock.Anything, we.ID()).Return(nil).Once()

	requireKind(t, f.svc.RemoveExercise(ctx, uuid.New(), we.ID()), KindForbidden)
	require.NoError(t, f.svc.RemoveExercise(ctx, owner, we.ID()))
	f.workoutExercises.AssertExpectations(t)
}

func TestWorkoutGetDetails(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	owner, workoutID := uuid.New(), uuid.New()
	squat := exerciseFixture(uuid.New(), uuid.New(), "Squat")

	first := must(domain.RestoreWorkoutExercise(uuid.New(), domain.WorkoutExerciseParams{
		WorkoutID: workoutID,
		Order:     intp(0),
		Exercise:  squat,
		CreatedAt: testNow,
		UpdatedAt: testNow,
	}))
	second := workoutExerciseFixture(uuid.New(), workoutID, uuid.New(), intp(1))
	firstSets := []*domain.Set{
		setFixture(uuid.New(), first.ID(), intp(0), 5, 100, 0),
		setFixture(uuid.New(), first.ID(), intp(1), 5, 110, 0),
	}

	f := setupWorkoutService(t)
	f.workouts.On("GetByID", mock.Anything, workoutID).Return(workoutFixture(workoutID, owner, "Legs", false), nil)
	f.workoutExercises.On("ListByWorkout", mock.Anything, workoutID).Return([]*domain.WorkoutExercise{first, second}, nil)
	f.sets.On("ListByWorkoutExercise", mock.Anything, first.ID()).Return(firstSets, nil)
	f.sets.On("ListByWorkoutExercise", mock.Anything, second.ID()).Return([]*domain.Set{}, nil)

	details, err := f.svc.GetDetails(ctx, uuid.New(), workoutID)
	require.NoError(t, err)
	assert.Equal(t, workoutID, details.ID)
	require.Len(t, details.Exercises, 2)

	got := details.Exercises[0]
	require.NotNil(t, got.Exercise)
	assert.Equal(t, "Squat", got.Exercise.Name)
	require.Len(t, got.Sets, 2)
	assert.Equal(t, firstSets[1].ID(), got.Sets[1].ID)

	assert.Nil(t, details.Exercises[1].Exercise)
	assert.Empty(t, details.Exercises[1].Sets)
}

func kindp(k Kind) *Kind { return &k }
