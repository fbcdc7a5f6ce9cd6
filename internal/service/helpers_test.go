package service

import (
	"database/sql"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phrazzld/lift-api/internal/domain"
)

var (
	testNow    = time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)
	testLogger = slog.New(slog.NewTextHandler(io.Discard, nil))
)

func must[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}

func intp(v int) *int { return &v }

func boolp(v bool) *bool { return &v }

func orderOf(o domain.Order) int {
	if v := o.Value(); v != nil {
		return *v
	}
	return -1
}

func newTxDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		_ = db.Close()
	})
	return db, mock
}

func workoutFixture(id, userID uuid.UUID, name string, private bool) *domain.Workout {
	return must(domain.RestoreWorkout(id, domain.WorkoutParams{
		Name:      name,
		UserID:    userID,
		IsPrivate: boolp(private),
		CreatedAt: testNow,
		UpdatedAt: testNow,
	}))
}

func workoutExerciseFixture(id, workoutID, exerciseID uuid.UUID, order *int) *domain.WorkoutExercise {
	return must(domain.RestoreWorkoutExercise(id, domain.WorkoutExerciseParams{
		WorkoutID:  workoutID,
		ExerciseID: exerciseID,
		Order:      order,
		CreatedAt:  testNow,
		UpdatedAt:  testNow,
	}))
}

func setFixture(id, workoutExerciseID uuid.UUID, order *int, reps int, weight float64, drops int) *domain.Set {
	return must(domain.RestoreSet(id, domain.SetParams{
		WorkoutExerciseID: workoutExerciseID,
		Order:             order,
		NumReps:           reps,
		SetWeight:         weight,
		NumDrops:          drops,
		CreatedAt:         testNow,
		UpdatedAt:         testNow,
	}))
}

func exerciseFixture(id, muscleID uuid.UUID, name string) *domain.Exercise {
	return must(domain.RestoreExercise(id, domain.ExerciseParams{
		Name:      name,
		MuscleID:  muscleID,
		CreatedAt: testNow,
		UpdatedAt: testNow,
	}))
}

// requireKind asserts err is a service *Error of the given kind.
func requireKind(t *testing.T, err error, kind Kind) *Error {
	t.Helper()
	require.Error(t, err)
	var se *Error
	require.ErrorAs(t, err, &se)
	require.Equal(t, kind, se.Kind, "unexpected kind for %v", err)
	return se
}
