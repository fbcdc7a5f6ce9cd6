//go:build integration

package postgres_test

import (
	"context"
	"database/sql"
	"io"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phrazzld/lift-api/internal/domain"
	"github.com/phrazzld/lift-api/internal/platform/postgres"
	"github.com/phrazzld/lift-api/internal/store"
	"github.com/phrazzld/lift-api/internal/testdb"
)

var quietLog = slog.New(slog.NewTextHandler(io.Discard, nil))

func suffix() string { return uuid.NewString()[:8] }

func seedUser(ctx context.Context, t *testing.T, tx *sql.Tx) *domain.User {
	t.Helper()
	s := suffix()
	u, err := domain.NewUser(domain.NewUserParams{
		Username: "lifter" + s,
		Email:    "lifter" + s + "@example.com",
		Password: "correct horse",
	})
	require.NoError(t, err)
	created, err := postgres.NewPostgresUserStore(tx, quietLog).Create(ctx, u)
	require.NoError(t, err)
	return created
}

func seedExercise(ctx context.Context, t *testing.T, tx *sql.Tx) *domain.Exercise {
	t.Helper()
	m, err := domain.NewMuscle(domain.MuscleParams{Name: "Quads " + suffix()})
	require.NoError(t, err)
	muscle, err := postgres.NewPostgresMuscleStore(tx, quietLog).Create(ctx, m)
	require.NoError(t, err)

	e, err := domain.NewExercise(domain.ExerciseParams{Name: "Squat " + suffix(), MuscleID: muscle.ID()})
	require.NoError(t, err)
	exercise, err := postgres.NewPostgresExerciseStore(tx, quietLog).Create(ctx, e)
	require.NoError(t, err)
	return exercise
}

func TestWorkoutTreeRoundTrip(t *testing.T) {
	db := testdb.Open(t)

	testdb.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
		ctx := context.Background()
		user := seedUser(ctx, t, tx)
		exercise := seedExercise(ctx, t, tx)

		workouts := postgres.NewPostgresWorkoutStore(tx, quietLog)
		workoutExercises := postgres.NewPostgresWorkoutExerciseStore(tx, quietLog)
		sets := postgres.NewPostgresSetStore(tx, quietLog)

		w, err := domain.NewWorkout(domain.WorkoutParams{Name: "Leg Day", UserID: user.ID()})
		require.NoError(t, err)
		workout, err := workouts.Create(ctx, w)
		require.NoError(t, err)
		assert.True(t, workout.IsPrivate())

		_, err = workouts.Create(ctx, w)
		assert.True(t, store.IsDuplicateError(err), "same name for the same user: %v", err)

		require.NoError(t, workouts.LockForUpdate(ctx, []uuid.UUID{workout.ID()}))

		for want := 0; want < 2; want++ {
			next, err := workoutExercises.NextOrder(ctx, workout.ID())
			require.NoError(t, err)
			assert.Equal(t, want, next)

			we, err := domain.NewWorkoutExercise(domain.WorkoutExerciseParams{
				Workout:  workout,
				Exercise: exercise,
				Order:    &next,
			})
			require.NoError(t, err)
			_, err = workoutExercises.Create(ctx, we)
			require.NoError(t, err)
		}

		items, err := workoutExercises.ListByWorkout(ctx, workout.ID())
		require.NoError(t, err)
		require.Len(t, items, 2)
		assert.Equal(t, 0, *items[0].Order().Value())
		require.NotNil(t, items[0].Exercise())
		assert.Equal(t, exercise.Name().Value(), items[0].Exercise().Name().Value())

		set, err := domain.NewSet(domain.SetParams{
			WorkoutExerciseID: items[0].ID(),
			NumReps:           5,
			SetWeight:         120,
		})
		require.NoError(t, err)
		_, err = sets.Create(ctx, set)
		require.NoError(t, err)

		points, err := sets.Progress(ctx, user.ID(), exercise.ID())
		require.NoError(t, err)
		require.Len(t, points, 1)
		assert.Equal(t, 120.0, points[0].MaxWeight)

		// last: the refused delete aborts the transaction
		err = postgres.NewPostgresExerciseStore(tx, quietLog).Delete(ctx, exercise.ID())
		assert.ErrorIs(t, err, store.ErrItemInUse)
	})
}
