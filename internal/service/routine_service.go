package service

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/phrazzld/lift-api/internal/domain"
	"github.com/phrazzld/lift-api/internal/platform/logger"
	"github.com/phrazzld/lift-api/internal/store"
)

// RoutineService starts a routine: a private copy of a workout, its
// exercises and their sets, owned by the user who starts it.
type RoutineService interface {
	StartRoutine(ctx context.Context, userID, workoutID uuid.UUID) (domain.WorkoutDTO, error)
}

type routineServiceImpl struct {
	db               store.TxBeginner
	workouts         store.WorkoutStore
	workoutExercises store.WorkoutExerciseStore
	sets             store.SetStore
	now              func() time.Time
	logger           *slog.Logger
}

var _ RoutineService = (*routineServiceImpl)(nil)

// RoutineOption configures a RoutineService.
type RoutineOption func(*routineServiceImpl)

// WithClock replaces time.Now as the source of the copy's timestamp.
func WithClock(now func() time.Time) RoutineOption {
	return func(s *routineServiceImpl) {
		s.now = now
	}
}

// NewRoutineService creates a RoutineService.
// It returns an error if any of the required dependencies are nil.
func NewRoutineService(
	db store.TxBeginner,
	workouts store.WorkoutStore,
	workoutExercises store.WorkoutExerciseStore,
	sets store.SetStore,
	logger *slog.Logger,
	opts ...RoutineOption,
) (RoutineService, error) {
	if db == nil {
		return nil, domain.NewValidationError("db", "cannot be nil", domain.ErrValidation)
	}
	if workouts == nil {
		return nil, domain.NewValidationError("workouts", "cannot be nil", domain.ErrValidation)
	}
	if workoutExercises == nil {
		return nil, domain.NewValidationError("workoutExercises", "cannot be nil", domain.ErrValidation)
	}
	if sets == nil {
		return nil, domain.NewValidationError("sets", "cannot be nil", domain.ErrValidation)
	}
	if logger == nil {
		logger = slog.Default()
	}

	s := &routineServiceImpl{
		db:               db,
		workouts:         workouts,
		workoutExercises: workoutExercises,
		sets:             sets,
		now:              time.Now,
		logger:           logger.With(slog.String("component", "routine_service")),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// StartRoutine implements RoutineService.StartRoutine.
func (s *routineServiceImpl) StartRoutine(ctx context.Context, userID, workoutID uuid.UUID) (domain.WorkoutDTO, error) {
	const op = "start_routine"
	log := logger.FromContextOrDefault(ctx, s.logger).With(
		slog.String("workout_id", workoutID.String()),
		slog.String("user_id", userID.String()))

	source, err := s.workouts.GetByID(ctx, workoutID)
	if err != nil {
		return domain.WorkoutDTO{}, lookup(op, err, ErrWorkoutNotFound, workoutID)
	}
	if !source.IsVisibleTo(userID) {
		log.Debug("routine source not visible to user")
		return domain.WorkoutDTO{}, forbidden(op, ErrWorkoutNotBelongToUser)
	}

	copied, err := source.RoutineCopy(userID, s.now())
	if err != nil {
		return domain.WorkoutDTO{}, Translate(op, err)
	}

	var (
		created   *domain.Workout
		exercises int
		sets      int
	)
	err = store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		txWorkouts := s.workouts.WithTx(tx)
		txWorkoutExercises := s.workoutExercises.WithTx(tx)
		txSets := s.sets.WithTx(tx)

		var err error
		created, err = txWorkouts.Create(ctx, copied)
		if err != nil {
			return err
		}

		// read back from storage so the copy follows the persisted order
		items, err := txWorkoutExercises.ListByWorkout(ctx, source.ID())
		if err != nil {
			return err
		}
		for _, we := range items {
			weCopy, err := we.CopyTo(created.ID())
			if err != nil {
				return err
			}
			newWE, err := txWorkoutExercises.Create(ctx, weCopy)
			if err != nil {
				return err
			}
			exercises++

			sourceSets, err := txSets.ListByWorkoutExercise(ctx, we.ID())
			if err != nil {
				return err
			}
			for _, set := range sourceSets {
				setCopy, err := set.CopyTo(newWE.ID())
				if err != nil {
					return err
				}
				if _, err := txSets.Create(ctx, setCopy); err != nil {
					return err
				}
				sets++
			}
		}
		return nil
	})
	if err != nil {
		log.Error("failed to start routine", slog.String("error", err.Error()))
		return domain.WorkoutDTO{}, &Error{Kind: KindServer, Op: op, Message: err.Error(), Err: err}
	}

	log.Info("routine started",
		slog.String("routine_id", created.ID().String()),
		slog.Int("exercises", exercises),
		slog.Int("sets", sets))

	dto, err := created.ToDTO()
	if err != nil {
		return domain.WorkoutDTO{}, Translate(op, err)
	}
	return dto, nil
}
