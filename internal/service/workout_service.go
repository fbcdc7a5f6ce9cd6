package service

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/google/uuid"

	"github.com/phrazzld/lift-api/internal/domain"
	"github.com/phrazzld/lift-api/internal/platform/logger"
	"github.com/phrazzld/lift-api/internal/store"
)

// WorkoutInput is the payload for creating a workout.
type WorkoutInput struct {
	Name      string
	IsPrivate *bool
}

// WorkoutService manages a user's workouts and the exercises in them.
type WorkoutService interface {
	Create(ctx context.Context, userID uuid.UUID, in WorkoutInput) (domain.WorkoutDTO, error)

	// Get returns a workout the user owns or that is public.
	Get(ctx context.Context, userID, workoutID uuid.UUID) (domain.WorkoutDTO, error)

	// List returns the user's own workouts, newest first.
	List(ctx context.Context, userID uuid.UUID) ([]domain.WorkoutDTO, error)

	Update(ctx context.Context, userID, workoutID uuid.UUID, p domain.WorkoutUpdate) (domain.WorkoutDTO, error)
	Delete(ctx context.Context, userID, workoutID uuid.UUID) error

	// AddExercise appends an exercise after the workout's last position.
	AddExercise(ctx context.Context, userID, workoutID, exerciseID uuid.UUID) (domain.WorkoutExerciseDTO, error)
	RemoveExercise(ctx context.Context, userID, workoutExerciseID uuid.UUID) error

	// GetDetails returns the workout with its exercises and their sets,
	// each level in position order.
	GetDetails(ctx context.Context, userID, workoutID uuid.UUID) (domain.WorkoutDetailsDTO, error)
}

type workoutServiceImpl struct {
	db               store.TxBeginner
	workouts         store.WorkoutStore
	workoutExercises store.WorkoutExerciseStore
	exercises        store.ExerciseStore
	sets             store.SetStore
	logger           *slog.Logger
}

var _ WorkoutService = (*workoutServiceImpl)(nil)

// NewWorkoutService creates a WorkoutService.
// It returns an error if any of the required dependencies are nil.
func NewWorkoutService(
	db store.TxBeginner,
	workouts store.WorkoutStore,
	workoutExercises store.WorkoutExerciseStore,
	exercises store.ExerciseStore,
	sets store.SetStore,
	logger *slog.Logger,
) (WorkoutService, error) {
	if db == nil {
		return nil, domain.NewValidationError("db", "cannot be nil", domain.ErrValidation)
	}
	if workouts == nil {
		return nil, domain.NewValidationError("workouts", "cannot be nil", domain.ErrValidation)
	}
	if workoutExercises == nil {
		return nil, domain.NewValidationError("workoutExercises", "cannot be nil", domain.ErrValidation)
	}
	if exercises == nil {
		return nil, domain.NewValidationError("exercises", "cannot be nil", domain.ErrValidation)
	}
	if sets == nil {
		return nil, domain.NewValidationError("sets", "cannot be nil", domain.ErrValidation)
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &workoutServiceImpl{
		db:               db,
		workouts:         workouts,
		workoutExercises: workoutExercises,
		exercises:        exercises,
		sets:             sets,
		logger:           logger.With(slog.String("component", "workout_service")),
	}, nil
}

func workoutDTO(op string, w *domain.Workout) (domain.WorkoutDTO, error) {
	dto, err := w.ToDTO()
	if err != nil {
		return domain.WorkoutDTO{}, Translate(op, err)
	}
	return dto, nil
}

// Create implements WorkoutService.Create.
func (s *workoutServiceImpl) Create(ctx context.Context, userID uuid.UUID, in WorkoutInput) (domain.WorkoutDTO, error) {
	const op = "create_workout"
	log := logger.FromContextOrDefault(ctx, s.logger)

	w, err := domain.NewWorkout(domain.WorkoutParams{Name: in.Name, UserID: userID, IsPrivate: in.IsPrivate})
	if err != nil {
		return domain.WorkoutDTO{}, Translate(op, err)
	}

	created, err := s.workouts.Create(ctx, w)
	if err != nil {
		log.Debug("failed to create workout",
			slog.String("user_id", userID.String()),
			slog.String("error", err.Error()))
		return domain.WorkoutDTO{}, Translate(op, err)
	}

	log.Info("workout created",
		slog.String("workout_id", created.ID().String()),
		slog.String("user_id", userID.String()))
	return workoutDTO(op, created)
}

// Get implements WorkoutService.Get.
func (s *workoutServiceImpl) Get(ctx context.Context, userID, workoutID uuid.UUID) (domain.WorkoutDTO, error) {
	const op = "get_workout"

	w, err := s.visibleWorkout(ctx, op, userID, workoutID)
	if err != nil {
		return domain.WorkoutDTO{}, err
	}
	return workoutDTO(op, w)
}

func (s *workoutServiceImpl) visibleWorkout(ctx context.Context, op string, userID, workoutID uuid.UUID) (*domain.Workout, error) {
	w, err := s.workouts.GetByID(ctx, workoutID)
	if err != nil {
		return nil, lookup(op, err, ErrWorkoutNotFound, workoutID)
	}
	if !w.IsVisibleTo(userID) {
		return nil, forbidden(op, ErrWorkoutNotBelongToUser)
	}
	return w, nil
}

// List implements WorkoutService.List.
func (s *workoutServiceImpl) List(ctx context.Context, userID uuid.UUID) ([]domain.WorkoutDTO, error) {
	const op = "list_workouts"

	workouts, err := s.workouts.ListByUser(ctx, userID)
	if err != nil {
		return nil, Translate(op, err)
	}
	out := make([]domain.WorkoutDTO, 0, len(workouts))
	for _, w := range workouts {
		dto, err := workoutDTO(op, w)
		if err != nil {
			return nil, err
		}
		out = append(out, dto)
	}
	return out, nil
}

// Update implements WorkoutService.Update.
func (s *workoutServiceImpl) Update(ctx context.Context, userID, workoutID uuid.UUID, p domain.WorkoutUpdate) (domain.WorkoutDTO, error) {
	const op = "update_workout"
	log := logger.FromContextOrDefault(ctx, s.logger)

	w, err := s.workouts.GetByID(ctx, workoutID)
	if err != nil {
		return domain.WorkoutDTO{}, lookup(op, err, ErrWorkoutNotFound, workoutID)
	}
	if !w.IsOwnedBy(userID) {
		log.Debug("update of another user's workout rejected",
			slog.String("workout_id", workoutID.String()),
			slog.String("user_id", userID.String()))
		return domain.WorkoutDTO{}, forbidden(op, ErrCannotUpdateOthersWorkout)
	}
	if err := w.Update(p); err != nil {
		return domain.WorkoutDTO{}, Translate(op, err)
	}
	if err := s.workouts.Update(ctx, w); err != nil {
		return domain.WorkoutDTO{}, Translate(op, err)
	}
	return workoutDTO(op, w)
}

// Delete implements WorkoutService.Delete.
func (s *workoutServiceImpl) Delete(ctx context.Context, userID, workoutID uuid.UUID) error {
	const op = "delete_workout"

	if _, err := newWorkoutCache(s.workouts).owned(ctx, op, workoutID, userID); err != nil {
		return err
	}
	if err := s.workouts.Delete(ctx, workoutID); err != nil {
		return lookup(op, err, ErrWorkoutNotFound, workoutID)
	}

	logger.FromContextOrDefault(ctx, s.logger).Info("workout deleted",
		slog.String("workout_id", workoutID.String()))
	return nil
}

// AddExercise implements WorkoutService.AddExercise.
func (s *workoutServiceImpl) AddExercise(ctx context.Context, userID, workoutID, exerciseID uuid.UUID) (domain.WorkoutExerciseDTO, error) {
	const op = "add_exercise"

	exercise, err := s.exercises.GetByID(ctx, exerciseID)
	if err != nil {
		return domain.WorkoutExerciseDTO{}, lookup(op, err, ErrExerciseNotFound, exerciseID)
	}

	var created *domain.WorkoutExercise
	err = store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		txWorkouts := s.workouts.WithTx(tx)
		txWorkoutExercises := s.workoutExercises.WithTx(tx)

		w, err := newWorkoutCache(txWorkouts).owned(ctx, op, workoutID, userID)
		if err != nil {
			return err
		}
		if err := txWorkouts.LockForUpdate(ctx, []uuid.UUID{workoutID}); err != nil {
			return err
		}
		next, err := txWorkoutExercises.NextOrder(ctx, workoutID)
		if err != nil {
			return err
		}
		we, err := domain.NewWorkoutExercise(domain.WorkoutExerciseParams{
			WorkoutID:  workoutID,
			ExerciseID: exerciseID,
			Order:      &next,
			Workout:    w,
			Exercise:   exercise,
		})
		if err != nil {
			return err
		}
		created, err = txWorkoutExercises.Create(ctx, we)
		return err
	})
	if err != nil {
		return domain.WorkoutExerciseDTO{}, Translate(op, err)
	}

	dto, err := created.ToDTO()
	if err != nil {
		return domain.WorkoutExerciseDTO{}, Translate(op, err)
	}
	return dto, nil
}

// RemoveExercise implements WorkoutService.RemoveExercise.
func (s *workoutServiceImpl) RemoveExercise(ctx context.Context, userID, workoutExerciseID uuid.UUID) error {
	const op = "remove_exercise"

	we, err := s.workoutExercises.GetByID(ctx, workoutExerciseID)
	if err != nil {
		return lookup(op, err, ErrWorkoutExerciseNotFound, workoutExerciseID)
	}
	if _, err := newWorkoutCache(s.workouts).owned(ctx, op, we.WorkoutID(), userID); err != nil {
		return err
	}
	if err := s.workoutExercises.Delete(ctx, workoutExerciseID); err != nil {
		return lookup(op, err, ErrWorkoutExerciseNotFound, workoutExerciseID)
	}
	return nil
}

// GetDetails implements WorkoutService.GetDetails.
func (s *workoutServiceImpl) GetDetails(ctx context.Context, userID, workoutID uuid.UUID) (domain.WorkoutDetailsDTO, error) {
	const op = "get_workout_details"

	w, err := s.visibleWorkout(ctx, op, userID, workoutID)
	if err != nil {
		return domain.WorkoutDetailsDTO{}, err
	}

	items, err := s.workoutExercises.ListByWorkout(ctx, workoutID)
	if err != nil {
		return domain.WorkoutDetailsDTO{}, Translate(op, err)
	}

	exercises := make([]domain.WorkoutExerciseDetailsDTO, 0, len(items))
	for _, we := range items {
		sets, err := s.sets.ListByWorkoutExercise(ctx, we.ID())
		if err != nil {
			return domain.WorkoutDetailsDTO{}, Translate(op, err)
		}
		dto, err := we.ToDetailsDTO(sets)
		if err != nil {
			return domain.WorkoutDetailsDTO{}, Translate(op, err)
		}
		exercises = append(exercises, dto)
	}

	details, err := w.ToDetailsDTO(exercises)
	if err != nil {
		return domain.WorkoutDetailsDTO{}, Translate(op, err)
	}
	return details, nil
}
