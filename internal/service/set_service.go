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

// SetInput is the payload for adding a set.
type SetInput struct {
	WorkoutExerciseID uuid.UUID
	NumReps           int
	SetWeight         float64
	NumDrops          int
}

// SetService manages the sets of a workout exercise.
type SetService interface {
	// Add appends a set after the last position of its workout exercise.
	Add(ctx context.Context, userID uuid.UUID, in SetInput) (domain.SetDTO, error)
	Update(ctx context.Context, userID, setID uuid.UUID, p domain.SetUpdate) (domain.SetDTO, error)
	Delete(ctx context.Context, userID, setID uuid.UUID) error

	// Get returns a set whose workout the user owns or that is public.
	Get(ctx context.Context, userID, setID uuid.UUID) (domain.SetDTO, error)
	List(ctx context.Context, userID, workoutExerciseID uuid.UUID) ([]domain.SetDTO, error)

	// Progress returns the user's heaviest set per day for one exercise.
	Progress(ctx context.Context, userID, exerciseID uuid.UUID) ([]domain.ProgressPoint, error)
}

type setServiceImpl struct {
	db               store.TxBeginner
	workouts         store.WorkoutStore
	workoutExercises store.WorkoutExerciseStore
	exercises        store.ExerciseStore
	sets             store.SetStore
	logger           *slog.Logger
}

var _ SetService = (*setServiceImpl)(nil)

// NewSetService creates a SetService.
// It returns an error if any of the required dependencies are nil.
func NewSetService(
	db store.TxBeginner,
	workouts store.WorkoutStore,
	workoutExercises store.WorkoutExerciseStore,
	exercises store.ExerciseStore,
	sets store.SetStore,
	logger *slog.Logger,
) (SetService, error) {
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

	return &setServiceImpl{
		db:               db,
		workouts:         workouts,
		workoutExercises: workoutExercises,
		exercises:        exercises,
		sets:             sets,
		logger:           logger.With(slog.String("component", "set_service")),
	}, nil
}

func setDTO(op string, set *domain.Set) (domain.SetDTO, error) {
	dto, err := set.ToDTO()
	if err != nil {
		return domain.SetDTO{}, Translate(op, err)
	}
	return dto, nil
}

// ownedWorkoutExercise loads the workout exercise and requires userID to
// own its workout.
func ownedWorkoutExercise(
	ctx context.Context,
	op string,
	workoutExercises store.WorkoutExerciseStore,
	workouts store.WorkoutStore,
	id, userID uuid.UUID,
) (*domain.WorkoutExercise, error) {
	we, err := workoutExercises.GetByID(ctx, id)
	if err != nil {
		return nil, lookup(op, err, ErrWorkoutExerciseNotFound, id)
	}
	if _, err := newWorkoutCache(workouts).owned(ctx, op, we.WorkoutID(), userID); err != nil {
		return nil, err
	}
	return we, nil
}

// Add implements SetService.Add.
func (s *setServiceImpl) Add(ctx context.Context, userID uuid.UUID, in SetInput) (domain.SetDTO, error) {
	const op = "add_set"

	var created *domain.Set
	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		txWorkouts := s.workouts.WithTx(tx)
		txSets := s.sets.WithTx(tx)

		we, err := ownedWorkoutExercise(ctx, op, s.workoutExercises.WithTx(tx), txWorkouts, in.WorkoutExerciseID, userID)
		if err != nil {
			return err
		}
		if err := txWorkouts.LockForUpdate(ctx, []uuid.UUID{we.WorkoutID()}); err != nil {
			return err
		}
		next, err := txSets.NextOrder(ctx, we.ID())
		if err != nil {
			return err
		}
		set, err := domain.NewSet(domain.SetParams{
			WorkoutExerciseID: we.ID(),
			Order:             &next,
			NumReps:           in.NumReps,
			SetWeight:         in.SetWeight,
			NumDrops:          in.NumDrops,
		})
		if err != nil {
			return err
		}
		created, err = txSets.Create(ctx, set)
		return err
	})
	if err != nil {
		return domain.SetDTO{}, Translate(op, err)
	}

	logger.FromContextOrDefault(ctx, s.logger).Debug("set added",
		slog.String("set_id", created.ID().String()),
		slog.String("workout_exercise_id", in.WorkoutExerciseID.String()))
	return setDTO(op, created)
}

func (s *setServiceImpl) ownedSet(ctx context.Context, op string, userID, setID uuid.UUID) (*domain.Set, error) {
	set, err := s.sets.GetByID(ctx, setID)
	if err != nil {
		return nil, lookup(op, err, ErrSetNotFound, setID)
	}
	if _, err := ownedWorkoutExercise(ctx, op, s.workoutExercises, s.workouts, set.WorkoutExerciseID(), userID); err != nil {
		return nil, err
	}
	return set, nil
}

// Update implements SetService.Update.
func (s *setServiceImpl) Update(ctx context.Context, userID, setID uuid.UUID, p domain.SetUpdate) (domain.SetDTO, error) {
	const op = "update_set"

	set, err := s.ownedSet(ctx, op, userID, setID)
	if err != nil {
		return domain.SetDTO{}, err
	}
	if err := set.Update(p); err != nil {
		return domain.SetDTO{}, Translate(op, err)
	}
	if err := s.sets.Update(ctx, set); err != nil {
		return domain.SetDTO{}, Translate(op, err)
	}
	return setDTO(op, set)
}

// Delete implements SetService.Delete.
func (s *setServiceImpl) Delete(ctx context.Context, userID, setID uuid.UUID) error {
	const op = "delete_set"

	if _, err := s.ownedSet(ctx, op, userID, setID); err != nil {
		return err
	}
	if err := s.sets.Delete(ctx, setID); err != nil {
		return lookup(op, err, ErrSetNotFound, setID)
	}
	return nil
}

// Get implements SetService.Get.
func (s *setServiceImpl) Get(ctx context.Context, userID, setID uuid.UUID) (domain.SetDTO, error) {
	const op = "get_set"

	set, err := s.sets.GetVisible(ctx, setID, userID)
	if err != nil {
		return domain.SetDTO{}, lookup(op, err, ErrSetNotFound, setID)
	}
	return setDTO(op, set)
}

// List implements SetService.List.
func (s *setServiceImpl) List(ctx context.Context, userID, workoutExerciseID uuid.UUID) ([]domain.SetDTO, error) {
	const op = "list_sets"

	sets, err := s.sets.ListVisibleByWorkoutExercise(ctx, workoutExerciseID, userID)
	if err != nil {
		return nil, Translate(op, err)
	}
	out := make([]domain.SetDTO, 0, len(sets))
	for _, set := range sets {
		dto, err := setDTO(op, set)
		if err != nil {
			return nil, err
		}
		out = append(out, dto)
	}
	return out, nil
}

// Progress implements SetService.Progress.
func (s *setServiceImpl) Progress(ctx context.Context, userID, exerciseID uuid.UUID) ([]domain.ProgressPoint, error) {
	const op = "progress"

	if _, err := s.exercises.GetByID(ctx, exerciseID); err != nil {
		return nil, lookup(op, err, ErrExerciseNotFound, exerciseID)
	}
	points, err := s.sets.Progress(ctx, userID, exerciseID)
	if err != nil {
		return nil, Translate(op, err)
	}
	return points, nil
}
