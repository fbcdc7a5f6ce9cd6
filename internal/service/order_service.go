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

// OrderChange moves one item to a new position. A nil Order clears it.
type OrderChange struct {
	ID    uuid.UUID
	Order *int
}

// OrderService reorders the exercises of a workout and the sets of a
// workout exercise. A batch is applied in one transaction: either every
// change is persisted or none is.
type OrderService interface {
	ChangeExerciseOrders(ctx context.Context, userID uuid.UUID, changes []OrderChange) error
	ChangeSetOrders(ctx context.Context, userID uuid.UUID, changes []OrderChange) error
}

type orderServiceImpl struct {
	db               store.TxBeginner
	workouts         store.WorkoutStore
	workoutExercises store.WorkoutExerciseStore
	sets             store.SetStore
	logger           *slog.Logger
}

var _ OrderService = (*orderServiceImpl)(nil)

// NewOrderService creates an OrderService.
// It returns an error if any of the required dependencies are nil.
func NewOrderService(
	db store.TxBeginner,
	workouts store.WorkoutStore,
	workoutExercises store.WorkoutExerciseStore,
	sets store.SetStore,
	logger *slog.Logger,
) (OrderService, error) {
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

	return &orderServiceImpl{
		db:               db,
		workouts:         workouts,
		workoutExercises: workoutExercises,
		sets:             sets,
		logger:           logger.With(slog.String("component", "order_service")),
	}, nil
}

// ChangeExerciseOrders implements OrderService.ChangeExerciseOrders.
func (s *orderServiceImpl) ChangeExerciseOrders(ctx context.Context, userID uuid.UUID, changes []OrderChange) error {
	const op = "change_exercise_orders"
	log := logger.FromContextOrDefault(ctx, s.logger)

	if len(changes) == 0 {
		log.Debug("no order changes")
		return nil
	}

	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		workouts := newWorkoutCache(s.workouts.WithTx(tx))
		txWorkoutExercises := s.workoutExercises.WithTx(tx)

		items := make([]*domain.WorkoutExercise, 0, len(changes))
		for _, c := range changes {
			we, err := txWorkoutExercises.GetByID(ctx, c.ID)
			if err != nil {
				return lookup(op, err, ErrWorkoutExerciseNotFound, c.ID)
			}
			if _, err := workouts.owned(ctx, op, we.WorkoutID(), userID); err != nil {
				return err
			}
			if err := we.Update(domain.WorkoutExerciseUpdate{Order: domain.FromPtr(c.Order)}); err != nil {
				return Translate(op, err)
			}
			items = append(items, we)
		}

		if err := workouts.workouts.LockForUpdate(ctx, workouts.ids()); err != nil {
			return Translate(op, err)
		}

		for _, we := range items {
			if err := txWorkoutExercises.Update(ctx, we); err != nil {
				log.Error("failed to persist exercise order",
					slog.String("workout_exercise_id", we.ID().String()),
					slog.String("error", err.Error()))
				return Translate(op, err)
			}
		}
		return nil
	})
	if err != nil {
		return Translate(op, err)
	}

	log.Info("exercise orders changed", slog.Int("count", len(changes)))
	return nil
}

// ChangeSetOrders implements OrderService.ChangeSetOrders.
func (s *orderServiceImpl) ChangeSetOrders(ctx context.Context, userID uuid.UUID, changes []OrderChange) error {
	const op = "change_set_orders"
	log := logger.FromContextOrDefault(ctx, s.logger)

	if len(changes) == 0 {
		log.Debug("no order changes")
		return nil
	}

	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		workouts := newWorkoutCache(s.workouts.WithTx(tx))
		txWorkoutExercises := s.workoutExercises.WithTx(tx)
		txSets := s.sets.WithTx(tx)

		parents := make(map[uuid.UUID]uuid.UUID)
		items := make([]*domain.Set, 0, len(changes))
		for _, c := range changes {
			set, err := txSets.GetByID(ctx, c.ID)
			if err != nil {
				return lookup(op, err, ErrSetNotFound, c.ID)
			}

			workoutID, ok := parents[set.WorkoutExerciseID()]
			if !ok {
				we, err := txWorkoutExercises.GetByID(ctx, set.WorkoutExerciseID())
				if err != nil {
					return lookup(op, err, ErrWorkoutExerciseNotFound, set.WorkoutExerciseID())
				}
				workoutID = we.WorkoutID()
				parents[set.WorkoutExerciseID()] = workoutID
			}
			if _, err := workouts.owned(ctx, op, workoutID, userID); err != nil {
				return err
			}

			if err := set.Update(domain.SetUpdate{Order: domain.FromPtr(c.Order)}); err != nil {
				return Translate(op, err)
			}
			items = append(items, set)
		}

		if err := workouts.workouts.LockForUpdate(ctx, workouts.ids()); err != nil {
			return Translate(op, err)
		}

		for _, set := range items {
			if err := txSets.Update(ctx, set); err != nil {
				log.Error("failed to persist set order",
					slog.String("set_id", set.ID().String()),
					slog.String("error", err.Error()))
				return Translate(op, err)
			}
		}
		return nil
	})
	if err != nil {
		return Translate(op, err)
	}

	log.Info("set orders changed", slog.Int("count", len(changes)))
	return nil
}
