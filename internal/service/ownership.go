package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/phrazzld/lift-api/internal/domain"
	"github.com/phrazzld/lift-api/internal/store"
)

// workoutCache resolves owning workouts once per operation.
type workoutCache struct {
	workouts store.WorkoutStore
	seen     map[uuid.UUID]*domain.Workout
	order    []uuid.UUID
}

func newWorkoutCache(workouts store.WorkoutStore) *workoutCache {
	return &workoutCache{workouts: workouts, seen: make(map[uuid.UUID]*domain.Workout)}
}

func (c *workoutCache) get(ctx context.Context, op string, id uuid.UUID) (*domain.Workout, error) {
	if w, ok := c.seen[id]; ok {
		return w, nil
	}
	w, err := c.workouts.GetByID(ctx, id)
	if err != nil {
		return nil, lookup(op, err, ErrWorkoutNotFound, id)
	}
	c.seen[id] = w
	c.order = append(c.order, id)
	return w, nil
}

// owned loads the workout and requires userID to own it.
func (c *workoutCache) owned(ctx context.Context, op string, id, userID uuid.UUID) (*domain.Workout, error) {
	w, err := c.get(ctx, op, id)
	if err != nil {
		return nil, err
	}
	if !w.IsOwnedBy(userID) {
		return nil, forbidden(op, ErrWorkoutNotBelongToUser)
	}
	return w, nil
}

// ids returns every workout resolved so far, in first-seen order.
func (c *workoutCache) ids() []uuid.UUID {
	return append([]uuid.UUID(nil), c.order...)
}
