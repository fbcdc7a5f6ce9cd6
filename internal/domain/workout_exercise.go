package domain

import (
	"time"

	"github.com/google/uuid"
)

// WorkoutExercise places an exercise inside a workout at an optional
// position.
type WorkoutExercise struct {
	id         uuid.UUID
	workoutID  uuid.UUID
	exerciseID uuid.UUID
	order      Order
	exercise   *Exercise
	createdAt  time.Time
	updatedAt  time.Time
}

// WorkoutExerciseParams carries join fields. Workout and Exercise are
// optional attached aggregates; when given alongside an id they must agree
// with it.
type WorkoutExerciseParams struct {
	WorkoutID  uuid.UUID
	ExerciseID uuid.UUID
	Order      *int
	Workout    *Workout
	Exercise   *Exercise
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// WorkoutExerciseUpdate is a partial change.
type WorkoutExerciseUpdate struct {
	Order Patch[int]
}

// WorkoutExerciseDTO is the public projection of a workout exercise.
type WorkoutExerciseDTO struct {
	ID         uuid.UUID `json:"id"`
	WorkoutID  uuid.UUID `json:"workout_id"`
	ExerciseID uuid.UUID `json:"exercise_id"`
	Order      *int      `json:"order"`
}

// WorkoutExerciseDetailsDTO adds the exercise and its ordered sets.
type WorkoutExerciseDetailsDTO struct {
	WorkoutExerciseDTO
	Exercise *ExerciseDTO `json:"exercise,omitempty"`
	Sets     []SetDTO     `json:"sets"`
}

// NewWorkoutExercise builds a join row that has not been stored yet.
func NewWorkoutExercise(p WorkoutExerciseParams) (*WorkoutExercise, error) {
	return buildWorkoutExercise(uuid.Nil, p)
}

// RestoreWorkoutExercise rehydrates a stored join row.
func RestoreWorkoutExercise(id uuid.UUID, p WorkoutExerciseParams) (*WorkoutExercise, error) {
	if id == uuid.Nil {
		return nil, missingProps("id")
	}
	return buildWorkoutExercise(id, p)
}

func buildWorkoutExercise(id uuid.UUID, p WorkoutExerciseParams) (*WorkoutExercise, error) {
	var missing []string
	if p.WorkoutID == uuid.Nil && p.Workout == nil {
		missing = append(missing, "workoutId")
	}
	if p.ExerciseID == uuid.Nil && p.Exercise == nil {
		missing = append(missing, "exerciseId")
	}
	if len(missing) > 0 {
		return nil, missingProps(missing...)
	}

	var attachedWorkout, attachedExercise uuid.UUID
	if p.Workout != nil {
		attachedWorkout = p.Workout.ID()
	}
	if p.Exercise != nil {
		attachedExercise = p.Exercise.ID()
	}
	workoutID, err := agreeingID(p.WorkoutID, attachedWorkout, p.Workout != nil, "workoutId", ErrWorkoutMismatch)
	if err != nil {
		return nil, err
	}
	exerciseID, err := agreeingID(p.ExerciseID, attachedExercise, p.Exercise != nil, "exerciseId", ErrExerciseMismatch)
	if err != nil {
		return nil, err
	}

	order, err := NewOrder(p.Order)
	if err != nil {
		return nil, err
	}

	return &WorkoutExercise{
		id:         id,
		workoutID:  workoutID,
		exerciseID: exerciseID,
		order:      order,
		exercise:   p.Exercise,
		createdAt:  p.CreatedAt,
		updatedAt:  p.UpdatedAt,
	}, nil
}

// agreeingID resolves a reference from an explicit id and an optionally
// attached aggregate, failing with code when both are given and differ.
func agreeingID(id, attachedID uuid.UUID, attached bool, field string, code error) (uuid.UUID, error) {
	switch {
	case !attached:
		return id, nil
	case id == uuid.Nil && attachedID == uuid.Nil:
		return uuid.Nil, missingProps(field)
	case id == uuid.Nil:
		return attachedID, nil
	case id != attachedID:
		return uuid.Nil, NewValidationError(field, "does not match attached aggregate", code)
	}
	return id, nil
}

// Update re-validates only the supplied fields. A null order clears the
// position.
func (we *WorkoutExercise) Update(p WorkoutExerciseUpdate) error {
	if !p.Order.Present() {
		return nil
	}
	order, err := NewOrder(p.Order.Ptr())
	if err != nil {
		return err
	}
	we.order = order
	return nil
}

// CopyTo returns an unsaved copy of we attached to workoutID.
func (we *WorkoutExercise) CopyTo(workoutID uuid.UUID) (*WorkoutExercise, error) {
	return NewWorkoutExercise(WorkoutExerciseParams{
		WorkoutID:  workoutID,
		ExerciseID: we.exerciseID,
		Order:      we.order.Value(),
	})
}

func (we *WorkoutExercise) ID() uuid.UUID { return we.id }
func (we *WorkoutExercise) WorkoutID() uuid.UUID { return we.workoutID }
func (we *WorkoutExercise) ExerciseID() uuid.UUID { return we.exerciseID }
func (we *WorkoutExercise) Order() Order { return we.order }
func (we *WorkoutExercise) Exercise() *Exercise { return we.exercise }
func (we *WorkoutExercise) CreatedAt() time.Time { return we.createdAt }

// ToDTO fails with ErrMissingID until persisted.
func (we *WorkoutExercise) ToDTO() (WorkoutExerciseDTO, error) {
	if we.id == uuid.Nil {
		return WorkoutExerciseDTO{}, missingID("workoutExercise")
	}
	return WorkoutExerciseDTO{
		ID:         we.id,
		WorkoutID:  we.workoutID,
		ExerciseID: we.exerciseID,
		Order:      we.order.Value(),
	}, nil
}

// ToDetailsDTO projects we with its attached exercise and the given sets.
func (we *WorkoutExercise) ToDetailsDTO(sets []*Set) (WorkoutExerciseDetailsDTO, error) {
	dto, err := we.ToDTO()
	if err != nil {
		return WorkoutExerciseDetailsDTO{}, err
	}
	out := WorkoutExerciseDetailsDTO{WorkoutExerciseDTO: dto, Sets: make([]SetDTO, 0, len(sets))}
	if we.exercise != nil {
		ex, err := we.exercise.ToDTO()
		if err != nil {
			return WorkoutExerciseDetailsDTO{}, err
		}
		out.Exercise = &ex
	}
	for _, s := range sets {
		sdto, err := s.ToDTO()
		if err != nil {
			return WorkoutExerciseDetailsDTO{}, err
		}
		out.Sets = append(out.Sets, sdto)
	}
	return out, nil
}
