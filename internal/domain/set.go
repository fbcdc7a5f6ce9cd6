package domain

import (
	"time"

	"github.com/google/uuid"
)

// Set is one performed series of a workout exercise.
type Set struct {
	id                uuid.UUID
	workoutExerciseID uuid.UUID
	order             Order
	numReps           NumReps
	setWeight         SetWeight
	numDrops          NumDrops
	createdAt         time.Time
	updatedAt         time.Time
}

// SetParams carries set fields. Numeric fields default to zero.
type SetParams struct {
	WorkoutExerciseID uuid.UUID
	Order             *int
	NumReps           int
	SetWeight         float64
	NumDrops          int
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// SetUpdate is a partial change. Only Order may be nulled.
type SetUpdate struct {
	Order     Patch[int]
	NumReps   Patch[int]
	SetWeight Patch[float64]
	NumDrops  Patch[int]
}

// SetDTO is the public projection of a set.
type SetDTO struct {
	ID                uuid.UUID `json:"id"`
	WorkoutExerciseID uuid.UUID `json:"workout_exercise_id"`
	Order             *int      `json:"order"`
	NumReps           int       `json:"num_reps"`
	SetWeight         float64   `json:"set_weight"`
	NumDrops          int       `json:"num_drops"`
}

// ProgressPoint is the heaviest set recorded for an exercise on one day.
type ProgressPoint struct {
	Day       time.Time `json:"day"`
	MaxWeight float64   `json:"max_weight"`
}

// NewSet builds a set that has not been stored yet.
func NewSet(p SetParams) (*Set, error) {
	return buildSet(uuid.Nil, p)
}

// RestoreSet rehydrates a stored set.
func RestoreSet(id uuid.UUID, p SetParams) (*Set, error) {
	if id == uuid.Nil {
		return nil, missingProps("id")
	}
	return buildSet(id, p)
}

func buildSet(id uuid.UUID, p SetParams) (*Set, error) {
	if p.WorkoutExerciseID == uuid.Nil {
		return nil, missingProps("workoutExerciseId")
	}
	order, err := NewOrder(p.Order)
	if err != nil {
		return nil, err
	}
	reps, err := NewNumReps(p.NumReps)
	if err != nil {
		return nil, err
	}
	weight, err := NewSetWeight(p.SetWeight)
	if err != nil {
		return nil, err
	}
	drops, err := NewNumDrops(p.NumDrops)
	if err != nil {
		return nil, err
	}
	return &Set{
		id:                id,
		workoutExerciseID: p.WorkoutExerciseID,
		order:             order,
		numReps:           reps,
		setWeight:         weight,
		numDrops:          drops,
		createdAt:         p.CreatedAt,
		updatedAt:         p.UpdatedAt,
	}, nil
}

// Update re-validates only the supplied fields.
func (s *Set) Update(p SetUpdate) error {
	order, reps, weight, drops := s.order, s.numReps, s.setWeight, s.numDrops

	if p.Order.Present() {
		o, err := NewOrder(p.Order.Ptr())
		if err != nil {
			return err
		}
		order = o
	}
	if p.NumReps.Present() {
		v, ok := p.NumReps.Value()
		if !ok {
			return missingProps("numReps")
		}
		r, err := NewNumReps(v)
		if err != nil {
			return err
		}
		reps = r
	}
	if p.SetWeight.Present() {
		v, ok := p.SetWeight.Value()
		if !ok {
			return missingProps("setWeight")
		}
		w, err := NewSetWeight(v)
		if err != nil {
			return err
		}
		weight = w
	}
	if p.NumDrops.Present() {
		v, ok := p.NumDrops.Value()
		if !ok {
			return missingProps("numDrops")
		}
		d, err := NewNumDrops(v)
		if err != nil {
			return err
		}
		drops = d
	}

	s.order, s.numReps, s.setWeight, s.numDrops = order, reps, weight, drops
	return nil
}

// CopyTo returns an unsaved copy of s attached to workoutExerciseID.
func (s *Set) CopyTo(workoutExerciseID uuid.UUID) (*Set, error) {
	return NewSet(SetParams{
		WorkoutExerciseID: workoutExerciseID,
		Order:             s.order.Value(),
		NumReps:           s.numReps.Value(),
		SetWeight:         s.setWeight.Value(),
		NumDrops:          s.numDrops.Value(),
	})
}

func (s *Set) ID() uuid.UUID { return s.id }
func (s *Set) WorkoutExerciseID() uuid.UUID { return s.workoutExerciseID }
func (s *Set) Order() Order { return s.order }
func (s *Set) NumReps() NumReps { return s.numReps }
func (s *Set) SetWeight() SetWeight { return s.setWeight }
func (s *Set) NumDrops() NumDrops { return s.numDrops }
func (s *Set) CreatedAt() time.Time { return s.createdAt }

// ToDTO fails with ErrMissingID until persisted.
func (s *Set) ToDTO() (SetDTO, error) {
	if s.id == uuid.Nil {
		return SetDTO{}, missingID("set")
	}
	return SetDTO{
		ID:                s.id,
		WorkoutExerciseID: s.workoutExerciseID,
		Order:             s.order.Value(),
		NumReps:           s.numReps.Value(),
		SetWeight:         s.setWeight.Value(),
		NumDrops:          s.numDrops.Value(),
	}, nil
}
