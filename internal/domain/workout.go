package domain

import (
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

// RoutineTimestampLayout is appended to the name of a started routine.
const RoutineTimestampLayout = "2006-01-02 15:04:05.000"

// Workout is a named collection of exercises owned by one user.
type Workout struct {
	id        uuid.UUID
	userID    uuid.UUID
	name      Name
	isPrivate bool
	isRoutine bool
	createdAt time.Time
	updatedAt time.Time
}

// WorkoutParams carries workout fields. A nil IsPrivate means private.
type WorkoutParams struct {
	Name      string
	UserID    uuid.UUID
	IsPrivate *bool
	IsRoutine bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// WorkoutUpdate is a partial change.
type WorkoutUpdate struct {
	Name      Patch[string]
	IsPrivate Patch[bool]
}

// WorkoutDTO is the public projection of a workout.
type WorkoutDTO struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	Name      string    `json:"name"`
	IsPrivate bool      `json:"is_private"`
	IsRoutine bool      `json:"is_routine"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// WorkoutDetailsDTO is a workout with its ordered exercises and sets.
type WorkoutDetailsDTO struct {
	WorkoutDTO
	Exercises []WorkoutExerciseDetailsDTO `json:"exercises"`
}

// NewWorkout builds a workout that has not been stored yet.
func NewWorkout(p WorkoutParams) (*Workout, error) {
	return buildWorkout(uuid.Nil, p)
}

// RestoreWorkout rehydrates a stored workout.
func RestoreWorkout(id uuid.UUID, p WorkoutParams) (*Workout, error) {
	if id == uuid.Nil {
		return nil, missingProps("id")
	}
	return buildWorkout(id, p)
}

func buildWorkout(id uuid.UUID, p WorkoutParams) (*Workout, error) {
	var missing []string
	if p.Name == "" {
		missing = append(missing, "name")
	}
	if p.UserID == uuid.Nil {
		missing = append(missing, "userId")
	}
	if len(missing) > 0 {
		return nil, missingProps(missing...)
	}

	name, err := NewName(p.Name)
	if err != nil {
		return nil, err
	}
	private := true
	if p.IsPrivate != nil {
		private = *p.IsPrivate
	}
	return &Workout{
		id:        id,
		userID:    p.UserID,
		name:      name,
		isPrivate: private,
		isRoutine: p.IsRoutine,
		createdAt: p.CreatedAt,
		updatedAt: p.UpdatedAt,
	}, nil
}

// Update re-validates only the supplied fields.
func (w *Workout) Update(p WorkoutUpdate) error {
	name, private := w.name, w.isPrivate

	if p.Name.Present() {
		v, ok := p.Name.Value()
		if !ok {
			return missingProps("name")
		}
		n, err := NewName(v)
		if err != nil {
			return err
		}
		name = n
	}
	if p.IsPrivate.Present() {
		v, ok := p.IsPrivate.Value()
		if !ok {
			return missingProps("isPrivate")
		}
		private = v
	}

	w.name, w.isPrivate = name, private
	return nil
}

// RoutineCopy returns an unsaved private routine named after w with the
// start time appended. The base name is cut so the result stays within the
// name limit.
func (w *Workout) RoutineCopy(ownerID uuid.UUID, now time.Time) (*Workout, error) {
	suffix := " " + now.UTC().Format(RoutineTimestampLayout)
	base := w.name.Value()
	if room := maxNameLength - utf8.RuneCountInString(suffix); utf8.RuneCountInString(base) > room {
		base = string([]rune(base)[:room])
	}
	private := true
	return NewWorkout(WorkoutParams{
		Name:      base + suffix,
		UserID:    ownerID,
		IsPrivate: &private,
		IsRoutine: true,
	})
}

func (w *Workout) ID() uuid.UUID { return w.id }
func (w *Workout) UserID() uuid.UUID { return w.userID }
func (w *Workout) Name() Name { return w.name }
func (w *Workout) IsPrivate() bool { return w.isPrivate }
func (w *Workout) IsRoutine() bool { return w.isRoutine }
func (w *Workout) CreatedAt() time.Time { return w.createdAt }

// IsOwnedBy reports whether userID owns the workout.
func (w *Workout) IsOwnedBy(userID uuid.UUID) bool {
	return w.userID == userID
}

// IsVisibleTo reports whether userID may read the workout.
func (w *Workout) IsVisibleTo(userID uuid.UUID) bool {
	return !w.isPrivate || w.IsOwnedBy(userID)
}

// ToDTO fails with ErrMissingID until persisted.
func (w *Workout) ToDTO() (WorkoutDTO, error) {
	if w.id == uuid.Nil {
		return WorkoutDTO{}, missingID("workout")
	}
	return WorkoutDTO{
		ID:        w.id,
		UserID:    w.userID,
		Name:      w.name.Value(),
		IsPrivate: w.isPrivate,
		IsRoutine: w.isRoutine,
		CreatedAt: w.createdAt,
		UpdatedAt: w.updatedAt,
	}, nil
}

// ToDetailsDTO attaches already projected exercises.
func (w *Workout) ToDetailsDTO(exercises []WorkoutExerciseDetailsDTO) (WorkoutDetailsDTO, error) {
	dto, err := w.ToDTO()
	if err != nil {
		return WorkoutDetailsDTO{}, err
	}
	if exercises == nil {
		exercises = []WorkoutExerciseDetailsDTO{}
	}
	return WorkoutDetailsDTO{WorkoutDTO: dto, Exercises: exercises}, nil
}
