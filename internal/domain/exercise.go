package domain

import (
	"time"

	"github.com/google/uuid"
)

// Muscle is a catalog entry exercises are grouped under.
type Muscle struct {
	id        uuid.UUID
	name      MuscleName
	createdAt time.Time
	updatedAt time.Time
}

// MuscleParams carries muscle fields.
type MuscleParams struct {
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// MuscleDTO is the public projection of a muscle.
type MuscleDTO struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

// NewMuscle builds a muscle that has not been stored yet.
func NewMuscle(p MuscleParams) (*Muscle, error) {
	return buildMuscle(uuid.Nil, p)
}

// RestoreMuscle rehydrates a stored muscle.
func RestoreMuscle(id uuid.UUID, p MuscleParams) (*Muscle, error) {
	if id == uuid.Nil {
		return nil, missingProps("id")
	}
	return buildMuscle(id, p)
}

func buildMuscle(id uuid.UUID, p MuscleParams) (*Muscle, error) {
	if p.Name == "" {
		return nil, missingProps("name")
	}
	name, err := NewMuscleName(p.Name)
	if err != nil {
		return nil, err
	}
	return &Muscle{id: id, name: name, createdAt: p.CreatedAt, updatedAt: p.UpdatedAt}, nil
}

func (m *Muscle) ID() uuid.UUID { return m.id }
func (m *Muscle) Name() MuscleName { return m.name }

// ToDTO fails with ErrMissingID until persisted.
func (m *Muscle) ToDTO() (MuscleDTO, error) {
	if m.id == uuid.Nil {
		return MuscleDTO{}, missingID("muscle")
	}
	return MuscleDTO{ID: m.id, Name: m.name.Value()}, nil
}

// Exercise is a catalog movement that workouts reference.
type Exercise struct {
	id          uuid.UUID
	name        Name
	muscleID    uuid.UUID
	info        *Info
	tutorialURL *TutorialURL
	createdAt   time.Time
	updatedAt   time.Time
}

// ExerciseParams carries exercise fields.
type ExerciseParams struct {
	Name        string
	MuscleID    uuid.UUID
	Info        *string
	TutorialURL *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ExerciseUpdate is a partial change. Info and TutorialURL may be nulled.
type ExerciseUpdate struct {
	Name        Patch[string]
	MuscleID    Patch[uuid.UUID]
	Info        Patch[string]
	TutorialURL Patch[string]
}

// ExerciseDTO is the public projection of an exercise.
type ExerciseDTO struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	MuscleID    uuid.UUID `json:"muscle_id"`
	Info        *string   `json:"info"`
	TutorialURL *string   `json:"tutorial_url"`
}

// NewExercise builds an exercise that has not been stored yet.
func NewExercise(p ExerciseParams) (*Exercise, error) {
	return buildExercise(uuid.Nil, p)
}

// RestoreExercise rehydrates a stored exercise.
func RestoreExercise(id uuid.UUID, p ExerciseParams) (*Exercise, error) {
	if id == uuid.Nil {
		return nil, missingProps("id")
	}
	return buildExercise(id, p)
}

func buildExercise(id uuid.UUID, p ExerciseParams) (*Exercise, error) {
	var missing []string
	if p.Name == "" {
		missing = append(missing, "name")
	}
	if p.MuscleID == uuid.Nil {
		missing = append(missing, "muscleId")
	}
	if len(missing) > 0 {
		return nil, missingProps(missing...)
	}

	name, err := NewName(p.Name)
	if err != nil {
		return nil, err
	}
	info, err := optionalInfo(p.Info)
	if err != nil {
		return nil, err
	}
	tutorial, err := optionalTutorialURL(p.TutorialURL)
	if err != nil {
		return nil, err
	}

	return &Exercise{
		id:          id,
		name:        name,
		muscleID:    p.MuscleID,
		info:        info,
		tutorialURL: tutorial,
		createdAt:   p.CreatedAt,
		updatedAt:   p.UpdatedAt,
	}, nil
}

// Update re-validates only the supplied fields. An explicit null clears
// info or tutorialUrl; it is rejected for name and muscleId.
func (e *Exercise) Update(p ExerciseUpdate) error {
	name, muscleID, info, tutorial := e.name, e.muscleID, e.info, e.tutorialURL

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
	if p.MuscleID.Present() {
		v, ok := p.MuscleID.Value()
		if !ok || v == uuid.Nil {
			return missingProps("muscleId")
		}
		muscleID = v
	}
	if p.Info.Present() {
		i, err := optionalInfo(p.Info.Ptr())
		if err != nil {
			return err
		}
		info = i
	}
	if p.TutorialURL.Present() {
		t, err := optionalTutorialURL(p.TutorialURL.Ptr())
		if err != nil {
			return err
		}
		tutorial = t
	}

	e.name, e.muscleID, e.info, e.tutorialURL = name, muscleID, info, tutorial
	return nil
}

func (e *Exercise) ID() uuid.UUID { return e.id }
func (e *Exercise) Name() Name { return e.name }
func (e *Exercise) MuscleID() uuid.UUID { return e.muscleID }
func (e *Exercise) CreatedAt() time.Time { return e.createdAt }

// Info returns nil when unset.
func (e *Exercise) Info() *string {
	if e.info == nil {
		return nil
	}
	v := e.info.Value()
	return &v
}

// TutorialURL returns nil when unset.
func (e *Exercise) TutorialURL() *string {
	if e.tutorialURL == nil {
		return nil
	}
	v := e.tutorialURL.Value()
	return &v
}

// ToDTO fails with ErrMissingID until persisted.
func (e *Exercise) ToDTO() (ExerciseDTO, error) {
	if e.id == uuid.Nil {
		return ExerciseDTO{}, missingID("exercise")
	}
	return ExerciseDTO{
		ID:          e.id,
		Name:        e.name.Value(),
		MuscleID:    e.muscleID,
		Info:        e.Info(),
		TutorialURL: e.TutorialURL(),
	}, nil
}

func optionalInfo(v *string) (*Info, error) {
	if v == nil {
		return nil, nil
	}
	i, err := NewInfo(*v)
	if err != nil {
		return nil, err
	}
	return &i, nil
}

func optionalTutorialURL(v *string) (*TutorialURL, error) {
	if v == nil {
		return nil, nil
	}
	t, err := NewTutorialURL(*v)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
