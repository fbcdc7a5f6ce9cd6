package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/phrazzld/lift-api/internal/domain"
	"github.com/phrazzld/lift-api/internal/platform/logger"
	"github.com/phrazzld/lift-api/internal/store"
)

// ExerciseInput is the payload for creating an exercise.
type ExerciseInput struct {
	Name        string
	MuscleID    uuid.UUID
	Info        *string
	TutorialURL *string
}

// CatalogService manages the shared muscle and exercise catalog. Reads are
// open to everyone; writes require an admin.
type CatalogService interface {
	CreateMuscle(ctx context.Context, actorID uuid.UUID, name string) (domain.MuscleDTO, error)
	ListMuscles(ctx context.Context) ([]domain.MuscleDTO, error)

	CreateExercise(ctx context.Context, actorID uuid.UUID, in ExerciseInput) (domain.ExerciseDTO, error)
	UpdateExercise(ctx context.Context, actorID, exerciseID uuid.UUID, p domain.ExerciseUpdate) (domain.ExerciseDTO, error)
	DeleteExercise(ctx context.Context, actorID, exerciseID uuid.UUID) error
	GetExercise(ctx context.Context, exerciseID uuid.UUID) (domain.ExerciseDTO, error)

	// ListExercises returns every exercise, or those of one muscle when
	// muscleID is set.
	ListExercises(ctx context.Context, muscleID *uuid.UUID) ([]domain.ExerciseDTO, error)
}

type catalogServiceImpl struct {
	users     store.UserStore
	muscles   store.MuscleStore
	exercises store.ExerciseStore
	logger    *slog.Logger
}

var _ CatalogService = (*catalogServiceImpl)(nil)

// NewCatalogService creates a CatalogService.
// It returns an error if any of the required dependencies are nil.
func NewCatalogService(
	users store.UserStore,
	muscles store.MuscleStore,
	exercises store.ExerciseStore,
	logger *slog.Logger,
) (CatalogService, error) {
	if users == nil {
		return nil, domain.NewValidationError("users", "cannot be nil", domain.ErrValidation)
	}
	if muscles == nil {
		return nil, domain.NewValidationError("muscles", "cannot be nil", domain.ErrValidation)
	}
	if exercises == nil {
		return nil, domain.NewValidationError("exercises", "cannot be nil", domain.ErrValidation)
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &catalogServiceImpl{
		users:     users,
		muscles:   muscles,
		exercises: exercises,
		logger:    logger.With(slog.String("component", "catalog_service")),
	}, nil
}

func (s *catalogServiceImpl) requireAdmin(ctx context.Context, op string, actorID uuid.UUID) error {
	u, err := s.users.GetByID(ctx, actorID)
	if err != nil {
		return lookup(op, err, ErrUserNotFound, actorID)
	}
	if !u.IsAdmin() {
		logger.FromContextOrDefault(ctx, s.logger).Warn("catalog write by non-admin rejected",
			slog.String("user_id", actorID.String()),
			slog.String("operation", op))
		return forbidden(op, ErrNotAdmin)
	}
	return nil
}

func (s *catalogServiceImpl) requireMuscle(ctx context.Context, op string, muscleID uuid.UUID) error {
	if _, err := s.muscles.GetByID(ctx, muscleID); err != nil {
		return lookup(op, err, ErrMuscleNotFound, muscleID)
	}
	return nil
}

// CreateMuscle implements CatalogService.CreateMuscle.
func (s *catalogServiceImpl) CreateMuscle(ctx context.Context, actorID uuid.UUID, name string) (domain.MuscleDTO, error) {
	const op = "create_muscle"

	if err := s.requireAdmin(ctx, op, actorID); err != nil {
		return domain.MuscleDTO{}, err
	}
	m, err := domain.NewMuscle(domain.MuscleParams{Name: name})
	if err != nil {
		return domain.MuscleDTO{}, Translate(op, err)
	}
	created, err := s.muscles.Create(ctx, m)
	if err != nil {
		return domain.MuscleDTO{}, Translate(op, err)
	}
	dto, err := created.ToDTO()
	if err != nil {
		return domain.MuscleDTO{}, Translate(op, err)
	}
	return dto, nil
}

// ListMuscles implements CatalogService.ListMuscles.
func (s *catalogServiceImpl) ListMuscles(ctx context.Context) ([]domain.MuscleDTO, error) {
	const op = "list_muscles"

	muscles, err := s.muscles.List(ctx)
	if err != nil {
		return nil, Translate(op, err)
	}
	out := make([]domain.MuscleDTO, 0, len(muscles))
	for _, m := range muscles {
		dto, err := m.ToDTO()
		if err != nil {
			return nil, Translate(op, err)
		}
		out = append(out, dto)
	}
	return out, nil
}

func exerciseDTO(op string, e *domain.Exercise) (domain.ExerciseDTO, error) {
	dto, err := e.ToDTO()
	if err != nil {
		return domain.ExerciseDTO{}, Translate(op, err)
	}
	return dto, nil
}

// CreateExercise implements CatalogService.CreateExercise.
func (s *catalogServiceImpl) CreateExercise(ctx context.Context, actorID uuid.UUID, in ExerciseInput) (domain.ExerciseDTO, error) {
	const op = "create_exercise"

	if err := s.requireAdmin(ctx, op, actorID); err != nil {
		return domain.ExerciseDTO{}, err
	}
	e, err := domain.NewExercise(domain.ExerciseParams{
		Name:        in.Name,
		MuscleID:    in.MuscleID,
		Info:        in.Info,
		TutorialURL: in.TutorialURL,
	})
	if err != nil {
		return domain.ExerciseDTO{}, Translate(op, err)
	}
	if err := s.requireMuscle(ctx, op, in.MuscleID); err != nil {
		return domain.ExerciseDTO{}, err
	}

	created, err := s.exercises.Create(ctx, e)
	if err != nil {
		return domain.ExerciseDTO{}, Translate(op, err)
	}
	logger.FromContextOrDefault(ctx, s.logger).Info("exercise created",
		slog.String("exercise_id", created.ID().String()))
	return exerciseDTO(op, created)
}

// UpdateExercise implements CatalogService.UpdateExercise.
func (s *catalogServiceImpl) UpdateExercise(ctx context.Context, actorID, exerciseID uuid.UUID, p domain.ExerciseUpdate) (domain.ExerciseDTO, error) {
	const op = "update_exercise"

	if err := s.requireAdmin(ctx, op, actorID); err != nil {
		return domain.ExerciseDTO{}, err
	}
	e, err := s.exercises.GetByID(ctx, exerciseID)
	if err != nil {
		return domain.ExerciseDTO{}, lookup(op, err, ErrExerciseNotFound, exerciseID)
	}
	if err := e.Update(p); err != nil {
		return domain.ExerciseDTO{}, Translate(op, err)
	}
	if p.MuscleID.Present() {
		if err := s.requireMuscle(ctx, op, e.MuscleID()); err != nil {
			return domain.ExerciseDTO{}, err
		}
	}
	if err := s.exercises.Update(ctx, e); err != nil {
		return domain.ExerciseDTO{}, Translate(op, err)
	}
	return exerciseDTO(op, e)
}

// DeleteExercise implements CatalogService.DeleteExercise.
func (s *catalogServiceImpl) DeleteExercise(ctx context.Context, actorID, exerciseID uuid.UUID) error {
	const op = "delete_exercise"

	if err := s.requireAdmin(ctx, op, actorID); err != nil {
		return err
	}
	if err := s.exercises.Delete(ctx, exerciseID); err != nil {
		if store.IsInUseError(err) {
			return &Error{
				Kind:    KindConflict,
				Op:      op,
				Message: fmt.Sprintf("%s: %s", ErrExerciseInUse, exerciseID),
				Payload: map[string]any{"id": exerciseID},
				Err:     ErrExerciseInUse,
			}
		}
		return lookup(op, err, ErrExerciseNotFound, exerciseID)
	}
	return nil
}

// GetExercise implements CatalogService.GetExercise.
func (s *catalogServiceImpl) GetExercise(ctx context.Context, exerciseID uuid.UUID) (domain.ExerciseDTO, error) {
	const op = "get_exercise"

	e, err := s.exercises.GetByID(ctx, exerciseID)
	if err != nil {
		return domain.ExerciseDTO{}, lookup(op, err, ErrExerciseNotFound, exerciseID)
	}
	return exerciseDTO(op, e)
}

// ListExercises implements CatalogService.ListExercises.
func (s *catalogServiceImpl) ListExercises(ctx context.Context, muscleID *uuid.UUID) ([]domain.ExerciseDTO, error) {
	const op = "list_exercises"

	exercises, err := s.exercises.List(ctx, muscleID)
	if err != nil {
		return nil, Translate(op, err)
	}
	out := make([]domain.ExerciseDTO, 0, len(exercises))
	for _, e := range exercises {
		dto, err := exerciseDTO(op, e)
		if err != nil {
			return nil, err
		}
		out = append(out, dto)
	}
	return out, nil
}
