package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/phrazzld/lift-api/internal/domain"
	"github.com/phrazzld/lift-api/internal/store"
)

var muscleTable = table[*domain.Muscle]{
	name:    "muscles",
	entity:  "muscle",
	columns: []string{"id", "name", "created_at", "updated_at"},
	scan: func(row rowScanner) (*domain.Muscle, error) {
		var (
			id                   uuid.UUID
			name                 string
			createdAt, updatedAt time.Time
		)
		if err := row.Scan(&id, &name, &createdAt, &updatedAt); err != nil {
			return nil, err
		}
		return domain.RestoreMuscle(id, domain.MuscleParams{Name: name, CreatedAt: createdAt, UpdatedAt: updatedAt})
	},
}

// PostgresMuscleStore implements store.MuscleStore.
type PostgresMuscleStore struct {
	baseStore[*domain.Muscle]
}

// NewPostgresMuscleStore creates a muscle store on db.
func NewPostgresMuscleStore(db store.DBTX, logger *slog.Logger) *PostgresMuscleStore {
	return &PostgresMuscleStore{baseStore: newBaseStore(db, logger, muscleTable)}
}

var _ store.MuscleStore = (*PostgresMuscleStore)(nil)

// WithTx implements store.MuscleStore.WithTx.
func (s *PostgresMuscleStore) WithTx(tx *sql.Tx) store.MuscleStore {
	return &PostgresMuscleStore{baseStore: s.withDB(tx)}
}

// Create implements store.MuscleStore.Create.
func (s *PostgresMuscleStore) Create(ctx context.Context, m *domain.Muscle) (*domain.Muscle, error) {
	name := m.Name().Value()
	return s.insert(ctx, m.ID(), []string{"name"}, []any{name},
		s.unique(m.ID(), map[string]any{"name": name}, []string{"name"}, []any{name}))
}

// GetByID implements store.MuscleStore.GetByID.
func (s *PostgresMuscleStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Muscle, error) {
	return s.getByID(ctx, id)
}

// List implements store.MuscleStore.List.
func (s *PostgresMuscleStore) List(ctx context.Context) ([]*domain.Muscle, error) {
	return s.queryMany(ctx, "list", fmt.Sprintf("SELECT %s FROM muscles ORDER BY name", muscleTable.selectList("")))
}

// Delete implements store.MuscleStore.Delete.
func (s *PostgresMuscleStore) Delete(ctx context.Context, id uuid.UUID) error {
	return s.delete(ctx, id)
}

var exerciseTable = table[*domain.Exercise]{
	name:    "exercises",
	entity:  "exercise",
	columns: []string{"id", "name", "muscle_id", "info", "tutorial_url", "created_at", "updated_at"},
	scan: func(row rowScanner) (*domain.Exercise, error) {
		var (
			id                   uuid.UUID
			p                    domain.ExerciseParams
			createdAt, updatedAt time.Time
		)
		if err := row.Scan(&id, &p.Name, &p.MuscleID, &p.Info, &p.TutorialURL, &createdAt, &updatedAt); err != nil {
			return nil, err
		}
		p.CreatedAt, p.UpdatedAt = createdAt, updatedAt
		return domain.RestoreExercise(id, p)
	},
}

// PostgresExerciseStore implements store.ExerciseStore.
type PostgresExerciseStore struct {
	baseStore[*domain.Exercise]
}

// NewPostgresExerciseStore creates an exercise store on db.
func NewPostgresExerciseStore(db store.DBTX, logger *slog.Logger) *PostgresExerciseStore {
	return &PostgresExerciseStore{baseStore: newBaseStore(db, logger, exerciseTable)}
}

var _ store.ExerciseStore = (*PostgresExerciseStore)(nil)

// WithTx implements store.ExerciseStore.WithTx.
func (s *PostgresExerciseStore) WithTx(tx *sql.Tx) store.ExerciseStore {
	return &PostgresExerciseStore{baseStore: s.withDB(tx)}
}

func (s *PostgresExerciseStore) nameGuard(e *domain.Exercise) guardFn {
	name := e.Name().Value()
	return s.unique(e.ID(), map[string]any{"name": name}, []string{"name"}, []any{name})
}

// Create implements store.ExerciseStore.Create.
func (s *PostgresExerciseStore) Create(ctx context.Context, e *domain.Exercise) (*domain.Exercise, error) {
	return s.insert(ctx, e.ID(),
		[]string{"name", "muscle_id", "info", "tutorial_url"},
		[]any{e.Name().Value(), e.MuscleID(), e.Info(), e.TutorialURL()},
		s.nameGuard(e))
}

// GetByID implements store.ExerciseStore.GetByID.
func (s *PostgresExerciseStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Exercise, error) {
	return s.getByID(ctx, id)
}

// List implements store.ExerciseStore.List.
func (s *PostgresExerciseStore) List(ctx context.Context, muscleID *uuid.UUID) ([]*domain.Exercise, error) {
	if muscleID == nil {
		return s.queryMany(ctx, "list", fmt.Sprintf("SELECT %s FROM exercises ORDER BY name", exerciseTable.selectList("")))
	}
	q := fmt.Sprintf("SELECT %s FROM exercises WHERE muscle_id = $1 ORDER BY name", exerciseTable.selectList(""))
	return s.queryMany(ctx, "list", q, *muscleID)
}

// Update implements store.ExerciseStore.Update.
func (s *PostgresExerciseStore) Update(ctx context.Context, e *domain.Exercise) error {
	return s.update(ctx, e.ID(),
		[]string{"name", "muscle_id", "info", "tutorial_url"},
		[]any{e.Name().Value(), e.MuscleID(), e.Info(), e.TutorialURL()},
		s.nameGuard(e))
}

// Delete implements store.ExerciseStore.Delete.
func (s *PostgresExerciseStore) Delete(ctx context.Context, id uuid.UUID) error {
	return s.delete(ctx, id)
}
