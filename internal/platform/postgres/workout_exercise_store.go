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

// orderClause sorts siblings by position with unordered rows last.
const orderClause = `"order" ASC NULLS LAST, created_at ASC, id ASC`

var workoutExerciseTable = table[*domain.WorkoutExercise]{
	name:    "workout_exercises",
	entity:  "workoutExercise",
	columns: []string{"id", "workout_id", "exercise_id", `"order"`, "created_at", "updated_at"},
	scan: func(row rowScanner) (*domain.WorkoutExercise, error) {
		var (
			id                   uuid.UUID
			p                    domain.WorkoutExerciseParams
			createdAt, updatedAt time.Time
		)
		if err := row.Scan(&id, &p.WorkoutID, &p.ExerciseID, &p.Order, &createdAt, &updatedAt); err != nil {
			return nil, err
		}
		p.CreatedAt, p.UpdatedAt = createdAt, updatedAt
		return domain.RestoreWorkoutExercise(id, p)
	},
}

// PostgresWorkoutExerciseStore implements store.WorkoutExerciseStore.
type PostgresWorkoutExerciseStore struct {
	baseStore[*domain.WorkoutExercise]
}

// NewPostgresWorkoutExerciseStore creates a workout exercise store on db.
func NewPostgresWorkoutExerciseStore(db store.DBTX, logger *slog.Logger) *PostgresWorkoutExerciseStore {
	return &PostgresWorkoutExerciseStore{baseStore: newBaseStore(db, logger, workoutExerciseTable)}
}

var _ store.WorkoutExerciseStore = (*PostgresWorkoutExerciseStore)(nil)

// WithTx implements store.WorkoutExerciseStore.WithTx.
func (s *PostgresWorkoutExerciseStore) WithTx(tx *sql.Tx) store.WorkoutExerciseStore {
	return &PostgresWorkoutExerciseStore{baseStore: s.withDB(tx)}
}

// Create implements store.WorkoutExerciseStore.Create.
func (s *PostgresWorkoutExerciseStore) Create(ctx context.Context, we *domain.WorkoutExercise) (*domain.WorkoutExercise, error) {
	return s.insert(ctx, we.ID(),
		[]string{"workout_id", "exercise_id", `"order"`},
		[]any{we.WorkoutID(), we.ExerciseID(), nullableOrder(we.Order())})
}

// GetByID implements store.WorkoutExerciseStore.GetByID.
func (s *PostgresWorkoutExerciseStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.WorkoutExercise, error) {
	return s.getByID(ctx, id)
}

// ListByWorkout implements store.WorkoutExerciseStore.ListByWorkout.
func (s *PostgresWorkoutExerciseStore) ListByWorkout(ctx context.Context, workoutID uuid.UUID) ([]*domain.WorkoutExercise, error) {
	q := fmt.Sprintf(`SELECT %s, %s
		FROM workout_exercises we
		JOIN exercises e ON e.id = we.exercise_id
		WHERE we.workout_id = $1
		ORDER BY we."order" ASC NULLS LAST, we.created_at ASC, we.id ASC`,
		workoutExerciseTable.selectList("we"), exerciseTable.selectList("e"))

	rows, err := s.db.QueryContext(ctx, q, workoutID)
	if err != nil {
		return nil, s.fail("list", "query failed", err)
	}
	defer func() { _ = rows.Close() }()

	items := make([]*domain.WorkoutExercise, 0)
	for rows.Next() {
		var (
			id                       uuid.UUID
			p                        domain.WorkoutExerciseParams
			createdAt, updatedAt     time.Time
			exID                     uuid.UUID
			ep                       domain.ExerciseParams
			exCreatedAt, exUpdatedAt time.Time
		)
		if err := rows.Scan(
			&id, &p.WorkoutID, &p.ExerciseID, &p.Order, &createdAt, &updatedAt,
			&exID, &ep.Name, &ep.MuscleID, &ep.Info, &ep.TutorialURL, &exCreatedAt, &exUpdatedAt,
		); err != nil {
			return nil, s.fail("list", "failed to scan row", err)
		}
		ep.CreatedAt, ep.UpdatedAt = exCreatedAt, exUpdatedAt
		exercise, err := domain.RestoreExercise(exID, ep)
		if err != nil {
			return nil, s.fail("list", "failed to map exercise", err)
		}
		p.Exercise = exercise
		p.CreatedAt, p.UpdatedAt = createdAt, updatedAt
		we, err := domain.RestoreWorkoutExercise(id, p)
		if err != nil {
			return nil, s.fail("list", "failed to map row", err)
		}
		items = append(items, we)
	}
	if err := rows.Err(); err != nil {
		return nil, s.fail("list", "row iteration failed", err)
	}
	return items, nil
}

// NextOrder implements store.WorkoutExerciseStore.NextOrder.
func (s *PostgresWorkoutExerciseStore) NextOrder(ctx context.Context, workoutID uuid.UUID) (int, error) {
	return nextOrder(ctx, s.db, "workout_exercises", "workout_id", workoutID)
}

// Update implements store.WorkoutExerciseStore.Update.
func (s *PostgresWorkoutExerciseStore) Update(ctx context.Context, we *domain.WorkoutExercise) error {
	return s.update(ctx, we.ID(), []string{`"order"`}, []any{nullableOrder(we.Order())})
}

// Delete implements store.WorkoutExerciseStore.Delete.
func (s *PostgresWorkoutExerciseStore) Delete(ctx context.Context, id uuid.UUID) error {
	return s.delete(ctx, id)
}

func nextOrder(ctx context.Context, db store.DBTX, tableName, parentColumn string, parentID uuid.UUID) (int, error) {
	q := fmt.Sprintf(`SELECT COALESCE(MAX("order") + 1, 0) FROM %s WHERE %s = $1`, tableName, parentColumn)
	var next int
	if err := db.QueryRowContext(ctx, q, parentID).Scan(&next); err != nil {
		return 0, store.NewStoreError(tableName, "next order", "query failed", err)
	}
	return next, nil
}
