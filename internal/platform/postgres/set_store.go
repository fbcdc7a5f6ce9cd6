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

var setTable = table[*domain.Set]{
	name:    "sets",
	entity:  "set",
	columns: []string{"id", "workout_exercise_id", `"order"`, "num_reps", "set_weight", "num_drops", "created_at", "updated_at"},
	scan: func(row rowScanner) (*domain.Set, error) {
		var (
			id                   uuid.UUID
			p                    domain.SetParams
			createdAt, updatedAt time.Time
		)
		if err := row.Scan(&id, &p.WorkoutExerciseID, &p.Order, &p.NumReps, &p.SetWeight, &p.NumDrops, &createdAt, &updatedAt); err != nil {
			return nil, err
		}
		p.CreatedAt, p.UpdatedAt = createdAt, updatedAt
		return domain.RestoreSet(id, p)
	},
}

// visibleSets joins a set to its owning workout. A set is visible to the
// workout owner, and to everyone when the workout is public.
const visibleSets = `FROM sets s
	JOIN workout_exercises we ON we.id = s.workout_exercise_id
	JOIN workouts w ON w.id = we.workout_id
	WHERE (w.user_id = $1 OR w.is_private = FALSE)`

// PostgresSetStore implements store.SetStore.
type PostgresSetStore struct {
	baseStore[*domain.Set]
}

// NewPostgresSetStore creates a set store on db.
func NewPostgresSetStore(db store.DBTX, logger *slog.Logger) *PostgresSetStore {
	return &PostgresSetStore{baseStore: newBaseStore(db, logger, setTable)}
}

var _ store.SetStore = (*PostgresSetStore)(nil)

// WithTx implements store.SetStore.WithTx.
func (s *PostgresSetStore) WithTx(tx *sql.Tx) store.SetStore {
	return &PostgresSetStore{baseStore: s.withDB(tx)}
}

// Create implements store.SetStore.Create.
func (s *PostgresSetStore) Create(ctx context.Context, set *domain.Set) (*domain.Set, error) {
	return s.insert(ctx, set.ID(),
		[]string{"workout_exercise_id", `"order"`, "num_reps", "set_weight", "num_drops"},
		[]any{set.WorkoutExerciseID(), nullableOrder(set.Order()), set.NumReps().Value(), set.SetWeight().Value(), set.NumDrops().Value()})
}

// GetByID implements store.SetStore.GetByID.
func (s *PostgresSetStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Set, error) {
	return s.getByID(ctx, id)
}

// ListByWorkoutExercise implements store.SetStore.ListByWorkoutExercise.
func (s *PostgresSetStore) ListByWorkoutExercise(ctx context.Context, workoutExerciseID uuid.UUID) ([]*domain.Set, error) {
	q := fmt.Sprintf("SELECT %s FROM sets WHERE workout_exercise_id = $1 ORDER BY %s", setTable.selectList(""), orderClause)
	return s.queryMany(ctx, "list", q, workoutExerciseID)
}

// GetVisible implements store.SetStore.GetVisible.
func (s *PostgresSetStore) GetVisible(ctx context.Context, id, userID uuid.UUID) (*domain.Set, error) {
	q := fmt.Sprintf("SELECT %s %s AND s.id = $2", setTable.selectList("s"), visibleSets)
	return s.queryOne(ctx, "get", q, userID, id)
}

// ListVisibleByWorkoutExercise implements store.SetStore.ListVisibleByWorkoutExercise.
func (s *PostgresSetStore) ListVisibleByWorkoutExercise(ctx context.Context, workoutExerciseID, userID uuid.UUID) ([]*domain.Set, error) {
	q := fmt.Sprintf(`SELECT %s %s AND s.workout_exercise_id = $2
		ORDER BY s."order" ASC NULLS LAST, s.created_at ASC, s.id ASC`, setTable.selectList("s"), visibleSets)
	return s.queryMany(ctx, "list", q, userID, workoutExerciseID)
}

// Progress implements store.SetStore.Progress.
func (s *PostgresSetStore) Progress(ctx context.Context, userID, exerciseID uuid.UUID) ([]domain.ProgressPoint, error) {
	const q = `SELECT date_trunc('day', s.created_at) AS day, MAX(s.set_weight)
		FROM sets s
		JOIN workout_exercises we ON we.id = s.workout_exercise_id
		JOIN workouts w ON w.id = we.workout_id
		WHERE w.user_id = $1 AND we.exercise_id = $2
		GROUP BY day
		ORDER BY day ASC`

	rows, err := s.db.QueryContext(ctx, q, userID, exerciseID)
	if err != nil {
		return nil, s.fail("progress", "query failed", err)
	}
	defer func() { _ = rows.Close() }()

	points := make([]domain.ProgressPoint, 0)
	for rows.Next() {
		var p domain.ProgressPoint
		if err := rows.Scan(&p.Day, &p.MaxWeight); err != nil {
			return nil, s.fail("progress", "failed to scan row", err)
		}
		points = append(points, p)
	}
	if err := rows.Err(); err != nil {
		return nil, s.fail("progress", "row iteration failed", err)
	}
	return points, nil
}

// NextOrder implements store.SetStore.NextOrder.
func (s *PostgresSetStore) NextOrder(ctx context.Context, workoutExerciseID uuid.UUID) (int, error) {
	return nextOrder(ctx, s.db, "sets", "workout_exercise_id", workoutExerciseID)
}

// Update implements store.SetStore.Update.
func (s *PostgresSetStore) Update(ctx context.Context, set *domain.Set) error {
	return s.update(ctx, set.ID(),
		[]string{`"order"`, "num_reps", "set_weight", "num_drops"},
		[]any{nullableOrder(set.Order()), set.NumReps().Value(), set.SetWeight().Value(), set.NumDrops().Value()})
}

// Delete implements store.SetStore.Delete.
func (s *PostgresSetStore) Delete(ctx context.Context, id uuid.UUID) error {
	return s.delete(ctx, id)
}
