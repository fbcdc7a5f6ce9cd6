package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/phrazzld/lift-api/internal/domain"
	"github.com/phrazzld/lift-api/internal/store"
)

var workoutTable = table[*domain.Workout]{
	name:    "workouts",
	entity:  "workout",
	columns: []string{"id", "user_id", "name", "is_private", "is_routine", "created_at", "updated_at"},
	scan:    scanWorkout,
}

func scanWorkout(row rowScanner) (*domain.Workout, error) {
	var (
		id, userID           uuid.UUID
		name                 string
		private, routine     bool
		createdAt, updatedAt time.Time
	)
	if err := row.Scan(&id, &userID, &name, &private, &routine, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	return domain.RestoreWorkout(id, domain.WorkoutParams{
		Name:      name,
		UserID:    userID,
		IsPrivate: &private,
		IsRoutine: routine,
		CreatedAt: createdAt,
		UpdatedAt: updatedAt,
	})
}

// PostgresWorkoutStore implements store.WorkoutStore.
type PostgresWorkoutStore struct {
	baseStore[*domain.Workout]
}

// NewPostgresWorkoutStore creates a workout store on db. A nil logger
// falls back to slog.Default.
func NewPostgresWorkoutStore(db store.DBTX, logger *slog.Logger) *PostgresWorkoutStore {
	return &PostgresWorkoutStore{baseStore: newBaseStore(db, logger, workoutTable)}
}

var _ store.WorkoutStore = (*PostgresWorkoutStore)(nil)

// WithTx implements store.WorkoutStore.WithTx.
func (s *PostgresWorkoutStore) WithTx(tx *sql.Tx) store.WorkoutStore {
	return &PostgresWorkoutStore{baseStore: s.withDB(tx)}
}

func (s *PostgresWorkoutStore) nameGuard(w *domain.Workout) guardFn {
	return s.unique(w.ID(),
		map[string]any{"userId": w.UserID(), "name": w.Name().Value()},
		[]string{"user_id", "name"},
		[]any{w.UserID(), w.Name().Value()})
}

// Create implements store.WorkoutStore.Create.
func (s *PostgresWorkoutStore) Create(ctx context.Context, w *domain.Workout) (*domain.Workout, error) {
	return s.insert(ctx, w.ID(),
		[]string{"user_id", "name", "is_private", "is_routine"},
		[]any{w.UserID(), w.Name().Value(), w.IsPrivate(), w.IsRoutine()},
		s.nameGuard(w))
}

// GetByID implements store.WorkoutStore.GetByID.
func (s *PostgresWorkoutStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Workout, error) {
	return s.getByID(ctx, id)
}

// ListByUser implements store.WorkoutStore.ListByUser.
func (s *PostgresWorkoutStore) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Workout, error) {
	q := fmt.Sprintf("SELECT %s FROM workouts WHERE user_id = $1 ORDER BY created_at DESC, id", workoutTable.selectList(""))
	return s.queryMany(ctx, "list", q, userID)
}

// Update implements store.WorkoutStore.Update.
func (s *PostgresWorkoutStore) Update(ctx context.Context, w *domain.Workout) error {
	return s.update(ctx, w.ID(),
		[]string{"name", "is_private"},
		[]any{w.Name().Value(), w.IsPrivate()},
		s.nameGuard(w))
}

// Delete implements store.WorkoutStore.Delete.
func (s *PostgresWorkoutStore) Delete(ctx context.Context, id uuid.UUID) error {
	return s.delete(ctx, id)
}

// LockForUpdate implements store.WorkoutStore.LockForUpdate.
func (s *PostgresWorkoutStore) LockForUpdate(ctx context.Context, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	seen := make(map[uuid.UUID]struct{}, len(ids))
	sorted := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; !ok {
			seen[id] = struct{}{}
			sorted = append(sorted, id)
		}
	}
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].String() < sorted[j].String() })

	placeholders := make([]string, len(sorted))
	args := make([]any, len(sorted))
	for i, id := range sorted {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
		args[i] = id
	}
	q := fmt.Sprintf("SELECT id FROM workouts WHERE id IN (%s) ORDER BY id FOR UPDATE", strings.Join(placeholders, ", "))

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return s.fail("lock", "failed to lock workouts", err)
	}
	defer func() { _ = rows.Close() }()

	locked := 0
	for rows.Next() {
		locked++
	}
	if err := rows.Err(); err != nil {
		return s.fail("lock", "failed to lock workouts", err)
	}
	if locked != len(sorted) {
		return s.fail("lock", fmt.Sprintf("locked %d of %d workouts", locked, len(sorted)), store.ErrItemNotFound)
	}
	return nil
}
