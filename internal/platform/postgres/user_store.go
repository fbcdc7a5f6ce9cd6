package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/phrazzld/lift-api/internal/domain"
	"github.com/phrazzld/lift-api/internal/store"
)

var userTable = table[*domain.User]{
	name:   "users",
	entity: "user",
	columns: []string{
		"id", "username", "email", "password_hash", "age", "weight", "height",
		"is_email_verified", "is_admin", "deleted_at", "created_at", "updated_at",
	},
	scan: scanUser,
}

func scanUser(row rowScanner) (*domain.User, error) {
	var (
		id                   uuid.UUID
		p                    domain.UserParams
		deletedAt            sql.NullTime
		createdAt, updatedAt time.Time
	)
	if err := row.Scan(
		&id, &p.Username, &p.Email, &p.PasswordHash, &p.Age, &p.Weight, &p.Height,
		&p.IsEmailVerified, &p.IsAdmin, &deletedAt, &createdAt, &updatedAt,
	); err != nil {
		return nil, err
	}
	if deletedAt.Valid {
		t := deletedAt.Time
		p.DeletedAt = &t
	}
	p.CreatedAt, p.UpdatedAt = createdAt, updatedAt
	return domain.RestoreUser(id, p)
}

// PostgresUserStore implements store.UserStore.
type PostgresUserStore struct {
	baseStore[*domain.User]
}

// NewPostgresUserStore creates a user store on db.
func NewPostgresUserStore(db store.DBTX, logger *slog.Logger) *PostgresUserStore {
	return &PostgresUserStore{baseStore: newBaseStore(db, logger, userTable)}
}

var _ store.UserStore = (*PostgresUserStore)(nil)

// WithTx implements store.UserStore.WithTx.
func (s *PostgresUserStore) WithTx(tx *sql.Tx) store.UserStore {
	return &PostgresUserStore{baseStore: s.withDB(tx)}
}

func (s *PostgresUserStore) guards(u *domain.User) []guardFn {
	return []guardFn{
		s.unique(u.ID(), map[string]any{"username": u.Username().Value()},
			[]string{"username"}, []any{u.Username().Value()}),
		s.unique(u.ID(), map[string]any{"email": u.Email().Value()},
			[]string{"email"}, []any{u.Email().Value()}),
	}
}

// Create implements store.UserStore.Create.
func (s *PostgresUserStore) Create(ctx context.Context, u *domain.User) (*domain.User, error) {
	return s.insert(ctx, u.ID(),
		[]string{"username", "email", "password_hash", "age", "weight", "height", "is_email_verified", "is_admin"},
		[]any{
			u.Username().Value(), u.Email().Value(), u.PasswordHash().Value(),
			u.Age(), u.Weight(), u.Height(), u.IsEmailVerified(), u.IsAdmin(),
		},
		s.guards(u)...)
}

func (s *PostgresUserStore) getLive(ctx context.Context, column string, value any) (*domain.User, error) {
	q := fmt.Sprintf("SELECT %s FROM users WHERE %s = $1 AND deleted_at IS NULL", userTable.selectList(""), column)
	return s.queryOne(ctx, "get", q, value)
}

// GetByID implements store.UserStore.GetByID.
func (s *PostgresUserStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return s.getLive(ctx, "id", id)
}

// GetByUsername implements store.UserStore.GetByUsername.
func (s *PostgresUserStore) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	return s.getLive(ctx, "username", strings.ToLower(strings.TrimSpace(username)))
}

// GetByEmail implements store.UserStore.GetByEmail.
func (s *PostgresUserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return s.getLive(ctx, "email", strings.ToLower(strings.TrimSpace(email)))
}

// Update implements store.UserStore.Update.
func (s *PostgresUserStore) Update(ctx context.Context, u *domain.User) error {
	var deletedAt any
	if t := u.DeletedAt(); t != nil {
		deletedAt = *t
	}
	return s.update(ctx, u.ID(),
		[]string{"username", "password_hash", "age", "weight", "height", "is_email_verified", "deleted_at"},
		[]any{
			u.Username().Value(), u.PasswordHash().Value(),
			u.Age(), u.Weight(), u.Height(), u.IsEmailVerified(), deletedAt,
		},
		s.guards(u)...)
}

// Delete implements store.UserStore.Delete.
func (s *PostgresUserStore) Delete(ctx context.Context, id uuid.UUID) error {
	return s.delete(ctx, id)
}
