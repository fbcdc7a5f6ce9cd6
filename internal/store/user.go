package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/phrazzld/lift-api/internal/domain"
)

// UserStore persists users. Soft-deleted users are invisible to every
// lookup.
type UserStore interface {
	// Create inserts the user and returns the stored row. Returns a
	// *DuplicateError when the username or email is taken.
	Create(ctx context.Context, user *domain.User) (*domain.User, error)

	// GetByID returns ErrItemNotFound for unknown or soft-deleted users.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)

	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)

	// Update writes every mutable column of user.
	Update(ctx context.Context, user *domain.User) error

	// Delete removes the row permanently. Use Update after
	// domain.User.SoftDelete for the soft variant.
	Delete(ctx context.Context, id uuid.UUID) error

	// WithTx returns a UserStore bound to tx.
	WithTx(tx *sql.Tx) UserStore
}
