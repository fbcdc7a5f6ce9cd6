package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/phrazzld/lift-api/internal/domain"
	"github.com/phrazzld/lift-api/internal/events"
	"github.com/phrazzld/lift-api/internal/platform/logger"
	"github.com/phrazzld/lift-api/internal/store"
)

// UserService provides account and profile operations.
type UserService interface {
	// Register creates an account and publishes user.created.
	Register(ctx context.Context, p domain.NewUserParams) (domain.UserDTO, error)

	Get(ctx context.Context, userID uuid.UUID) (domain.UserDTO, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, p domain.UserUpdate) (domain.UserDTO, error)
	VerifyEmail(ctx context.Context, userID uuid.UUID) error

	// SoftDelete hides the account from lookups but keeps its row.
	SoftDelete(ctx context.Context, userID uuid.UUID) error
}

type userServiceImpl struct {
	users   store.UserStore
	emitter events.EventEmitter
	now     func() time.Time
	logger  *slog.Logger
}

var _ UserService = (*userServiceImpl)(nil)

// NewUserService creates a UserService.
// It returns an error if any of the required dependencies are nil.
func NewUserService(users store.UserStore, emitter events.EventEmitter, logger *slog.Logger) (UserService, error) {
	if users == nil {
		return nil, domain.NewValidationError("users", "cannot be nil", domain.ErrValidation)
	}
	if emitter == nil {
		return nil, domain.NewValidationError("emitter", "cannot be nil", domain.ErrValidation)
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &userServiceImpl{
		users:   users,
		emitter: emitter,
		now:     time.Now,
		logger:  logger.With(slog.String("component", "user_service")),
	}, nil
}

func userDTO(op string, u *domain.User) (domain.UserDTO, error) {
	dto, err := u.ToDTO()
	if err != nil {
		return domain.UserDTO{}, Translate(op, err)
	}
	return dto, nil
}

// Register implements UserService.Register. A failure to publish the event
// is logged; the account is already stored at that point.
func (s *userServiceImpl) Register(ctx context.Context, p domain.NewUserParams) (domain.UserDTO, error) {
	const op = "register"
	log := logger.FromContextOrDefault(ctx, s.logger)

	u, err := domain.NewUser(p)
	if err != nil {
		return domain.UserDTO{}, Translate(op, err)
	}

	created, err := s.users.Create(ctx, u)
	if err != nil {
		if store.IsDuplicateError(err) {
			log.Debug("registration with a taken username or email")
		}
		return domain.UserDTO{}, Translate(op, err)
	}

	if err := events.EmitAll(ctx, s.emitter, domain.WithAggregateID(u.PullEvents(), created.ID())); err != nil {
		log.Error("failed to publish user events",
			slog.String("user_id", created.ID().String()),
			slog.String("error", err.Error()))
	}

	log.Info("user registered", slog.String("user_id", created.ID().String()))
	return userDTO(op, created)
}

// Get implements UserService.Get.
func (s *userServiceImpl) Get(ctx context.Context, userID uuid.UUID) (domain.UserDTO, error) {
	const op = "get_user"

	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return domain.UserDTO{}, lookup(op, err, ErrUserNotFound, userID)
	}
	return userDTO(op, u)
}

func (s *userServiceImpl) modify(ctx context.Context, op string, userID uuid.UUID, fn func(*domain.User) error) (*domain.User, error) {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, lookup(op, err, ErrUserNotFound, userID)
	}
	if err := fn(u); err != nil {
		return nil, Translate(op, err)
	}
	if err := s.users.Update(ctx, u); err != nil {
		return nil, Translate(op, err)
	}
	return u, nil
}

// UpdateProfile implements UserService.UpdateProfile.
func (s *userServiceImpl) UpdateProfile(ctx context.Context, userID uuid.UUID, p domain.UserUpdate) (domain.UserDTO, error) {
	const op = "update_profile"

	u, err := s.modify(ctx, op, userID, func(u *domain.User) error { return u.Update(p) })
	if err != nil {
		return domain.UserDTO{}, err
	}
	return userDTO(op, u)
}

// VerifyEmail implements UserService.VerifyEmail.
func (s *userServiceImpl) VerifyEmail(ctx context.Context, userID uuid.UUID) error {
	_, err := s.modify(ctx, "verify_email", userID, func(u *domain.User) error {
		u.VerifyEmail()
		return nil
	})
	return err
}

// SoftDelete implements UserService.SoftDelete.
func (s *userServiceImpl) SoftDelete(ctx context.Context, userID uuid.UUID) error {
	_, err := s.modify(ctx, "soft_delete_user", userID, func(u *domain.User) error {
		u.SoftDelete(s.now())
		return nil
	})
	if err == nil {
		logger.FromContextOrDefault(ctx, s.logger).Info("user soft deleted",
			slog.String("user_id", userID.String()))
	}
	return err
}
