package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/calewis/retell-api/internal/domain"
	"github.com/calewis/retell-api/internal/store"
)

// UserService provides user account operations.
type UserService interface {
	// CreateUser creates a new user with the specified email and password.
	// Returns store.ErrEmailExists when the email is already registered.
	CreateUser(ctx context.Context, email, password string) (*domain.User, error)

	// GetUser retrieves a user by their ID.
	GetUser(ctx context.Context, userID uuid.UUID) (*domain.User, error)

	// GetUserByEmail retrieves a user by their email address.
	// Returns store.ErrUserNotFound when no such user exists.
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)

	// UpdateUserPassword replaces a user's password. The read and write run
	// in a single transaction so a concurrent email change is not lost.
	UpdateUserPassword(ctx context.Context, userID uuid.UUID, newPassword string) error
}

// UserServiceImpl implements the UserService interface
type UserServiceImpl struct {
	userStore store.UserStore
	db        *sql.DB
	logger    *slog.Logger
}

// Ensure UserServiceImpl implements UserService
var _ UserService = (*UserServiceImpl)(nil)

// NewUserService creates a new UserService
func NewUserService(userStore store.UserStore, db *sql.DB, logger *slog.Logger) *UserServiceImpl {
	return &UserServiceImpl{
		userStore: userStore,
		db:        db,
		logger:    logger.With(slog.String("component", "user_service")),
	}
}

// CreateUser validates and persists a new user account.
func (s *UserServiceImpl) CreateUser(
	ctx context.Context,
	email, password string,
) (*domain.User, error) {
	user, err := domain.NewUser(email, password)
	if err != nil {
		return nil, fmt.Errorf("invalid user data: %w", err)
	}

	if err := s.userStore.Create(ctx, user); err != nil {
		if errors.Is(err, store.ErrEmailExists) {
			s.logger.Debug("registration rejected: email already exists",
				"email", email)
			return nil, err
		}
		s.logger.Error("failed to create user",
			"error", err,
			"email", email)
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.logger.Info("user created",
		"user_id", user.ID)

	return user, nil
}

// GetUser retrieves a user by their ID
func (s *UserServiceImpl) GetUser(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	user, err := s.userStore.GetByID(ctx, userID)
	if err != nil {
		if !errors.Is(err, store.ErrUserNotFound) {
			s.logger.Error("failed to retrieve user",
				"error", err,
				"user_id", userID)
		}
		return nil, err
	}
	return user, nil
}

// UpdateUserPassword replaces a user's password. The full user is loaded
// and written back inside one transaction.
func (s *UserServiceImpl) UpdateUserPassword(
	ctx context.Context,
	userID uuid.UUID,
	newPassword string,
) error {
	if len(newPassword) < 12 {
		return domain.ErrPasswordTooShort
	}
	if len(newPassword) > 72 {
		return domain.ErrPasswordTooLong
	}

	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		txStore := s.userStore.WithTx(tx)

		user, err := txStore.GetByID(ctx, userID)
		if err != nil {
			return err
		}

		user.Password = newPassword
		return txStore.Update(ctx, user)
	})
	if err != nil {
		if !errors.Is(err, store.ErrUserNotFound) {
			s.logger.Error("failed to update user password",
				"error", err,
				"user_id", userID)
		}
		return err
	}

	s.logger.Info("user password updated",
		"user_id", userID)

	return nil
}

// GetUserByEmail retrieves a user by their email address
func (s *UserServiceImpl) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	user, err := s.userStore.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			s.logger.Debug("user not found by email",
				"email", email)
		} else {
			s.logger.Error("failed to retrieve user by email",
				"error", err,
				"email", email)
		}
		return nil, err
	}
	return user, nil
}
