package service

import (
	"context"
	"errors"

	"oohunt/internal/domain"
	"oohunt/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// UserService defines the interface for admin account management
type UserService interface {
	DeleteUser(ctx context.Context, id string) error
}

type userService struct {
	userRepo repository.UserRepository
	logger   *zap.Logger
}

// NewUserService creates a new instance of UserService
func NewUserService(userRepo repository.UserRepository, logger *zap.Logger) UserService {
	return &userService{userRepo: userRepo, logger: logger}
}

// DeleteUser removes an account and its favorites in one transaction
func (s *userService) DeleteUser(ctx context.Context, id string) error {
	userID, err := uuid.Parse(id)
	if err != nil {
		return domain.NewNotFoundError("user not found")
	}

	if err := s.userRepo.Delete(ctx, userID); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return domain.NewNotFoundError("user not found")
		}
		return domain.NewInternalError("failed to delete user", err)
	}

	s.logger.Info("user deleted", zap.String("user_id", userID.String()))
	return nil
}
