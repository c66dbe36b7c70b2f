package service

import (
	"context"
	"errors"

	"github.com/spec-kit/institute-service/internal/domain"
	"github.com/spec-kit/institute-service/internal/repository"
	apperrors "github.com/spec-kit/institute-service/pkg/util"
)

// UserService exposes account administration.
type UserService struct {
	users repository.UserRepository
}

// NewUserService builds the service.
func NewUserService(users repository.UserRepository) *UserService {
	return &UserService{users: users}
}

func (s *UserService) List(ctx context.Context) ([]domain.User, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return users, nil
}

func (s *UserService) Get(ctx context.Context, uid int64) (*domain.User, error) {
	user, err := s.users.GetByUID(ctx, uid)
	if err != nil {
		return nil, notFoundOr(err, "User")
	}
	return user, nil
}

// Update overwrites the profile fields of an existing user.
func (s *UserService) Update(ctx context.Context, user *domain.User) error {
	if err := s.users.Update(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return apperrors.NewConflict("User with this email already exists", nil)
		}
		return notFoundOr(err, "User")
	}
	return nil
}

func (s *UserService) Delete(ctx context.Context, uid int64) error {
	if err := s.users.Delete(ctx, uid); err != nil {
		return notFoundOr(err, "User")
	}
	return nil
}
