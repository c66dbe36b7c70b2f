package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/institute-service/internal/domain"
	"github.com/spec-kit/institute-service/internal/events"
	"github.com/spec-kit/institute-service/internal/repository"
	apperrors "github.com/spec-kit/institute-service/pkg/util"
)

// RoleService manages role lookups and user-role assignments.
type RoleService struct {
	roles      repository.RoleRepository
	users      repository.UserRepository
	dispatcher events.Dispatcher
}

// NewRoleService builds the service.
func NewRoleService(roles repository.RoleRepository, users repository.UserRepository, dispatcher events.Dispatcher) *RoleService {
	return &RoleService{roles: roles, users: users, dispatcher: dispatcher}
}

func (s *RoleService) List(ctx context.Context) ([]domain.Role, error) {
	roles, err := s.roles.List(ctx)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return roles, nil
}

// UsersWithRole lists holders of a role.
func (s *RoleService) UsersWithRole(ctx context.Context, roleID int64) ([]domain.User, error) {
	if err := s.requireRole(ctx, roleID); err != nil {
		return nil, err
	}
	users, err := s.roles.UsersWithRole(ctx, roleID)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return users, nil
}

// RolesForUser lists the roles assigned to a user.
func (s *RoleService) RolesForUser(ctx context.Context, uid int64) ([]domain.Role, error) {
	if err := s.requireUser(ctx, uid); err != nil {
		return nil, err
	}
	roles, err := s.roles.RolesForUser(ctx, uid)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return roles, nil
}

// Assign grants a role. Granting a role the user already holds is a conflict.
func (s *RoleService) Assign(ctx context.Context, actor domain.Identity, assignment domain.RoleAssignment) error {
	if err := s.requireUser(ctx, assignment.UID); err != nil {
		return err
	}
	if err := s.requireRole(ctx, assignment.RoleID); err != nil {
		return err
	}
	if err := s.roles.Assign(ctx, assignment); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return apperrors.NewConflict("User already has this role assigned.", map[string]any{
				"uid":     assignment.UID,
				"role_id": assignment.RoleID,
			})
		}
		return apperrors.NewInternalError(err)
	}
	s.publish(ctx, events.EventRoleAssigned, actor, assignment)
	return nil
}

// Remove revokes a role.
func (s *RoleService) Remove(ctx context.Context, actor domain.Identity, assignment domain.RoleAssignment) error {
	if err := s.requireUser(ctx, assignment.UID); err != nil {
		return err
	}
	if err := s.requireRole(ctx, assignment.RoleID); err != nil {
		return err
	}
	if err := s.roles.Remove(ctx, assignment); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewDomainError(apperrors.CodeNotFound,
				fmt.Sprintf("User %d does not have Role %d", assignment.UID, assignment.RoleID),
				http.StatusNotFound, nil)
		}
		return apperrors.NewInternalError(err)
	}
	s.publish(ctx, events.EventRoleRemoved, actor, assignment)
	return nil
}

func (s *RoleService) requireUser(ctx context.Context, uid int64) error {
	if _, err := s.users.GetByUID(ctx, uid); err != nil {
		return notFoundOr(err, "User")
	}
	return nil
}

func (s *RoleService) requireRole(ctx context.Context, roleID int64) error {
	if _, err := s.roles.GetByID(ctx, roleID); err != nil {
		return notFoundOr(err, "Role")
	}
	return nil
}

func (s *RoleService) publish(ctx context.Context, eventType events.EventType, actor domain.Identity, assignment domain.RoleAssignment) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, events.New(eventType, assignment.UID, events.RoleChangedPayload{
		RoleID:  assignment.RoleID,
		ActorID: actor.UID,
	}))
}
