package handlers

import (
	"fmt"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/institute-service/internal/api/dto"
	"github.com/spec-kit/institute-service/internal/auth"
	"github.com/spec-kit/institute-service/internal/domain"
	"github.com/spec-kit/institute-service/internal/service"
	apperrors "github.com/spec-kit/institute-service/pkg/util"
)

// RolesHandler exposes role lookup and assignment.
type RolesHandler struct {
	roles *service.RoleService
}

// NewRolesHandler constructs handler.
func NewRolesHandler(roles *service.RoleService) *RolesHandler {
	return &RolesHandler{roles: roles}
}

// List handles GET /api/roles.
func (h *RolesHandler) List(c *fiber.Ctx) error {
	roles, err := h.roles.List(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"roles": dto.NewRoleResponses(roles)})
}

// UsersWithRole handles GET /api/roles/:roleid/users.
func (h *RolesHandler) UsersWithRole(c *fiber.Ctx) error {
	roleID, err := parseID(c, "roleid")
	if err != nil {
		return err
	}
	users, err := h.roles.UsersWithRole(c.UserContext(), roleID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"users": dto.NewUserResponses(users)})
}

// RolesForUser handles GET /api/users/:uid/roles.
func (h *RolesHandler) RolesForUser(c *fiber.Ctx) error {
	uid, err := parseID(c, "uid")
	if err != nil {
		return err
	}
	roles, err := h.roles.RolesForUser(c.UserContext(), uid)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"roles": dto.NewRoleResponses(roles)})
}

// Assign handles POST /api/users/roles.
func (h *RolesHandler) Assign(c *fiber.Ctx) error {
	var req dto.AssignRoleRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidPayload()
	}
	if req.UID <= 0 || req.RoleID <= 0 {
		return apperrors.NewInvalidRequest("UID and RoleID are required", nil)
	}
	actor, _ := auth.IdentityFromContext(c)
	if err := h.roles.Assign(c.UserContext(), actor, domain.RoleAssignment{UID: req.UID, RoleID: req.RoleID}); err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(dto.MessageResponse{
		Message: fmt.Sprintf("Role %d Assigned to User %d", req.RoleID, req.UID),
	})
}

// Remove handles DELETE /api/users/:uid/roles/:roleid.
func (h *RolesHandler) Remove(c *fiber.Ctx) error {
	uid, err := parseID(c, "uid")
	if err != nil {
		return err
	}
	roleID, err := parseID(c, "roleid")
	if err != nil {
		return err
	}
	actor, _ := auth.IdentityFromContext(c)
	if err := h.roles.Remove(c.UserContext(), actor, domain.RoleAssignment{UID: uid, RoleID: roleID}); err != nil {
		return err
	}
	return c.JSON(dto.MessageResponse{
		Message: fmt.Sprintf("Role %d removed from User with UID %d.", roleID, uid),
	})
}
