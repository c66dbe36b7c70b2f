package handlers

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/institute-service/internal/api/dto"
	"github.com/spec-kit/institute-service/internal/service"
	apperrors "github.com/spec-kit/institute-service/pkg/util"
)

// UsersHandler exposes account administration.
type UsersHandler struct {
	users *service.UserService
	auth  *service.AuthService
}

// NewUsersHandler constructs handler. Accounts created by an admin go
// through the same registration path as self sign-up.
func NewUsersHandler(users *service.UserService, authService *service.AuthService) *UsersHandler {
	return &UsersHandler{users: users, auth: authService}
}

// Create handles POST /api/users.
func (h *UsersHandler) Create(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidPayload()
	}
	dob, err := req.ParseDOB()
	if err != nil {
		return apperrors.NewInvalidRequest("DOB must be formatted as YYYY-MM-DD", nil)
	}
	user, err := h.auth.Register(c.UserContext(), req.Input(dob))
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "User created successfully",
		"UID":     user.UID,
	})
}

// List handles GET /api/users.
func (h *UsersHandler) List(c *fiber.Ctx) error {
	users, err := h.users.List(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"users": dto.NewUserResponses(users)})
}

// Get handles GET /api/users/:uid.
func (h *UsersHandler) Get(c *fiber.Ctx) error {
	uid, err := parseID(c, "uid")
	if err != nil {
		return err
	}
	user, err := h.users.Get(c.UserContext(), uid)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"user": dto.NewUserResponse(user)})
}

// Update handles PUT /api/users/:uid.
func (h *UsersHandler) Update(c *fiber.Ctx) error {
	uid, err := parseID(c, "uid")
	if err != nil {
		return err
	}
	var req dto.UserRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidPayload()
	}
	dob, err := req.ParseDOB()
	if err != nil {
		return apperrors.NewInvalidRequest("DOB must be formatted as YYYY-MM-DD", nil)
	}

	user, err := h.users.Get(c.UserContext(), uid)
	if err != nil {
		return err
	}
	req.ApplyTo(user, dob)
	if err := h.users.Update(c.UserContext(), user); err != nil {
		return err
	}
	return c.JSON(dto.MessageResponse{Message: fmt.Sprintf("User with UID %d updated successfully.", uid)})
}

// Delete handles DELETE /api/users/:uid.
func (h *UsersHandler) Delete(c *fiber.Ctx) error {
	uid, err := parseID(c, "uid")
	if err != nil {
		return err
	}
	if err := h.users.Delete(c.UserContext(), uid); err != nil {
		return err
	}
	return c.JSON(dto.MessageResponse{Message: fmt.Sprintf("User with UID %d deleted successfully.", uid)})
}
