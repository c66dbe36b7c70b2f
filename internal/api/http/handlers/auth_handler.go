package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/institute-service/internal/api/dto"
	"github.com/spec-kit/institute-service/internal/auth"
	"github.com/spec-kit/institute-service/internal/service"
	apperrors "github.com/spec-kit/institute-service/pkg/util"
)

// AuthHandler exposes registration and session endpoints.
type AuthHandler struct {
	auth         *service.AuthService
	users        *service.UserService
	cookieSecure bool
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService, users *service.UserService, cookieSecure bool) *AuthHandler {
	return &AuthHandler{auth: authService, users: users, cookieSecure: cookieSecure}
}

// Register handles POST /api/register.
func (h *AuthHandler) Register(c *fiber.Ctx) error {
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

	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"message": "User registered successfully",
		"UID":     user.UID,
	})
}

// Login handles POST /api/login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidPayload()
	}

	user, session, err := h.auth.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return err
	}

	auth.SetSessionCookie(c, session.Token, session.ExpiresAt, h.cookieSecure)
	return c.JSON(fiber.Map{
		"message": "Login successful",
		"user":    dto.IdentityResponse{UID: user.UID, Roles: session.Identity.Roles},
		"auth":    dto.AuthResponse{Token: session.Token, ExpiresAt: session.ExpiresAt},
	})
}

// Logout handles POST /api/logout. It succeeds with or without a session.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	auth.ClearSessionCookie(c, h.cookieSecure)
	return c.JSON(dto.MessageResponse{Message: "Logged out successfully"})
}

// CheckAuth handles GET /api/check-auth.
func (h *AuthHandler) CheckAuth(c *fiber.Ctx) error {
	identity, ok := auth.IdentityFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("Unauthorized")
	}
	return c.JSON(fiber.Map{
		"message": "Authorized",
		"user":    dto.IdentityResponse{UID: identity.UID, Roles: identity.Roles},
	})
}

// TestToken handles GET /api/test-token. Disabled in production.
func (h *AuthHandler) TestToken(c *fiber.Ctx) error {
	session, err := h.auth.TestSession()
	if err != nil {
		return err
	}
	auth.SetSessionCookie(c, session.Token, session.ExpiresAt, h.cookieSecure)
	return c.JSON(fiber.Map{
		"message": "Test token issued",
		"user":    dto.IdentityResponse{UID: session.Identity.UID, Roles: session.Identity.Roles},
		"auth":    dto.AuthResponse{Token: session.Token, ExpiresAt: session.ExpiresAt},
	})
}

// Profile handles GET /api/profile.
func (h *AuthHandler) Profile(c *fiber.Ctx) error {
	identity, ok := auth.IdentityFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("Unauthorized")
	}
	user, err := h.users.Get(c.UserContext(), identity.UID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"user": dto.NewUserResponse(user)})
}
