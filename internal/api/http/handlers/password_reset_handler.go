package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/institute-service/internal/api/dto"
	"github.com/spec-kit/institute-service/internal/service"
)

// PasswordResetHandler exposes the OTP reset endpoints.
type PasswordResetHandler struct {
	resets *service.PasswordResetService
}

// NewPasswordResetHandler constructs handler.
func NewPasswordResetHandler(resets *service.PasswordResetService) *PasswordResetHandler {
	return &PasswordResetHandler{resets: resets}
}

// RequestOTP handles POST /api/request-otp. The response does not reveal
// whether the contact belongs to an account.
func (h *PasswordResetHandler) RequestOTP(c *fiber.Ctx) error {
	var req dto.RequestOTPRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidPayload()
	}
	if err := h.resets.RequestReset(c.UserContext(), service.ContactRequest{Email: req.Email, Phone: req.Phone}); err != nil {
		return err
	}
	return c.JSON(dto.MessageResponse{Message: "If that contact exists, an OTP has been sent."})
}

// VerifyOTP handles POST /api/verify-otp.
func (h *PasswordResetHandler) VerifyOTP(c *fiber.Ctx) error {
	var req dto.VerifyOTPRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidPayload()
	}
	contact := service.ContactRequest{Email: req.Email, Phone: req.Phone}
	if err := h.resets.VerifyAndReset(c.UserContext(), contact, req.OTP, req.NewPassword); err != nil {
		return err
	}
	return c.JSON(dto.MessageResponse{Message: "Password reset successful"})
}
