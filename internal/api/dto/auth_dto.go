package dto

import "time"

// RequestOTPRequest names the account that wants a reset code.
type RequestOTPRequest struct {
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// VerifyOTPRequest carries the code and the replacement password.
type VerifyOTPRequest struct {
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	OTP         string `json:"otp"`
	NewPassword string `json:"newPassword"`
}

// LoginRequest payload for login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse standard response for auth endpoints.
type AuthResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// IdentityResponse is the caller as seen by the auth middleware.
type IdentityResponse struct {
	UID   int64    `json:"uid"`
	Roles []string `json:"roles"`
}

// MessageResponse is the plain acknowledgement body.
type MessageResponse struct {
	Message string `json:"message"`
}
