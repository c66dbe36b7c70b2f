package auth

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/institute-service/internal/domain"
	apperrors "github.com/spec-kit/institute-service/pkg/util"
)

const (
	identityKey = "auth_identity"

	// CookieName carries the signed session token.
	CookieName = "token"
)

// AuthMiddleware validates the session cookie and attaches the identity.
type AuthMiddleware struct {
	tokens TokenIssuer
}

// NewAuthMiddleware constructs middleware.
func NewAuthMiddleware(tokens TokenIssuer) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens}
}

// Handle enforces authentication for protected routes.
func (m *AuthMiddleware) Handle(c *fiber.Ctx) error {
	raw := c.Cookies(CookieName)
	if raw == "" {
		return apperrors.NewUnauthorized("Unauthorized")
	}

	identity, err := m.tokens.Verify(raw)
	if err != nil {
		return apperrors.NewUnauthorized("Invalid Token")
	}

	c.Locals(identityKey, identity)
	return c.Next()
}

// IdentityFromContext retrieves the authenticated identity.
func IdentityFromContext(c *fiber.Ctx) (domain.Identity, bool) {
	identity, ok := c.Locals(identityKey).(domain.Identity)
	return identity, ok
}

// SetSessionCookie writes the token cookie.
func SetSessionCookie(c *fiber.Ctx, token string, expiresAt time.Time, secure bool) {
	c.Cookie(&fiber.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		Expires:  expiresAt,
		HTTPOnly: true,
		Secure:   secure,
		SameSite: fiber.CookieSameSiteStrictMode,
	})
}

// ClearSessionCookie overwrites the token cookie with an expired empty value.
func ClearSessionCookie(c *fiber.Ctx, secure bool) {
	c.Cookie(&fiber.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		HTTPOnly: true,
		Secure:   secure,
		SameSite: fiber.CookieSameSiteStrictMode,
	})
}
