package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/sidata/backend/internal/auth"
)

const (
	localUserID  = "userID"
	localRole    = "userRole"
	localUptCode = "uptCode"
)

type AuthMiddleware struct {
	jwtService *auth.JWTService
}

func NewAuthMiddleware(jwtService *auth.JWTService) *AuthMiddleware {
	return &AuthMiddleware{jwtService: jwtService}
}

// Optional authentication. A valid bearer token exposes the caller's
// identity and unit code; anything else continues anonymously.
func (m *AuthMiddleware) Optional() fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if !strings.HasPrefix(authHeader, "Bearer ") {
			return c.Next()
		}

		claims, err := m.jwtService.ValidateAccessToken(strings.TrimPrefix(authHeader, "Bearer "))
		if err != nil {
			return c.Next()
		}

		c.Locals(localUserID, claims.Sub)
		c.Locals(localRole, claims.Role)
		c.Locals(localUptCode, claims.UptCode)
		return c.Next()
	}
}

// Get current user ID from context
func GetUserID(c *fiber.Ctx) string {
	id, _ := c.Locals(localUserID).(string)
	return id
}

// GetUnitCode returns the caller's unit code, or fallback for anonymous calls.
func GetUnitCode(c *fiber.Ctx, fallback string) string {
	if code, ok := c.Locals(localUptCode).(string); ok && strings.TrimSpace(code) != "" {
		return code
	}
	return fallback
}
