package middleware

import (
	"strings"

	"github.com/Hangeony/DOT-DAILY/internal/config"
	"github.com/Hangeony/DOT-DAILY/pkg/auth"
	"github.com/gofiber/fiber/v2"
)

// Session is the request-scoped auth identity. It is created per request
// from the bearer token and carried through ctx locals; there is no
// process-wide session state.
type Session struct {
	UserID   uint
	Username string
	Email    string
}

const sessionKey = "session"

func AuthRequired(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Authorization header required",
			})
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid authorization header format",
			})
		}

		claims, err := auth.ValidateAccessToken(parts[1], cfg.JWTSecretKey)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid or expired token",
			})
		}

		c.Locals(sessionKey, &Session{
			UserID:   claims.UserID,
			Username: claims.Username,
			Email:    claims.Email,
		})
		return c.Next()
	}
}

// SessionFromCtx returns the session stored by AuthRequired, or nil on
// routes that never went through it.
func SessionFromCtx(c *fiber.Ctx) *Session {
	s, _ := c.Locals(sessionKey).(*Session)
	return s
}
