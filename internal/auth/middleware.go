package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

// TokenValidator validates a session token string.
type TokenValidator interface {
	Validate(tokenString string) (*Claims, error)
}

// RequireAdmin returns a Fiber middleware that rejects requests without a
// valid Bearer session token. Draw, delete and reset handlers sit behind it
// and never inspect credentials themselves.
func RequireAdmin(validator TokenValidator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		if !strings.HasPrefix(header, "Bearer ") {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "authorization required"})
		}

		token := strings.TrimSpace(header[len("Bearer "):])
		claims, err := validator.Validate(token)
		if err != nil {
			log.Warn().Err(err).Str("path", c.Path()).Msg("rejected admin request")
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid or expired token"})
		}

		c.Locals("session_id", claims.ID)
		return c.Next()
	}
}
