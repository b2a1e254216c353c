package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rathinadev/gocommerce/pkg/token"
)

// NewAuthMiddleware validates the bearer token locally and stashes the
// resolved user id for downstream handlers. Services behind the gateway
// never see credentials, only the trusted identity header.
func NewAuthMiddleware(tokens *token.Manager) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized: missed header"})
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized: Invalid header format"})
		}

		userID, err := tokens.Validate(parts[1])
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized: Invalid token"})
		}

		c.Locals("userId", userID)
		return c.Next()
	}
}
