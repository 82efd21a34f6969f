package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/ai-28/suplient/pkg/utils"
)

// AuthRequired validates the bearer token and stores the caller's identity
// in request locals. An absent or invalid identity is a denial; no handler
// behind it runs without user_id and role set.
func AuthRequired(secret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenString, ok := strings.CutPrefix(c.Get("Authorization"), "Bearer ")
		if !ok || strings.TrimSpace(tokenString) == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Missing or malformed authorization header",
			})
		}

		claims, err := utils.ValidateToken(strings.TrimSpace(tokenString), secret)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid or expired token",
			})
		}

		c.Locals("user_id", claims.UserID)
		c.Locals("role", claims.Role)

		return c.Next()
	}
}
