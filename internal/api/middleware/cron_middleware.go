package middleware

import (
	"crypto/subtle"

	"github.com/gofiber/fiber/v2"
)

// CronSecret guards the external trigger endpoint with a shared bearer secret.
func CronSecret(secret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := bearerToken(c)
		if secret == "" || token == "" || subtle.ConstantTimeCompare([]byte(token), []byte(secret)) != 1 {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Unauthorized",
			})
		}
		return c.Next()
	}
}
