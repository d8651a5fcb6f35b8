package middleware

import (
	"log"

	"github.com/gofiber/fiber/v2"
)

// RequireWebhookToken guards the billing status webhook with a static token
// passed on the query string (?token=...). Mismatch is forbidden; a missing
// server-side token is a configuration error, not an open door.
func RequireWebhookToken(expected string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if expected == "" {
			log.Println("ERROR: BILLING_WEBHOOK_TOKEN not set")
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Server configuration error",
			})
		}

		if c.Query("token") != expected {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "Invalid token",
			})
		}

		return c.Next()
	}
}
