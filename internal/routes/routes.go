package routes

import (
	"github.com/rastreiaserra/atendimento-backend/internal/handlers"
	"github.com/rastreiaserra/atendimento-backend/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

// SetupRoutes configures all API routes
func SetupRoutes(app *fiber.App, webhook *handlers.WebhookHandler, billing *handlers.BillingHandler, health *handlers.HealthHandler, billingWebhookToken string) {

	// Root endpoint
	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "Atendimento Backend",
			"version": "1.0.0",
			"endpoints": fiber.Map{
				"health":          "/health",
				"webhook":         "/webhook",
				"billing_webhook": "/webhook/billing",
				"charges":         "/api/charges",
			},
		})
	})

	app.Get("/health", health.Handle)

	// WhatsApp Cloud API webhook (verification handshake + inbound events)
	app.Get("/webhook", webhook.HandleVerify)
	app.Post("/webhook", webhook.HandleEvent)

	// Billing status webhook, guarded by a static token on the query string
	app.Post("/webhook/billing", middleware.RequireWebhookToken(billingWebhookToken), billing.HandleStatusWebhook)

	// API routes
	api := app.Group("/api")
	api.Post("/charges", billing.HandleCreateCharge)
}
