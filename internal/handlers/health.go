package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/rastreiaserra/atendimento-backend/internal/conversation"
)

// HealthHandler reports service status for monitoring.
type HealthHandler struct {
	sessions          conversation.SessionStore
	gatewayConfigured bool
	billingConfigured bool
	storageType       string
}

// NewHealthHandler creates the health handler.
func NewHealthHandler(sessions conversation.SessionStore, gatewayConfigured, billingConfigured bool, storageType string) *HealthHandler {
	return &HealthHandler{
		sessions:          sessions,
		gatewayConfigured: gatewayConfigured,
		billingConfigured: billingConfigured,
		storageType:       storageType,
	}
}

// Handle returns the health snapshot.
func (h *HealthHandler) Handle(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"service": "Atendimento WhatsApp Bot",
		"status":  "healthy",
		"storage": h.storageType,
		"whatsapp": fiber.Map{
			"configured": h.gatewayConfigured,
		},
		"billing": fiber.Map{
			"configured": h.billingConfigured,
		},
		"sessions": h.sessions.Len(),
	})
}
