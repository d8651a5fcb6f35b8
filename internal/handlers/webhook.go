package handlers

import (
	"log"

	"github.com/gofiber/fiber/v2"

	"github.com/rastreiaserra/atendimento-backend/internal/conversation"
	"github.com/rastreiaserra/atendimento-backend/internal/services"
)

// WebhookHandler receives WhatsApp Cloud API webhook traffic.
type WebhookHandler struct {
	engine      *services.Engine
	verifyToken string
}

// NewWebhookHandler creates the webhook handler.
func NewWebhookHandler(engine *services.Engine, verifyToken string) *WebhookHandler {
	return &WebhookHandler{engine: engine, verifyToken: verifyToken}
}

// HandleVerify answers Meta's subscription handshake: echo the challenge when
// the mode and token match, 403 otherwise.
func (h *WebhookHandler) HandleVerify(c *fiber.Ctx) error {
	mode := c.Query("hub.mode")
	token := c.Query("hub.verify_token")
	challenge := c.Query("hub.challenge")

	if mode == "subscribe" && token == h.verifyToken {
		log.Println("✅ Webhook verified")
		return c.Status(fiber.StatusOK).SendString(challenge)
	}
	return c.SendStatus(fiber.StatusForbidden)
}

// HandleEvent accepts a webhook event envelope. The provider always gets 200
// back immediately (at-least-once delivery, no idempotency tracking); the
// conversation is processed out of band so a slow collaborator can never make
// Meta retry-storm the endpoint.
func (h *WebhookHandler) HandleEvent(c *fiber.Ctx) error {
	var env conversation.Envelope
	if err := c.BodyParser(&env); err != nil {
		log.Printf("⚠️  Ignoring unparseable webhook payload: %v", err)
		return c.SendStatus(fiber.StatusOK)
	}

	go h.engine.ProcessEvent(&env)

	return c.SendStatus(fiber.StatusOK)
}
