package handlers

import (
	"log"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/rastreiaserra/atendimento-backend/internal/conversation"
	"github.com/rastreiaserra/atendimento-backend/internal/models"
	"github.com/rastreiaserra/atendimento-backend/internal/services"
	"github.com/rastreiaserra/atendimento-backend/internal/storage"
)

// BillingHandler exposes charge creation and receives Asaas status webhooks.
type BillingHandler struct {
	billing services.BillingProvider
	tpl     *services.TemplateService
	store   storage.Store
}

// NewBillingHandler creates the billing handler. billing may be nil when the
// Asaas integration is not configured.
func NewBillingHandler(billing services.BillingProvider, tpl *services.TemplateService, store storage.Store) *BillingHandler {
	return &BillingHandler{billing: billing, tpl: tpl, store: store}
}

// CreateChargeRequest is the billing creation payload.
type CreateChargeRequest struct {
	ContactID   string  `json:"contactId"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Amount      float64 `json:"amount"`
	DueDate     string  `json:"dueDate"`
	BillingType string  `json:"billingType"`
	CpfCnpj     string  `json:"cpfCnpj"`
	Email       string  `json:"email"`
}

// HandleCreateCharge creates an Asaas customer and charge, stores the charge
// reference for later webhook routing, and returns the charge id and link.
func (h *BillingHandler) HandleCreateCharge(c *fiber.Ctx) error {
	if h.billing == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"error": "billing integration not configured (ASAAS_API_KEY)",
		})
	}

	var req CreateChargeRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}

	req.ContactID = onlyDigits(req.ContactID)
	switch {
	case req.ContactID == "":
		return badRequest(c, "contactId is required")
	case req.Name == "":
		return badRequest(c, "name is required")
	case req.Description == "":
		return badRequest(c, "description is required")
	case req.Amount <= 0:
		return badRequest(c, "amount must be greater than zero")
	case req.DueDate == "":
		return badRequest(c, "dueDate is required")
	}

	customer, err := h.billing.CreateCustomer(req.Name, req.CpfCnpj, req.Email, req.ContactID)
	if err != nil {
		log.Printf("❌ Failed to create Asaas customer: %v", err)
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error": "billing provider rejected the customer",
		})
	}

	charge, err := h.billing.CreateCharge(customer.ID, req.BillingType, req.Description, req.DueDate, req.Amount)
	if err != nil {
		log.Printf("❌ Failed to create Asaas charge: %v", err)
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error": "billing provider rejected the charge",
		})
	}

	ref := &models.ChargeRef{
		ChargeID:    charge.ID,
		CustomerID:  customer.ID,
		ContactID:   req.ContactID,
		ContactName: req.Name,
		Description: req.Description,
		Value:       charge.Value,
		DueDate:     charge.DueDate,
		PaymentLink: charge.PaymentLink(),
	}
	if _, err := h.store.CreateChargeRef(ref); err != nil {
		log.Printf("❌ Failed to persist charge ref %s: %v", charge.ID, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"chargeId":    charge.ID,
		"paymentLink": charge.PaymentLink(),
		"dueDate":     charge.DueDate,
		"value":       charge.Value,
	})
}

// StatusWebhookPayload is the Asaas event envelope this bot consumes.
type StatusWebhookPayload struct {
	Event   string              `json:"event"`
	Payment StatusWebhookCharge `json:"payment"`
}

type StatusWebhookCharge struct {
	ID          string  `json:"id"`
	Customer    string  `json:"customer"`
	Value       float64 `json:"value"`
	DueDate     string  `json:"dueDate"`
	Status      string  `json:"status"`
	InvoiceURL  string  `json:"invoiceUrl"`
	BankSlipURL string  `json:"bankSlipUrl"`
}

// HandleStatusWebhook acknowledges the Asaas event immediately, then
// dispatches the matching outbound template. Token checking is done by the
// route middleware.
func (h *BillingHandler) HandleStatusWebhook(c *fiber.Ctx) error {
	var payload StatusWebhookPayload
	if err := c.BodyParser(&payload); err != nil {
		log.Printf("⚠️  Ignoring unparseable billing webhook: %v", err)
		return c.SendStatus(fiber.StatusOK)
	}

	go h.DispatchStatus(&payload)

	return c.SendStatus(fiber.StatusOK)
}

// DispatchStatus resolves the destination contact and sends the template that
// matches the charge status. Failures are logged only; Asaas already got its
// acknowledgment.
func (h *BillingHandler) DispatchStatus(payload *StatusWebhookPayload) {
	template := templateForStatus(payload.Event, payload.Payment.Status)
	if template == "" {
		log.Printf("Unhandled billing event: %s (%s)", payload.Event, payload.Payment.Status)
		return
	}

	contactID, name := h.resolveContact(payload.Payment.ID, payload.Payment.Customer)
	if contactID == "" {
		log.Printf("⚠️  No contact found for charge %s, skipping notification", payload.Payment.ID)
		return
	}
	if name == "" {
		name = "Cliente"
	}

	link := payload.Payment.BankSlipURL
	if link == "" {
		link = payload.Payment.InvoiceURL
	}

	params := map[string]string{
		"nome":      name,
		"fatura_id": payload.Payment.ID,
		"valor":     conversation.FormatBRL(payload.Payment.Value),
	}
	if template != "pagamento_confirmado" {
		params["vencimento"] = payload.Payment.DueDate
		params["url"] = link
	}

	if err := h.tpl.SendTemplate(contactID, template, params); err != nil {
		log.Printf("❌ Failed to send %s template to %s: %v", template, contactID, err)
	}
}

// resolveContact finds the WhatsApp destination for a charge: the stored
// reference first, then a customer lookup at the billing provider.
func (h *BillingHandler) resolveContact(chargeID, customerID string) (contactID, name string) {
	if ref, err := h.store.GetChargeRef(chargeID); err == nil {
		return ref.ContactID, ref.ContactName
	}

	if h.billing != nil && customerID != "" {
		if customer, err := h.billing.GetCustomer(customerID); err == nil && customer != nil {
			return onlyDigits(customer.MobilePhone), customer.Name
		}
	}
	return "", ""
}

func templateForStatus(event, status string) string {
	switch {
	case event == "PAYMENT_OVERDUE" || status == "OVERDUE":
		return "cobranca_vencida"
	case event == "PAYMENT_RECEIVED" || event == "PAYMENT_CONFIRMED" ||
		status == "RECEIVED" || status == "CONFIRMED":
		return "pagamento_confirmado"
	case event == "PAYMENT_CREATED":
		return "cobranca_gerada"
	default:
		return ""
	}
}

func badRequest(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": msg})
}

func onlyDigits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
