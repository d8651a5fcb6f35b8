package storage

import (
	"github.com/rastreiaserra/atendimento-backend/internal/models"
)

// Store defines the interface for the business records the bot persists.
// Conversation state itself is never stored here; it lives in the in-memory
// session store and is lost on restart.
type Store interface {
	// Support tickets
	CreateSupportTicket(ticket *models.SupportTicket) (*models.SupportTicket, error)
	GetSupportTicket(protocol string) (*models.SupportTicket, error)
	GetSupportTicketsByContact(contactID string) ([]*models.SupportTicket, error)
	UpdateSupportTicket(ticket *models.SupportTicket) error

	// Feedback
	CreateFeedback(fb *models.Feedback) (*models.Feedback, error)

	// Charge references
	CreateChargeRef(ref *models.ChargeRef) (*models.ChargeRef, error)
	GetChargeRef(chargeID string) (*models.ChargeRef, error)
	GetChargeRefs() ([]*models.ChargeRef, error)
}
