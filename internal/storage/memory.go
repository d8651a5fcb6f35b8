package storage

import (
	"fmt"
	"sync"
	"time"

	"github.com/rastreiaserra/atendimento-backend/internal/models"
)

// MemoryStore holds all records in memory (tests and local development).
type MemoryStore struct {
	tickets    map[string]*models.SupportTicket
	feedbacks  []*models.Feedback
	chargeRefs map[string]*models.ChargeRef

	ticketMu   sync.RWMutex
	feedbackMu sync.RWMutex
	chargeMu   sync.RWMutex

	feedbackCounter uint
}

// NewMemoryStore creates a new in-memory storage.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		tickets:    make(map[string]*models.SupportTicket),
		chargeRefs: make(map[string]*models.ChargeRef),
	}
}

// Support tickets

func (m *MemoryStore) CreateSupportTicket(ticket *models.SupportTicket) (*models.SupportTicket, error) {
	m.ticketMu.Lock()
	defer m.ticketMu.Unlock()

	if ticket.Protocol == "" {
		ticket.Protocol = fmt.Sprintf("TK%d", time.Now().UnixNano())
	}
	if _, exists := m.tickets[ticket.Protocol]; exists {
		return nil, fmt.Errorf("ticket %s already exists", ticket.Protocol)
	}
	if ticket.IssueType == "" {
		ticket.IssueType = models.IssueTypeGeneral
	}
	if ticket.Status == "" {
		ticket.Status = "open"
	}
	ticket.CreatedAt = time.Now()
	ticket.UpdatedAt = time.Now()

	m.tickets[ticket.Protocol] = ticket
	return ticket, nil
}

func (m *MemoryStore) GetSupportTicket(protocol string) (*models.SupportTicket, error) {
	m.ticketMu.RLock()
	defer m.ticketMu.RUnlock()

	ticket, exists := m.tickets[protocol]
	if !exists {
		return nil, fmt.Errorf("ticket not found")
	}
	return ticket, nil
}

func (m *MemoryStore) GetSupportTicketsByContact(contactID string) ([]*models.SupportTicket, error) {
	m.ticketMu.RLock()
	defer m.ticketMu.RUnlock()

	var tickets []*models.SupportTicket
	for _, t := range m.tickets {
		if t.ContactID == contactID {
			tickets = append(tickets, t)
		}
	}
	return tickets, nil
}

func (m *MemoryStore) UpdateSupportTicket(ticket *models.SupportTicket) error {
	m.ticketMu.Lock()
	defer m.ticketMu.Unlock()

	if _, exists := m.tickets[ticket.Protocol]; !exists {
		return fmt.Errorf("ticket not found")
	}
	ticket.UpdatedAt = time.Now()
	m.tickets[ticket.Protocol] = ticket
	return nil
}

// Feedback

func (m *MemoryStore) CreateFeedback(fb *models.Feedback) (*models.Feedback, error) {
	m.feedbackMu.Lock()
	defer m.feedbackMu.Unlock()

	m.feedbackCounter++
	fb.ID = m.feedbackCounter
	fb.CreatedAt = time.Now()
	m.feedbacks = append(m.feedbacks, fb)
	return fb, nil
}

// Charge references

func (m *MemoryStore) CreateChargeRef(ref *models.ChargeRef) (*models.ChargeRef, error) {
	m.chargeMu.Lock()
	defer m.chargeMu.Unlock()

	if ref.ChargeID == "" {
		return nil, fmt.Errorf("charge id is required")
	}
	ref.CreatedAt = time.Now()
	ref.UpdatedAt = time.Now()
	m.chargeRefs[ref.ChargeID] = ref
	return ref, nil
}

func (m *MemoryStore) GetChargeRef(chargeID string) (*models.ChargeRef, error) {
	m.chargeMu.RLock()
	defer m.chargeMu.RUnlock()

	ref, exists := m.chargeRefs[chargeID]
	if !exists {
		return nil, fmt.Errorf("charge ref not found")
	}
	return ref, nil
}

func (m *MemoryStore) GetChargeRefs() ([]*models.ChargeRef, error) {
	m.chargeMu.RLock()
	defer m.chargeMu.RUnlock()

	refs := make([]*models.ChargeRef, 0, len(m.chargeRefs))
	for _, ref := range m.chargeRefs {
		refs = append(refs, ref)
	}
	return refs, nil
}
