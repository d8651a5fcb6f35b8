package storage

import (
	"gorm.io/gorm"

	"github.com/rastreiaserra/atendimento-backend/internal/models"
)

// DatabaseStore persists records in PostgreSQL via gorm.
type DatabaseStore struct {
	db *gorm.DB
}

// NewDatabaseStore creates a database-backed store.
func NewDatabaseStore(db *gorm.DB) *DatabaseStore {
	return &DatabaseStore{db: db}
}

// Support tickets

func (s *DatabaseStore) CreateSupportTicket(ticket *models.SupportTicket) (*models.SupportTicket, error) {
	if err := s.db.Create(ticket).Error; err != nil {
		return nil, err
	}
	return ticket, nil
}

func (s *DatabaseStore) GetSupportTicket(protocol string) (*models.SupportTicket, error) {
	var ticket models.SupportTicket
	if err := s.db.Where("protocol = ?", protocol).First(&ticket).Error; err != nil {
		return nil, err
	}
	return &ticket, nil
}

func (s *DatabaseStore) GetSupportTicketsByContact(contactID string) ([]*models.SupportTicket, error) {
	var tickets []*models.SupportTicket
	if err := s.db.Where("contact_id = ?", contactID).Order("created_at desc").Find(&tickets).Error; err != nil {
		return nil, err
	}
	return tickets, nil
}

func (s *DatabaseStore) UpdateSupportTicket(ticket *models.SupportTicket) error {
	return s.db.Save(ticket).Error
}

// Feedback

func (s *DatabaseStore) CreateFeedback(fb *models.Feedback) (*models.Feedback, error) {
	if err := s.db.Create(fb).Error; err != nil {
		return nil, err
	}
	return fb, nil
}

// Charge references

func (s *DatabaseStore) CreateChargeRef(ref *models.ChargeRef) (*models.ChargeRef, error) {
	if err := s.db.Create(ref).Error; err != nil {
		return nil, err
	}
	return ref, nil
}

func (s *DatabaseStore) GetChargeRef(chargeID string) (*models.ChargeRef, error) {
	var ref models.ChargeRef
	if err := s.db.Where("charge_id = ?", chargeID).First(&ref).Error; err != nil {
		return nil, err
	}
	return &ref, nil
}

func (s *DatabaseStore) GetChargeRefs() ([]*models.ChargeRef, error) {
	var refs []*models.ChargeRef
	if err := s.db.Find(&refs).Error; err != nil {
		return nil, err
	}
	return refs, nil
}
