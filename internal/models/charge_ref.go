package models

import "gorm.io/gorm"

// ChargeRef links an Asaas charge to the WhatsApp contact that should receive
// status notifications for it. Written when a charge is created through the
// API, read by the billing status webhook and the reminder job.
type ChargeRef struct {
	gorm.Model
	ChargeID    string  `gorm:"uniqueIndex;not null" json:"charge_id"`
	CustomerID  string  `gorm:"index" json:"customer_id"`
	ContactID   string  `gorm:"index;not null" json:"contact_id"`
	ContactName string  `json:"contact_name"`
	Description string  `json:"description"`
	Value       float64 `json:"value"`
	DueDate     string  `json:"due_date"`
	PaymentLink string  `json:"payment_link"`
}
