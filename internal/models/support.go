package models

import (
	"fmt"
	"time"

	"gorm.io/gorm"
)

// SupportTicket records a recovery request opened through the support flow.
type SupportTicket struct {
	gorm.Model
	Protocol    string     `gorm:"uniqueIndex;not null" json:"protocol"`
	ContactID   string     `gorm:"index;not null" json:"contact_id"`
	ContactName string     `json:"contact_name"`
	IssueType   string     `json:"issue_type"` // recovery, signal, app, maintenance, general
	Description string     `json:"description"`
	Status      string     `gorm:"default:'open'" json:"status"`     // open, in_progress, resolved, closed
	Priority    string     `gorm:"default:'urgent'" json:"priority"` // recovery tickets open as urgent
	ResolvedAt  *time.Time `json:"resolved_at,omitempty"`
	Resolution  string     `json:"resolution,omitempty"`
}

const (
	IssueTypeRecovery    = "recovery"
	IssueTypeSignal      = "signal"
	IssueTypeApp         = "app"
	IssueTypeMaintenance = "maintenance"
	IssueTypeGeneral     = "general"
)

func (st *SupportTicket) BeforeCreate(tx *gorm.DB) error {
	if st.Protocol == "" {
		st.Protocol = fmt.Sprintf("TK%d", time.Now().UnixNano())
	}
	if st.IssueType == "" {
		st.IssueType = IssueTypeGeneral
	}
	return nil
}
