package models

import "gorm.io/gorm"

// Feedback stores the post-conversation rating collected by the bot.
type Feedback struct {
	gorm.Model
	ContactID string `gorm:"index;not null" json:"contact_id"`
	Score     int    `json:"score"` // 1-5
	Comment   string `json:"comment,omitempty"`
}
