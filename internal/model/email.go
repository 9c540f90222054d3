package model

import (
	"time"
)

// Email statuses. Every email is in exactly one of these at all times.
const (
	StatusOpen      = "open"
	StatusCompleted = "completed"
	StatusError     = "error"
)

// Email categories assigned by classification. An empty category means
// the email has not been classified yet.
const (
	CategoryFAQ    = "faq"
	CategoryAction = "action"
	CategoryReview = "review"
)

// Email represents one inbound message record in the triage queue
type Email struct {
	ID              string     `json:"id" gorm:"type:varchar(36);primaryKey"`
	ReceivedAt      *time.Time `json:"received_at"`
	FromEmail       *string    `json:"from_email" gorm:"type:varchar(255)"`
	Sender          *string    `json:"sender" gorm:"type:varchar(255)"`
	Subject         *string    `json:"subject" gorm:"type:varchar(998)"`
	Snippet         *string    `json:"snippet" gorm:"type:text"`
	Category        string     `json:"category" gorm:"type:varchar(50)"`
	Status          string     `json:"status" gorm:"type:varchar(50);not null;default:open"`
	MatchedRuleID   *uint      `json:"matched_rule_id" gorm:"index"`
	SuggestedAnswer *string    `json:"suggested_answer" gorm:"type:text"`
	AutoTag         *bool      `json:"auto_tag"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// TableName specifies the table name for Email
func (Email) TableName() string {
	return "emails"
}

// EffectiveTimestamp returns the timestamp the dashboard orders by:
// received_at when present, created_at otherwise.
func (e *Email) EffectiveTimestamp() time.Time {
	if e.ReceivedAt != nil {
		return *e.ReceivedAt
	}
	return e.CreatedAt
}

// HasSuggestion reports whether any of the suggestion fields are set
func (e *Email) HasSuggestion() bool {
	return e.SuggestedAnswer != nil || e.MatchedRuleID != nil || e.AutoTag != nil
}

// ValidStatus reports whether s is one of the three email statuses
func ValidStatus(s string) bool {
	switch s {
	case StatusOpen, StatusCompleted, StatusError:
		return true
	}
	return false
}

// ValidCategory reports whether c is a known category or unset
func ValidCategory(c string) bool {
	switch c {
	case "", CategoryFAQ, CategoryAction, CategoryReview:
		return true
	}
	return false
}
