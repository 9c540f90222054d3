package model

import (
	"time"
)

// DefaultRulePriority is used when a rule is created without an
// explicit priority. Lower values are evaluated first.
const DefaultRulePriority = 100

// FaqRule represents a pattern-to-answer mapping used to
// auto-classify and answer emails. The pattern is either a regex or a
// pipe-delimited keyword set; the caller decides which. Duplicate and
// overlapping patterns are permitted and resolved by priority order.
type FaqRule struct {
	ID        uint      `json:"id" gorm:"primaryKey;autoIncrement"`
	UUID      *string   `json:"uuid" gorm:"type:varchar(36)"`
	Pattern   string    `json:"pattern" gorm:"type:varchar(255);not null"`
	Answer    string    `json:"answer" gorm:"type:text;not null"`
	IsActive  bool      `json:"is_active" gorm:"default:true"`
	Priority  int       `json:"priority" gorm:"default:100;index"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName specifies the table name for FaqRule
func (FaqRule) TableName() string {
	return "faq_rules"
}
