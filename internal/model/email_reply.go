package model

import (
	"time"
)

// EmailReply records an outbound response an operator composed. The
// service only persists intent; nothing is sent over any transport.
type EmailReply struct {
	ID        uint      `json:"id" gorm:"primaryKey;autoIncrement"`
	EmailID   string    `json:"email_id" gorm:"type:varchar(36);not null;index"`
	ToAddress string    `json:"to_address" gorm:"type:varchar(255);not null"`
	Body      string    `json:"body" gorm:"type:text;not null"`
	CreatedBy string    `json:"created_by" gorm:"type:varchar(255)"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName specifies the table name for EmailReply
func (EmailReply) TableName() string {
	return "email_replies"
}
