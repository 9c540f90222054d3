package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"mail-triage-go/internal/model"
)

// ReplyRepository persists outbound reply records
type ReplyRepository struct {
	db *gorm.DB
}

// NewReplyRepository creates a new ReplyRepository
func NewReplyRepository(db *gorm.DB) *ReplyRepository {
	return &ReplyRepository{db: db}
}

// Create inserts a reply record. The reply is never sent anywhere;
// only the intent is persisted.
func (r *ReplyRepository) Create(ctx context.Context, reply *model.EmailReply) error {
	if err := r.db.WithContext(ctx).Create(reply).Error; err != nil {
		return fmt.Errorf("failed to create reply: %w", err)
	}
	return nil
}
