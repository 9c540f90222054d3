package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"mail-triage-go/internal/model"
)

// ErrEmailNotFound is returned when a referenced email id has no
// backing row. Callers rely on it to report lookup failures
// distinctly from store failures.
var ErrEmailNotFound = errors.New("email not found")

// EmailRepository persists and loads email rows
type EmailRepository struct {
	db *gorm.DB
}

// NewEmailRepository creates a new EmailRepository
func NewEmailRepository(db *gorm.DB) *EmailRepository {
	return &EmailRepository{db: db}
}

// Get loads a single email by id
func (r *EmailRepository) Get(ctx context.Context, id string) (*model.Email, error) {
	var email model.Email
	result := r.db.WithContext(ctx).Where("id = ?", id).First(&email)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrEmailNotFound
		}
		return nil, fmt.Errorf("failed to load email: %w", result.Error)
	}
	return &email, nil
}

// List loads up to limit email rows, newest first by received_at with
// created_at as the fallback. Ordering before the limit keeps the most
// recent rows in a truncated load; filtering stays the view model's job.
func (r *EmailRepository) List(ctx context.Context, limit int) ([]model.Email, error) {
	var emails []model.Email
	q := r.db.WithContext(ctx).Order("COALESCE(received_at, created_at) DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&emails).Error; err != nil {
		return nil, fmt.Errorf("failed to load emails: %w", err)
	}
	return emails, nil
}

// Create inserts a new email row, defaulting id and status
func (r *EmailRepository) Create(ctx context.Context, email *model.Email) error {
	if email.ID == "" {
		email.ID = uuid.NewString()
	}
	if email.Status == "" {
		email.Status = model.StatusOpen
	}
	if err := r.db.WithContext(ctx).Create(email).Error; err != nil {
		return fmt.Errorf("failed to create email: %w", err)
	}
	return nil
}

// UpdateStatus writes a new status for the given email
func (r *EmailRepository) UpdateStatus(ctx context.Context, id, status string) error {
	result := r.db.WithContext(ctx).Model(&model.Email{}).
		Where("id = ?", id).
		Update("status", status)
	if result.Error != nil {
		return fmt.Errorf("failed to update status: %w", result.Error)
	}
	return nil
}

// SaveSuggestion persists the drafted reply and marks the email as
// faq in a single update, per the suggestion generator contract.
func (r *EmailRepository) SaveSuggestion(ctx context.Context, id, suggestion string) error {
	result := r.db.WithContext(ctx).Model(&model.Email{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"suggested_answer": suggestion,
			"category":         model.CategoryFAQ,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to save suggestion: %w", result.Error)
	}
	return nil
}

// ClearSuggestion resets suggested_answer, matched_rule_id and
// auto_tag together in one update. Status and category are untouched.
func (r *EmailRepository) ClearSuggestion(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Model(&model.Email{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"suggested_answer": nil,
			"matched_rule_id":  nil,
			"auto_tag":         nil,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to clear suggestion: %w", result.Error)
	}
	return nil
}
