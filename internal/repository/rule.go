package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"mail-triage-go/internal/model"
)

// ErrRuleNotFound is returned when a referenced rule id has no backing row
var ErrRuleNotFound = errors.New("rule not found")

// RuleRepository persists and loads faq rules
type RuleRepository struct {
	db *gorm.DB
}

// NewRuleRepository creates a new RuleRepository
func NewRuleRepository(db *gorm.DB) *RuleRepository {
	return &RuleRepository{db: db}
}

// List returns all rules ordered by ascending priority, the order
// they are evaluated in. Ties break on id for a stable listing.
func (r *RuleRepository) List(ctx context.Context) ([]model.FaqRule, error) {
	var rules []model.FaqRule
	err := r.db.WithContext(ctx).
		Order("priority asc, id asc").
		Find(&rules).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load rules: %w", err)
	}
	return rules, nil
}

// Get loads a single rule by id
func (r *RuleRepository) Get(ctx context.Context, id uint) (*model.FaqRule, error) {
	var rule model.FaqRule
	result := r.db.WithContext(ctx).Where("id = ?", id).First(&rule)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrRuleNotFound
		}
		return nil, fmt.Errorf("failed to load rule: %w", result.Error)
	}
	return &rule, nil
}

// Create inserts a new rule
func (r *RuleRepository) Create(ctx context.Context, rule *model.FaqRule) error {
	if err := r.db.WithContext(ctx).Create(rule).Error; err != nil {
		return fmt.Errorf("failed to create rule: %w", err)
	}
	return nil
}

// Update patches pattern, answer, priority and active flag of a rule
func (r *RuleRepository) Update(ctx context.Context, id uint, updates map[string]interface{}) error {
	result := r.db.WithContext(ctx).Model(&model.FaqRule{}).
		Where("id = ?", id).
		Updates(updates)
	if result.Error != nil {
		return fmt.Errorf("failed to update rule: %w", result.Error)
	}
	return nil
}

// Delete removes a rule
func (r *RuleRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&model.FaqRule{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete rule: %w", result.Error)
	}
	return nil
}

// SetActive toggles whether a rule participates in matching
func (r *RuleRepository) SetActive(ctx context.Context, id uint, active bool) error {
	result := r.db.WithContext(ctx).Model(&model.FaqRule{}).
		Where("id = ?", id).
		Update("is_active", active)
	if result.Error != nil {
		return fmt.Errorf("failed to update rule: %w", result.Error)
	}
	return nil
}

// Counts returns the total and active rule counts, used by the
// housekeeping gauge refresh.
func (r *RuleRepository) Counts(ctx context.Context) (total int64, active int64, err error) {
	if err = r.db.WithContext(ctx).Model(&model.FaqRule{}).Count(&total).Error; err != nil {
		return 0, 0, fmt.Errorf("failed to count rules: %w", err)
	}
	if err = r.db.WithContext(ctx).Model(&model.FaqRule{}).Where("is_active = ?", true).Count(&active).Error; err != nil {
		return 0, 0, fmt.Errorf("failed to count active rules: %w", err)
	}
	return total, active, nil
}
