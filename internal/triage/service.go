package triage

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"mail-triage-go/internal/metrics"
	"mail-triage-go/internal/model"
	"mail-triage-go/internal/repository"
)

// ErrInvalidStatus is returned before any write when the requested
// target status is not reachable through the dashboard. The error
// state is only flagged externally.
var ErrInvalidStatus = fmt.Errorf("status must be %q or %q", model.StatusOpen, model.StatusCompleted)

// Service provides the status transitions over email rows. Writes
// never report success from the write alone: the row is re-read from
// the store afterwards, guarding against stale concurrent edits from
// another session.
type Service struct {
	emails  *repository.EmailRepository
	metrics *metrics.Metrics
}

// NewService creates a new triage service
func NewService(emails *repository.EmailRepository, m *metrics.Metrics) *Service {
	return &Service{emails: emails, metrics: m}
}

// MarkStatus transitions an email to the target status and returns
// the row as re-read from the store.
func (s *Service) MarkStatus(ctx context.Context, id, target string) (*model.Email, error) {
	if target != model.StatusOpen && target != model.StatusCompleted {
		return nil, ErrInvalidStatus
	}

	// Not-found is detected before any mutation.
	if _, err := s.emails.Get(ctx, id); err != nil {
		return nil, err
	}

	if err := s.emails.UpdateStatus(ctx, id, target); err != nil {
		return nil, err
	}

	fresh, err := s.emails.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.StatusTransitions.WithLabelValues(target).Inc()
	}
	logrus.WithFields(logrus.Fields{
		"email_id": id,
		"status":   fresh.Status,
	}).Info("Email status updated")

	return fresh, nil
}

// DismissSuggestion clears suggested_answer, matched_rule_id and
// auto_tag together in one update. Status and category are untouched.
// Dismissing an email with no suggestion is a successful no-op.
func (s *Service) DismissSuggestion(ctx context.Context, id string) (*model.Email, error) {
	email, err := s.emails.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if !email.HasSuggestion() {
		return email, nil
	}

	if err := s.emails.ClearSuggestion(ctx, id); err != nil {
		return nil, err
	}

	fresh, err := s.emails.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.SuggestionsDismissed.Inc()
	}
	logrus.WithField("email_id", id).Info("Suggestion dismissed")

	return fresh, nil
}

// AcceptSuggestion marks the email completed. The suggestion fields
// are kept; an accepted suggestion remains visible as history.
func (s *Service) AcceptSuggestion(ctx context.Context, id string) (*model.Email, error) {
	return s.MarkStatus(ctx, id, model.StatusCompleted)
}
