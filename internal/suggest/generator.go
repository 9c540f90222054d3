package suggest

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"mail-triage-go/internal/ai"
	"mail-triage-go/internal/metrics"
	"mail-triage-go/internal/model"
	"mail-triage-go/internal/repository"
)

// FallbackReply is used whenever the text-generation call errors or
// returns empty content. The generator never returns an empty
// suggestion.
const FallbackReply = "Thanks for reaching out! Could you share a few more details so I can help?"

// Generator drafts replies for emails and persists them. Each email
// is generated for at most once; repeated calls return the stored
// suggestion unchanged.
type Generator struct {
	emails  *repository.EmailRepository
	client  *ai.Client
	metrics *metrics.Metrics
}

// NewGenerator creates a new suggestion generator
func NewGenerator(emails *repository.EmailRepository, client *ai.Client, m *metrics.Metrics) *Generator {
	return &Generator{
		emails:  emails,
		client:  client,
		metrics: m,
	}
}

// Suggest returns a drafted reply for the given email. A lookup
// failure surfaces repository.ErrEmailNotFound; generation failures
// are recovered via the fallback reply and only storage failures
// propagate.
func (g *Generator) Suggest(ctx context.Context, emailID string) (string, error) {
	email, err := g.emails.Get(ctx, emailID)
	if err != nil {
		return "", err
	}

	// Already suggested: return the stored value, no external call.
	if email.SuggestedAnswer != nil && *email.SuggestedAnswer != "" {
		if g.metrics != nil {
			g.metrics.SuggestionsShortCircuited.Inc()
		}
		return *email.SuggestedAnswer, nil
	}

	suggested := g.draft(ctx, email)

	if err := g.emails.SaveSuggestion(ctx, email.ID, suggested); err != nil {
		return "", fmt.Errorf("failed to store suggestion: %w", err)
	}

	if g.metrics != nil {
		g.metrics.SuggestionsGenerated.Inc()
	}

	return suggested, nil
}

// draft asks the AI client for a reply, substituting the fallback on
// any error or empty content.
func (g *Generator) draft(ctx context.Context, email *model.Email) string {
	from := ""
	if email.FromEmail != nil {
		from = *email.FromEmail
	}
	subject := ""
	if email.Subject != nil {
		subject = *email.Subject
	}
	snippet := ""
	if email.Snippet != nil {
		snippet = *email.Snippet
	}

	suggested, err := g.client.DraftReply(ctx, from, subject, snippet)
	if err != nil || suggested == "" {
		if err != nil {
			logrus.WithError(err).WithField("email_id", email.ID).
				Warn("AI draft failed, using fallback reply")
		}
		if g.metrics != nil {
			g.metrics.SuggestionFallbacks.Inc()
		}
		return FallbackReply
	}

	return suggested
}
