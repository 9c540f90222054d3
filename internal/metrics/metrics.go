package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	SuggestionsGenerated      prometheus.Counter
	SuggestionsShortCircuited prometheus.Counter
	SuggestionFallbacks       prometheus.Counter
	StatusTransitions         *prometheus.CounterVec
	SuggestionsDismissed      prometheus.Counter
	RepliesRecorded           prometheus.Counter
	ActiveRules               prometheus.Gauge
	TotalRules                prometheus.Gauge
}

// NewMetrics creates new Prometheus metrics on the default registry
func NewMetrics() *Metrics {
	return NewMetricsWith(prometheus.DefaultRegisterer)
}

// NewMetricsWith creates new Prometheus metrics on the given registry
func NewMetricsWith(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		SuggestionsGenerated: factory.NewCounter(prometheus.CounterOpts{
			Name: "mail_triage_suggestions_generated_total",
			Help: "Total number of AI reply suggestions generated",
		}),
		SuggestionsShortCircuited: factory.NewCounter(prometheus.CounterOpts{
			Name: "mail_triage_suggestions_short_circuited_total",
			Help: "Total number of suggestion requests served from an already-suggested row",
		}),
		SuggestionFallbacks: factory.NewCounter(prometheus.CounterOpts{
			Name: "mail_triage_suggestion_fallbacks_total",
			Help: "Total number of suggestions that used the fixed fallback reply",
		}),
		StatusTransitions: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "mail_triage_status_transitions_total",
			Help: "Total number of email status transitions by target status",
		}, []string{"target"}),
		SuggestionsDismissed: factory.NewCounter(prometheus.CounterOpts{
			Name: "mail_triage_suggestions_dismissed_total",
			Help: "Total number of dismissed suggestions",
		}),
		RepliesRecorded: factory.NewCounter(prometheus.CounterOpts{
			Name: "mail_triage_replies_recorded_total",
			Help: "Total number of outbound replies recorded",
		}),
		ActiveRules: factory.NewGauge(prometheus.GaugeOpts{
			Name: "mail_triage_active_rules",
			Help: "Number of currently active faq rules",
		}),
		TotalRules: factory.NewGauge(prometheus.GaugeOpts{
			Name: "mail_triage_total_rules",
			Help: "Total number of faq rules (active and inactive)",
		}),
	}
}
