package housekeeping

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"mail-triage-go/internal/auth"
	"mail-triage-go/internal/metrics"
	"mail-triage-go/internal/repository"
)

// Housekeeper runs periodic maintenance: expiring stale OAuth state
// and idle sessions, and refreshing the rule gauges. It never touches
// email rows; the triage flow stays strictly request-driven.
type Housekeeper struct {
	cron     *cron.Cron
	gate     *auth.Gate
	rules    *repository.RuleRepository
	metrics  *metrics.Metrics
	interval time.Duration

	mu      sync.Mutex
	running bool
	entryID cron.EntryID
}

// New creates a new Housekeeper running every intervalMinutes
func New(gate *auth.Gate, rules *repository.RuleRepository, m *metrics.Metrics, intervalMinutes int) *Housekeeper {
	if intervalMinutes <= 0 {
		intervalMinutes = 5
	}
	return &Housekeeper{
		cron:     cron.New(),
		gate:     gate,
		rules:    rules,
		metrics:  m,
		interval: time.Duration(intervalMinutes) * time.Minute,
	}
}

// Start schedules the housekeeping job
func (h *Housekeeper) Start() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.running {
		return fmt.Errorf("housekeeping is already running")
	}

	spec := fmt.Sprintf("@every %s", h.interval)
	entryID, err := h.cron.AddFunc(spec, h.RunOnce)
	if err != nil {
		return fmt.Errorf("failed to schedule housekeeping: %w", err)
	}

	h.entryID = entryID
	h.cron.Start()
	h.running = true

	logrus.Infof("Housekeeping started with interval %s", h.interval)
	return nil
}

// Stop cancels the housekeeping job
func (h *Housekeeper) Stop() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if !h.running {
		return fmt.Errorf("housekeeping is not running")
	}

	h.cron.Remove(h.entryID)
	h.cron.Stop()
	h.running = false

	logrus.Info("Housekeeping stopped")
	return nil
}

// IsRunning reports whether the job is scheduled
func (h *Housekeeper) IsRunning() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.running
}

// RunOnce performs one housekeeping pass
func (h *Housekeeper) RunOnce() {
	if h.gate != nil {
		sessions, states := h.gate.ExpireStale(time.Now())
		if sessions > 0 || states > 0 {
			logrus.WithFields(logrus.Fields{
				"sessions": sessions,
				"states":   states,
			}).Info("Expired stale auth entries")
		}
	}

	if h.rules == nil || h.metrics == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	total, active, err := h.rules.Counts(ctx)
	if err != nil {
		logrus.WithError(err).Warn("Failed to refresh rule gauges")
		return
	}
	h.metrics.TotalRules.Set(float64(total))
	h.metrics.ActiveRules.Set(float64(active))
}
