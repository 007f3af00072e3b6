// Package retention periodically scans published events, flags
// low-trust ones, and deletes flagged events that stay low-trust past a
// grace period. Every deletion leaves an audit entry and a system log;
// per-record errors are counted and skipped so a sweep always finishes.
package retention

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/claimsift/claimsift/internal/logging"
	"github.com/claimsift/claimsift/internal/model"
)

// Store is the slice of the document store the manager uses.
type Store interface {
	ListEvents() ([]model.Event, error)
	DeleteEvent(id string) error
	AppendAudit(entry model.AuditLogEntry) error
	AppendSystemLog(kind, message string, details map[string]interface{}) error
}

// Summary reports the outcome of one sweep.
type Summary struct {
	Scanned int
	Flagged int
	Deleted int
	Errors  int
}

// Manager runs the retention policy.
type Manager struct {
	store          Store
	gracePeriod    time.Duration
	minCredibility int // 0-100 scale, see Event.Credibility
	now            func() time.Time
	log            *log.Logger
}

// NewManager creates a manager with the given policy.
func NewManager(store Store, gracePeriod time.Duration, minCredibility int) *Manager {
	if gracePeriod <= 0 {
		gracePeriod = 7 * 24 * time.Hour
	}
	return &Manager{
		store:          store,
		gracePeriod:    gracePeriod,
		minCredibility: minCredibility,
		now:            time.Now,
		log:            logging.WithPrefix("retention"),
	}
}

// flagged reports whether an event is a deletion candidate: not
// verified, or credibility below the threshold.
func (m *Manager) flagged(ev model.Event) bool {
	return ev.Status != model.StatusVerified || ev.Credibility() < m.minCredibility
}

// Sweep scans every event once. Flagged events older than the grace
// period are deleted; younger ones stay flagged. Unflagged events are
// untouched regardless of age. Sweep only errors when the scan itself
// cannot start.
func (m *Manager) Sweep(ctx context.Context) (Summary, error) {
	events, err := m.store.ListEvents()
	if err != nil {
		return Summary{}, fmt.Errorf("list events: %w", err)
	}

	now := m.now().UTC()
	summary := Summary{Scanned: len(events)}

	for _, ev := range events {
		if err := ctx.Err(); err != nil {
			return summary, err
		}
		if !m.flagged(ev) {
			continue
		}
		summary.Flagged++

		age := ev.Age(now)
		if age < m.gracePeriod {
			m.log.Debug("event flagged, within grace period",
				"event", ev.ID, "credibility", ev.Credibility(), "age", age)
			continue
		}

		if err := m.deleteEvent(ev, age); err != nil {
			// Counted and skipped: the sweep always completes
			m.log.Error("delete failed", "event", ev.ID, "error", err)
			summary.Errors++
			continue
		}
		summary.Deleted++
	}

	m.log.Info("sweep complete", "scanned", summary.Scanned,
		"flagged", summary.Flagged, "deleted", summary.Deleted, "errors", summary.Errors)
	return summary, nil
}

// deleteEvent removes one event and writes its audit and system log
// entries. The audit entry carries the deletion rationale.
func (m *Manager) deleteEvent(ev model.Event, age time.Duration) error {
	reason := fmt.Sprintf("low trust past grace period: status=%s credibility=%d age_days=%.1f",
		ev.Status, ev.Credibility(), age.Hours()/24)

	if err := m.store.DeleteEvent(ev.ID); err != nil {
		return err
	}
	if err := m.store.AppendAudit(model.AuditLogEntry{
		Type:      model.AuditEventDeleted,
		SubjectID: ev.ID,
		Status:    ev.Status,
		Reason:    reason,
		Actor:     model.ActorRetention,
		CreatedAt: m.now().UTC(),
	}); err != nil {
		return err
	}
	if err := m.store.AppendSystemLog("retention_deletion", "event deleted", map[string]interface{}{
		"event_id":    ev.ID,
		"title":       ev.Title,
		"final_score": ev.FinalScore,
		"credibility": ev.Credibility(),
		"age_days":    age.Hours() / 24,
		"reason":      reason,
	}); err != nil {
		return err
	}

	m.log.Info("event deleted", "event", ev.ID, "credibility", ev.Credibility(),
		"age_days", fmt.Sprintf("%.1f", age.Hours()/24))
	return nil
}

// Run sweeps on a fixed interval until the context is cancelled. The
// first sweep runs immediately.
func (m *Manager) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = time.Hour
	}

	if _, err := m.Sweep(ctx); err != nil && ctx.Err() == nil {
		m.log.Error("sweep failed", "error", err)
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := m.Sweep(ctx); err != nil && ctx.Err() == nil {
				m.log.Error("sweep failed", "error", err)
			}
		}
	}
}
