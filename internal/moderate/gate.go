// Package moderate is the publication gate: it takes a pending record
// through a single terminal status transition, writes the audit trail,
// and on acceptance publishes a new event or a revision of an existing
// one. The gate fails closed: any error while accepting leaves the
// record rejected rather than published unreviewed.
package moderate

import (
	"context"
	"fmt"
	"time"

	"github.com/claimsift/claimsift/internal/ai"
	"github.com/claimsift/claimsift/internal/logging"
	"github.com/claimsift/claimsift/internal/model"
	"github.com/claimsift/claimsift/internal/score"
	"github.com/google/uuid"
)

// Store is the slice of the document store the gate writes through.
type Store interface {
	SetPendingStatus(id string, status model.Status) error
	CreateEvent(ev model.Event, ver model.Version) error
	ReviseEvent(eventID string, ver model.Version, aiScore float64) error
	AppendAudit(entry model.AuditLogEntry) error
}

// Gate moderates pending records.
type Gate struct {
	store Store
	svc   ai.Service // nil activates the configured posture
	mode  string     // model.ModerationPermissive or model.ModerationStrict
	now   func() time.Time
	newID func() string
}

// NewGate creates a gate. svc may be nil; mode selects what a nil or
// unreachable service means.
func NewGate(store Store, svc ai.Service, mode string) *Gate {
	if mode == "" {
		mode = model.ModerationPermissive
	}
	return &Gate{
		store: store,
		svc:   svc,
		mode:  mode,
		now:   time.Now,
		newID: func() string { return uuid.NewString() },
	}
}

// Process runs one record through the gate. Errors during the accept
// sequence are contained: the record ends rejected and the error is
// logged, never propagated. The returned error covers only the decision
// bookkeeping itself (audit or status write failing).
func (g *Gate) Process(ctx context.Context, rec model.PendingRecord) error {
	decision := g.decide(ctx, rec)

	// The audit entry is unconditional and precedes every other effect.
	if err := g.store.AppendAudit(model.AuditLogEntry{
		Type:      model.AuditModeration,
		SubjectID: rec.ID,
		Status:    decisionStatus(decision),
		Reason:    decision.Reason,
		Actor:     model.ActorModeration,
		CreatedAt: g.now().UTC(),
	}); err != nil {
		return fmt.Errorf("append audit: %w", err)
	}

	if !decision.Approved {
		logging.Info("record rejected", "record", rec.ID, "reason", decision.Reason)
		return g.store.SetPendingStatus(rec.ID, model.StatusRejected)
	}

	if err := g.publish(rec, decision); err != nil {
		// Fail closed: never publish on a partial accept sequence.
		logging.Error("publication failed, rejecting", "record", rec.ID, "error", err)
		return g.store.SetPendingStatus(rec.ID, model.StatusRejected)
	}
	return nil
}

// decide obtains the moderation decision. Incomplete records, service
// errors, and a missing service under strict mode all reject; a missing
// service under permissive mode approves.
func (g *Gate) decide(ctx context.Context, rec model.PendingRecord) *ai.Decision {
	// An incomplete record never reaches the service or the permissive
	// fallback.
	if !rec.AsClaim().Complete() {
		return &ai.Decision{Approved: false, Reason: "incomplete record"}
	}

	if g.svc == nil {
		if g.mode == model.ModerationStrict {
			return &ai.Decision{Approved: false, Reason: "moderation service not configured (strict mode)"}
		}
		return &ai.Decision{Approved: true, Reason: "no moderation service configured (permissive mode)"}
	}

	decision, err := g.svc.Moderate(ctx, ai.ModerateRequest{
		Title:       rec.Title,
		Description: rec.Description,
		Sources:     rec.Sources,
		Author:      rec.Author,
	})
	if err != nil {
		logging.Error("moderation call failed, rejecting", "record", rec.ID, "error", err)
		return &ai.Decision{Approved: false, Reason: fmt.Sprintf("moderation failed: %v", err)}
	}
	return decision
}

// publish resolves the final status, computes the automated score, and
// creates the event or appends a revision, then records the record's
// terminal status.
func (g *Gate) publish(rec model.PendingRecord, decision *ai.Decision) error {
	status := decision.Status
	if status == "" {
		status = model.StatusVerified
	}
	if len(rec.DisputedClaims) > 0 {
		status = model.StatusDisputed
	}

	sources := model.UniqueSources(rec.Sources)
	aiScore := score.Automated(len(sources), status == model.StatusDisputed)
	now := g.now().UTC()

	version := model.Version{
		Title:       rec.Title,
		Description: rec.Description,
		Sources:     sources,
		Status:      status,
		Author:      rec.Author,
		CreatedAt:   now,
		Disputed:    rec.DisputedClaims,
	}

	if decision.TargetEventID != "" {
		if err := g.store.ReviseEvent(decision.TargetEventID, version, aiScore); err != nil {
			return fmt.Errorf("revise event: %w", err)
		}
		logging.Info("revision published", "record", rec.ID, "event", decision.TargetEventID, "status", status)
	} else {
		event := model.Event{
			ID:             g.newID(),
			Title:          rec.Title,
			Description:    rec.Description,
			Sources:        sources,
			DisputedClaims: rec.DisputedClaims,
			Status:         status,
			AIScore:        aiScore,
			CommunityScore: 0,
			FinalScore:     score.Blend(aiScore, 0),
			Author:         rec.Author,
			CreatedAt:      now,
			UpdatedAt:      now,
		}
		if err := g.store.CreateEvent(event, version); err != nil {
			return fmt.Errorf("create event: %w", err)
		}
		logging.Info("event published", "record", rec.ID, "event", event.ID,
			"status", status, "ai_score", aiScore)
	}

	return g.store.SetPendingStatus(rec.ID, status)
}

func decisionStatus(d *ai.Decision) model.Status {
	if !d.Approved {
		return model.StatusRejected
	}
	if d.Status == "" {
		return model.StatusVerified
	}
	return d.Status
}
