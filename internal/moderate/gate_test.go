package moderate

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/claimsift/claimsift/internal/ai"
	"github.com/claimsift/claimsift/internal/model"
)

// fakeStore records every gate write for inspection.
type fakeStore struct {
	statuses  map[string]model.Status
	created   []model.Event
	revisions map[string][]model.Version
	audit     []model.AuditLogEntry

	createErr error
	reviseErr error
	auditErr  error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		statuses:  make(map[string]model.Status),
		revisions: make(map[string][]model.Version),
	}
}

func (f *fakeStore) SetPendingStatus(id string, status model.Status) error {
	f.statuses[id] = status
	return nil
}

func (f *fakeStore) CreateEvent(ev model.Event, ver model.Version) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.created = append(f.created, ev)
	return nil
}

func (f *fakeStore) ReviseEvent(eventID string, ver model.Version, aiScore float64) error {
	if f.reviseErr != nil {
		return f.reviseErr
	}
	f.revisions[eventID] = append(f.revisions[eventID], ver)
	return nil
}

func (f *fakeStore) AppendAudit(entry model.AuditLogEntry) error {
	if f.auditErr != nil {
		return f.auditErr
	}
	f.audit = append(f.audit, entry)
	return nil
}

// fakeService returns a canned decision or error.
type fakeService struct {
	decision *ai.Decision
	err      error
}

func (f *fakeService) Name() string { return "fake" }

func (f *fakeService) ExtractClaim(ctx context.Context, req ai.ExtractRequest) (*model.Claim, error) {
	return nil, fmt.Errorf("not used")
}

func (f *fakeService) Moderate(ctx context.Context, req ai.ModerateRequest) (*ai.Decision, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.decision, nil
}

func testRecord() model.PendingRecord {
	return model.PendingRecord{
		ID:          "rec-1",
		Date:        "2026-08-30",
		Title:       "Dam collapse in region X",
		Description: "Local reports describe a partial dam failure.",
		Sources:     []string{"https://a.example/1", "https://b.example/2"},
		Author:      "collector",
		SubmittedAt: time.Now().UTC(),
	}
}

func newTestGate(store Store, svc ai.Service, mode string) *Gate {
	g := NewGate(store, svc, mode)
	g.newID = func() string { return "event-1" }
	return g
}

func TestGate_PermissiveWithoutServicePublishes(t *testing.T) {
	store := newFakeStore()
	gate := newTestGate(store, nil, model.ModerationPermissive)

	if err := gate.Process(context.Background(), testRecord()); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if len(store.created) != 1 {
		t.Fatalf("Expected 1 event created, got %d", len(store.created))
	}
	ev := store.created[0]
	if ev.Status != model.StatusVerified {
		t.Errorf("Expected verified, got %s", ev.Status)
	}
	// Two unique sources: 0.4 + 2*0.25
	if ev.AIScore != 0.9 {
		t.Errorf("Expected ai score 0.9, got %v", ev.AIScore)
	}
	if ev.CommunityScore != 0 {
		t.Errorf("Expected community score 0 at creation, got %v", ev.CommunityScore)
	}
	if store.statuses["rec-1"] != model.StatusVerified {
		t.Errorf("Expected record marked verified, got %s", store.statuses["rec-1"])
	}
}

func TestGate_StrictWithoutServiceRejects(t *testing.T) {
	store := newFakeStore()
	gate := newTestGate(store, nil, model.ModerationStrict)

	if err := gate.Process(context.Background(), testRecord()); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if len(store.created) != 0 {
		t.Errorf("Expected no events, got %d", len(store.created))
	}
	if store.statuses["rec-1"] != model.StatusRejected {
		t.Errorf("Expected rejected, got %s", store.statuses["rec-1"])
	}
}

func TestGate_IncompleteRecordRejected(t *testing.T) {
	store := newFakeStore()
	// Permissive mode must not rescue a record with no description.
	gate := newTestGate(store, nil, model.ModerationPermissive)

	rec := testRecord()
	rec.Description = ""
	if err := gate.Process(context.Background(), rec); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if store.statuses[rec.ID] != model.StatusRejected {
		t.Errorf("Expected rejected status, got %q", store.statuses[rec.ID])
	}
	if len(store.created) != 0 {
		t.Errorf("Expected no event, got %d", len(store.created))
	}
	if len(store.audit) != 1 || store.audit[0].Reason != "incomplete record" {
		t.Errorf("Expected one audit entry with incomplete reason, got %+v", store.audit)
	}
}

func TestGate_ServiceErrorRejects(t *testing.T) {
	store := newFakeStore()
	svc := &fakeService{err: fmt.Errorf("upstream timeout")}
	gate := newTestGate(store, svc, model.ModerationPermissive)

	if err := gate.Process(context.Background(), testRecord()); err != nil {
		t.Fatalf("Expected contained error, got %v", err)
	}

	if len(store.created) != 0 {
		t.Errorf("Expected no events after service failure, got %d", len(store.created))
	}
	if store.statuses["rec-1"] != model.StatusRejected {
		t.Errorf("Expected rejected, got %s", store.statuses["rec-1"])
	}
}

func TestGate_AuditWrittenBeforeRejection(t *testing.T) {
	store := newFakeStore()
	svc := &fakeService{decision: &ai.Decision{Approved: false, Reason: "fabricated sources"}}
	gate := newTestGate(store, svc, model.ModerationPermissive)

	if err := gate.Process(context.Background(), testRecord()); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if len(store.audit) != 1 {
		t.Fatalf("Expected 1 audit entry, got %d", len(store.audit))
	}
	entry := store.audit[0]
	if entry.Type != model.AuditModeration {
		t.Errorf("Expected type %s, got %s", model.AuditModeration, entry.Type)
	}
	if entry.SubjectID != "rec-1" {
		t.Errorf("Expected subject rec-1, got %s", entry.SubjectID)
	}
	if entry.Status != model.StatusRejected {
		t.Errorf("Expected rejected, got %s", entry.Status)
	}
	if entry.Reason != "fabricated sources" {
		t.Errorf("Expected reason preserved, got %q", entry.Reason)
	}
	if entry.Actor != model.ActorModeration {
		t.Errorf("Expected actor %s, got %s", model.ActorModeration, entry.Actor)
	}
}

func TestGate_AuditFailureStopsProcessing(t *testing.T) {
	store := newFakeStore()
	store.auditErr = fmt.Errorf("disk full")
	gate := newTestGate(store, nil, model.ModerationPermissive)

	if err := gate.Process(context.Background(), testRecord()); err == nil {
		t.Fatal("Expected error when the audit write fails")
	}
	if len(store.created) != 0 {
		t.Errorf("Expected no publication without an audit entry, got %d events", len(store.created))
	}
}

func TestGate_FailClosedOnPublishError(t *testing.T) {
	store := newFakeStore()
	store.createErr = fmt.Errorf("constraint violation")
	gate := newTestGate(store, nil, model.ModerationPermissive)

	if err := gate.Process(context.Background(), testRecord()); err != nil {
		t.Fatalf("Expected contained error, got %v", err)
	}

	if store.statuses["rec-1"] != model.StatusRejected {
		t.Errorf("Expected record rejected after failed publish, got %s", store.statuses["rec-1"])
	}
}

func TestGate_DisputedClaimsForceStatusAndCap(t *testing.T) {
	store := newFakeStore()
	gate := newTestGate(store, nil, model.ModerationPermissive)

	rec := testRecord()
	rec.Sources = []string{"https://a.example/1", "https://b.example/2", "https://c.example/3"}
	rec.DisputedClaims = []model.DisputedClaim{
		{ClaimText: "officials deny the failure", Source: "https://d.example/4"},
	}

	if err := gate.Process(context.Background(), rec); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if len(store.created) != 1 {
		t.Fatalf("Expected 1 event, got %d", len(store.created))
	}
	ev := store.created[0]
	if ev.Status != model.StatusDisputed {
		t.Errorf("Expected disputed, got %s", ev.Status)
	}
	// Three sources would score 1.0; the dispute caps it
	if ev.AIScore != 0.7 {
		t.Errorf("Expected capped ai score 0.7, got %v", ev.AIScore)
	}
}

func TestGate_DuplicateSourcesCollapsed(t *testing.T) {
	store := newFakeStore()
	gate := newTestGate(store, nil, model.ModerationPermissive)

	rec := testRecord()
	rec.Sources = []string{"https://a.example/1", "https://a.example/1"}

	if err := gate.Process(context.Background(), rec); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	ev := store.created[0]
	if len(ev.Sources) != 1 {
		t.Errorf("Expected 1 unique source, got %d", len(ev.Sources))
	}
	// One unique source: 0.4 + 0.25
	if ev.AIScore != 0.65 {
		t.Errorf("Expected ai score 0.65, got %v", ev.AIScore)
	}
}

func TestGate_RevisionTargetsExistingEvent(t *testing.T) {
	store := newFakeStore()
	svc := &fakeService{decision: &ai.Decision{
		Approved:      true,
		Status:        model.StatusVerified,
		Reason:        "update to existing event",
		TargetEventID: "event-0",
	}}
	gate := newTestGate(store, svc, model.ModerationPermissive)

	if err := gate.Process(context.Background(), testRecord()); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if len(store.created) != 0 {
		t.Errorf("Expected no new events for a revision, got %d", len(store.created))
	}
	if len(store.revisions["event-0"]) != 1 {
		t.Fatalf("Expected 1 revision on event-0, got %d", len(store.revisions["event-0"]))
	}
	if store.statuses["rec-1"] != model.StatusVerified {
		t.Errorf("Expected record verified, got %s", store.statuses["rec-1"])
	}
}
