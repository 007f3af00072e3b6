package model

import "time"

// Audit entry types. One entry is written per moderation decision and
// per retention deletion.
const (
	AuditModeration   = "moderation"
	AuditEventDeleted = "event_deleted"
)

// ActorModeration is the actor recorded on gate decisions.
const ActorModeration = "ai-moderation"

// ActorRetention is the actor recorded on retention deletions.
const ActorRetention = "retention"

// AuditLogEntry is one row of the append-only audit trail. Entries are
// never mutated or deleted; every published event is preceded by at
// least one entry recording its acceptance.
type AuditLogEntry struct {
	ID        int64     `json:"id"`
	Type      string    `json:"type"`
	SubjectID string    `json:"subject_id"`
	Status    Status    `json:"status,omitempty"`
	Reason    string    `json:"reason,omitempty"`
	Actor     string    `json:"actor"`
	CreatedAt time.Time `json:"created_at"`
}
