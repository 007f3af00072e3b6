package model

import "time"

// PendingRecord is a persisted claim awaiting moderation. It is created
// by the submission path, its status is changed exactly once by the
// moderation gate, and it is never deleted: together with the audit log
// it forms the provenance trail of every published event.
type PendingRecord struct {
	ID             string          `json:"id"`
	Date           string          `json:"date"`
	Title          string          `json:"title"`
	Description    string          `json:"description"`
	Sources        []string        `json:"sources"`
	DisputedClaims []DisputedClaim `json:"disputed_claims,omitempty"`
	Author         string          `json:"author"`
	Status         Status          `json:"status"`
	SubmittedAt    time.Time       `json:"submitted_at"`
}

// AsClaim returns the claim the record was created from.
func (r PendingRecord) AsClaim() Claim {
	return Claim{
		Date:           r.Date,
		Title:          r.Title,
		Description:    r.Description,
		Sources:        r.Sources,
		DisputedClaims: r.DisputedClaims,
		Status:         r.Status,
	}
}
