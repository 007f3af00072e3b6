package model

import "time"

// Status is the verification status carried by claims, pending records
// and published events.
type Status string

const (
	StatusPending  Status = "pending"  // Not yet corroborated
	StatusVerified Status = "verified" // Corroborated by independent sources or extractions
	StatusDisputed Status = "disputed" // At least one recorded counter-assertion
	StatusRejected Status = "rejected" // Terminal, set by the moderation gate only
)

// DisputedClaim is a recorded counter-assertion contradicting the main
// claim. Its presence forces disputed status regardless of source count.
type DisputedClaim struct {
	ClaimText string    `json:"claim_text"`
	Source    string    `json:"source"`
	Timestamp time.Time `json:"timestamp"`
}

// Claim is a structured, not-yet-published assertion produced by the
// extractor. The cross-checker assigns Status; every other field is set
// at extraction time and not touched afterwards.
type Claim struct {
	Date           string          `json:"date"` // YYYY-MM-DD
	Title          string          `json:"title"`
	Description    string          `json:"description"`
	Sources        []string        `json:"sources"`
	DisputedClaims []DisputedClaim `json:"disputed_claims,omitempty"`
	Status         Status          `json:"status,omitempty"`
}

// Complete reports whether the claim carries the fields required for
// submission. Incomplete claims are discarded by the extractor.
func (c Claim) Complete() bool {
	return c.Title != "" && c.Description != "" && c.Date != ""
}
