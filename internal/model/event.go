package model

import (
	"math"
	"time"
)

// Version is one accepted revision of an event. Versions are stored in an
// ordered, append-only log keyed by event id; they are never edited.
type Version struct {
	Ordinal     int64           `json:"ordinal"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Sources     []string        `json:"sources"`
	Status      Status          `json:"status"`
	Author      string          `json:"author"`
	CreatedAt   time.Time       `json:"created_at"`
	Disputed    []DisputedClaim `json:"disputed_claims,omitempty"`
}

// Event is a published, versioned claim with a blended trust score.
// It is created once by the moderation gate; after creation the three
// score fields are mutated exclusively by the score aggregator, and the
// content fields only through accepted revisions.
type Event struct {
	ID             string          `json:"id"`
	Title          string          `json:"title"`
	Description    string          `json:"description"`
	Sources        []string        `json:"sources"` // Set semantics, no duplicates
	DisputedClaims []DisputedClaim `json:"disputed_claims,omitempty"`
	Status         Status          `json:"status"`
	AIScore        float64         `json:"ai_score"`        // [0,1], source-count heuristic
	CommunityScore float64         `json:"community_score"` // [-1,1], role-weighted net votes
	FinalScore     float64         `json:"final_score"`     // [0,1], blended
	Author         string          `json:"author"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// Credibility maps the internal [0,1] final score onto the 0-100 scale
// used at presentation and retention boundaries. This is the single
// conversion point between the two scales.
func (e Event) Credibility() int {
	return int(math.Round(e.FinalScore * 100))
}

// Age returns the time since the event was last touched, preferring
// UpdatedAt over CreatedAt.
func (e Event) Age(now time.Time) time.Duration {
	ref := e.CreatedAt
	if e.UpdatedAt.After(ref) {
		ref = e.UpdatedAt
	}
	return now.Sub(ref)
}

// UniqueSources returns sources deduplicated in first-seen order.
// Stored events already hold set semantics; this is applied at every
// write path so duplicates never reach the store.
func UniqueSources(sources []string) []string {
	seen := make(map[string]bool, len(sources))
	out := make([]string, 0, len(sources))
	for _, s := range sources {
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}
