// Package crosscheck groups extracted claims into equivalence classes
// by normalized title and assigns each class a verification status.
// Grouping only assigns a label: every member stays its own record.
package crosscheck

import (
	"strings"

	"github.com/claimsift/claimsift/internal/model"
)

// maxKeyLength bounds the normalization key so trivially differing
// tails of long headlines still group together.
const maxKeyLength = 140

// NormalizeTitle computes the grouping key for a title: lowercase,
// whitespace collapsed, trimmed, truncated to 140 characters. The cut
// falls on a rune boundary so multibyte titles keep valid keys.
func NormalizeTitle(title string) string {
	key := strings.ToLower(title)
	key = strings.Join(strings.Fields(key), " ")
	if runes := []rune(key); len(runes) > maxKeyLength {
		key = string(runes[:maxKeyLength])
	}
	return key
}

// Annotate groups claims by normalized title and writes the group's
// status onto every member. The input is not modified. Annotation is
// idempotent: statuses depend only on group membership, sources and
// disputed claims, so re-annotating an annotated list reproduces it.
func Annotate(claims []model.Claim) []model.Claim {
	groups := make(map[string][]int, len(claims))
	for i, claim := range claims {
		key := NormalizeTitle(claim.Title)
		groups[key] = append(groups[key], i)
	}

	out := make([]model.Claim, len(claims))
	copy(out, claims)

	for _, members := range groups {
		status := groupStatus(out, members)
		for _, idx := range members {
			out[idx].Status = status
		}
	}
	return out
}

// groupStatus derives one status for a group: disputed when any member
// carries a counter-assertion, verified when the group has at least two
// unique sources or two members (independent extractions of the same
// story count as corroboration), pending otherwise.
func groupStatus(claims []model.Claim, members []int) model.Status {
	sources := make(map[string]bool)
	for _, idx := range members {
		if len(claims[idx].DisputedClaims) > 0 {
			return model.StatusDisputed
		}
		for _, src := range claims[idx].Sources {
			if src != "" {
				sources[src] = true
			}
		}
	}
	if len(sources) >= 2 || len(members) >= 2 {
		return model.StatusVerified
	}
	return model.StatusPending
}

// GroupSources returns the union of sources across claims sharing the
// given claim's normalized title, in first-seen order.
func GroupSources(claims []model.Claim, title string) []string {
	key := NormalizeTitle(title)
	var union []string
	for _, claim := range claims {
		if NormalizeTitle(claim.Title) != key {
			continue
		}
		union = append(union, claim.Sources...)
	}
	return model.UniqueSources(union)
}
