// Package score holds the trust-score formulas and the reactive
// aggregator that recomputes an event's scores on every vote write.
package score

import (
	"github.com/claimsift/claimsift/internal/model"
)

// disputedCap is the ceiling on the automated score for disputed
// claims, regardless of how many sources corroborate them.
const disputedCap = 0.7

// clamp01 clamps v into [0,1].
func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// Automated computes the automated trust score from the number of
// unique sources: 0.4 base plus 0.25 per source, saturating at three.
func Automated(uniqueSources int, disputed bool) float64 {
	n := uniqueSources
	if n > 3 {
		n = 3
	}
	s := clamp01(0.4 + 0.25*float64(n))
	if disputed && s > disputedCap {
		s = disputedCap
	}
	return s
}

// Community computes the role-weighted net vote signal in [-1,1].
// Zero votes yield zero.
func Community(votes []model.Vote) float64 {
	up, down := 0, 0
	for _, v := range votes {
		w := v.Role.Weight()
		switch {
		case v.Value > 0:
			up += w
		case v.Value < 0:
			down += w
		}
	}
	total := up + down
	if total == 0 {
		return 0
	}
	return float64(up-down) / float64(total)
}

// Blend derives the final score from the automated and community
// scores: 70% automated, 30% community, clamped into [0,1].
func Blend(aiScore, communityScore float64) float64 {
	return clamp01(0.7*aiScore + 0.3*communityScore)
}
