// Package extract turns raw candidates into structured claims, through
// the external classification service when one is configured and a
// deterministic fallback when not.
package extract

import (
	"context"
	"time"

	"github.com/claimsift/claimsift/internal/ai"
	"github.com/claimsift/claimsift/internal/logging"
	"github.com/claimsift/claimsift/internal/model"
)

// maxFallbackDescription bounds the description derived from body text
// when no classification service is configured.
const maxFallbackDescription = 2000

// nowFunc is injectable for tests.
var nowFunc = time.Now

// Extractor converts candidates into claims.
type Extractor struct {
	svc ai.Service // nil means fallback extraction
}

// NewExtractor creates an extractor. svc may be nil.
func NewExtractor(svc ai.Service) *Extractor {
	return &Extractor{svc: svc}
}

// Extract converts one candidate into a claim. It returns nil (no
// error) when the result is incomplete and must be discarded, and an
// error when the classification service failed for this candidate.
func (e *Extractor) Extract(ctx context.Context, cand model.Candidate) (*model.Claim, error) {
	var claim *model.Claim
	if e.svc != nil {
		extracted, err := e.svc.ExtractClaim(ctx, ai.ExtractRequest{
			Title: cand.Title,
			URL:   cand.Link,
			Text:  cand.RawText,
		})
		if err != nil {
			return nil, err
		}
		claim = extracted
	} else {
		claim = fallbackClaim(cand)
	}

	if !claim.Complete() {
		logging.Debug("incomplete claim discarded", "link", cand.Link)
		return nil, nil
	}
	return claim, nil
}

// ExtractAll converts a batch, skipping failed and incomplete
// candidates. One candidate's failure never aborts the batch.
func (e *Extractor) ExtractAll(ctx context.Context, candidates []model.Candidate) []model.Claim {
	claims := make([]model.Claim, 0, len(candidates))
	for _, cand := range candidates {
		claim, err := e.Extract(ctx, cand)
		if err != nil {
			logging.Warn("extraction failed", "link", cand.Link, "error", err)
			continue
		}
		if claim == nil {
			continue
		}
		claims = append(claims, *claim)
	}
	return claims
}

// fallbackClaim is the deterministic mapping used when no
// classification service is configured.
func fallbackClaim(cand model.Candidate) *model.Claim {
	description := cand.RawText
	// Cut on a rune boundary; body text is frequently multibyte
	if runes := []rune(description); len(runes) > maxFallbackDescription {
		description = string(runes[:maxFallbackDescription])
	}
	return &model.Claim{
		Date:           nowFunc().UTC().Format("2006-01-02"),
		Title:          cand.Title,
		Description:    description,
		Sources:        []string{cand.Link},
		DisputedClaims: []model.DisputedClaim{},
	}
}
