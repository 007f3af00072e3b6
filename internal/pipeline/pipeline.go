// Package pipeline orchestrates one ingestion run: collect candidates,
// extract claims, cross-check them, submit the survivors as pending
// records, and take each new record through the moderation gate.
package pipeline

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/claimsift/claimsift/internal/collect"
	"github.com/claimsift/claimsift/internal/crosscheck"
	"github.com/claimsift/claimsift/internal/extract"
	"github.com/claimsift/claimsift/internal/logging"
	"github.com/claimsift/claimsift/internal/model"
	"github.com/claimsift/claimsift/internal/moderate"
	"github.com/google/uuid"
)

// SubmitStore is the slice of the document store the submission path
// writes through.
type SubmitStore interface {
	InsertPendingIfAbsent(rec model.PendingRecord, dedupeKey string) (bool, error)
}

// Stats summarizes one run.
type Stats struct {
	Candidates int
	Claims     int
	Submitted  int
	Duplicates int
}

// Pipeline wires the ingestion stages together.
type Pipeline struct {
	collector *collect.Collector
	extractor *extract.Extractor
	gate      *moderate.Gate
	store     SubmitStore
	author    string
}

// New creates a pipeline from its stages.
func New(collector *collect.Collector, extractor *extract.Extractor, gate *moderate.Gate, store SubmitStore) *Pipeline {
	return &Pipeline{
		collector: collector,
		extractor: extractor,
		gate:      gate,
		store:     store,
		author:    "collector",
	}
}

// RunOnce executes one full ingestion run. Contained stage failures
// (bad sources, failed extractions, rejected records) are reflected in
// the stats and logs, not in the error return.
func (p *Pipeline) RunOnce(ctx context.Context) (Stats, error) {
	candidates, err := p.collector.Run(ctx)
	if err != nil {
		return Stats{}, fmt.Errorf("collect: %w", err)
	}

	claims := p.extractor.ExtractAll(ctx, candidates)
	claims = crosscheck.Annotate(claims)

	stats := Stats{
		Candidates: len(candidates),
		Claims:     len(claims),
	}

	for _, claim := range claims {
		rec := model.PendingRecord{
			ID:    uuid.NewString(),
			Date:  claim.Date,
			Title: claim.Title,
			// The record carries the whole group's corroboration, not
			// just the one link this extraction came from.
			Sources:        crosscheck.GroupSources(claims, claim.Title),
			Description:    claim.Description,
			DisputedClaims: claim.DisputedClaims,
			Author:         p.author,
			Status:         claim.Status,
			SubmittedAt:    time.Now().UTC(),
		}

		inserted, err := p.store.InsertPendingIfAbsent(rec, DedupeKey(claim))
		if err != nil {
			logging.Error("submission failed", "title", claim.Title, "error", err)
			continue
		}
		if !inserted {
			stats.Duplicates++
			continue
		}
		stats.Submitted++

		if err := p.gate.Process(ctx, rec); err != nil {
			logging.Error("moderation bookkeeping failed", "record", rec.ID, "error", err)
		}
	}

	logging.Info("run complete", "candidates", stats.Candidates,
		"claims", stats.Claims, "submitted", stats.Submitted, "duplicates", stats.Duplicates)
	return stats, nil
}

// DedupeKey derives the transactional insert-if-absent key for a claim
// from its canonical link and normalized title.
func DedupeKey(claim model.Claim) string {
	link := ""
	if len(claim.Sources) > 0 {
		link = claim.Sources[0]
	}
	sum := sha256.Sum256([]byte(link + "|" + crosscheck.NormalizeTitle(claim.Title)))
	return hex.EncodeToString(sum[:])
}
