package collect

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/claimsift/claimsift/internal/logging"
	"github.com/claimsift/claimsift/internal/model"
	"github.com/claimsift/claimsift/internal/worker"
)

// ErrCooldown is returned when a run is requested before the gate's
// cooldown has elapsed.
var ErrCooldown = errors.New("collector ran too recently")

// Collector fans out over the configured source adapters, merges their
// candidates, deduplicates by canonical link, and retrieves body text
// with bounded parallelism.
type Collector struct {
	adapters      []SourceAdapter
	fetcher       *BodyFetcher
	gate          *RunGate
	sourceTimeout time.Duration
	workers       int
	minBodyChars  int
}

// NewCollector wires a collector from its parts.
func NewCollector(adapters []SourceAdapter, fetcher *BodyFetcher, gate *RunGate, sourceTimeout time.Duration, workers, minBodyChars int) *Collector {
	if sourceTimeout <= 0 {
		sourceTimeout = 15 * time.Second
	}
	if minBodyChars <= 0 {
		minBodyChars = 200
	}
	return &Collector{
		adapters:      adapters,
		fetcher:       fetcher,
		gate:          gate,
		sourceTimeout: sourceTimeout,
		workers:       workers,
		minBodyChars:  minBodyChars,
	}
}

// Run fetches every source and returns the surviving candidates with
// body text attached. A failing adapter contributes an empty result;
// candidates whose body fails to retrieve or is too short are dropped.
// Only the run gate produces an error.
func (c *Collector) Run(ctx context.Context) ([]model.Candidate, error) {
	if c.gate != nil && !c.gate.Allow() {
		return nil, ErrCooldown
	}

	merged := c.fetchSources(ctx)
	deduped := dedupeByLink(merged)
	logging.Info("sources merged", "candidates", len(merged), "unique", len(deduped))

	return c.fetchBodies(ctx, deduped), nil
}

// fetchSources runs every adapter under its own timeout. Results keep
// adapter registration order so link dedupe is deterministic.
func (c *Collector) fetchSources(ctx context.Context) []model.Candidate {
	results := make([][]model.Candidate, len(c.adapters))
	var wg sync.WaitGroup

	for i, adapter := range c.adapters {
		wg.Add(1)
		go func(idx int, a SourceAdapter) {
			defer wg.Done()

			sctx, cancel := context.WithTimeout(ctx, c.sourceTimeout)
			defer cancel()

			candidates, err := a.Fetch(sctx)
			if err != nil {
				// Contained: one bad source never aborts the batch
				logging.Warn("source failed", "source", a.Name(), "error", err)
				return
			}
			results[idx] = candidates
			logging.Debug("source fetched", "source", a.Name(), "items", len(candidates))
		}(i, adapter)
	}
	wg.Wait()

	var merged []model.Candidate
	for _, r := range results {
		merged = append(merged, r...)
	}
	return merged
}

// dedupeByLink keeps the first occurrence of each canonical link.
func dedupeByLink(candidates []model.Candidate) []model.Candidate {
	seen := make(map[string]bool, len(candidates))
	out := make([]model.Candidate, 0, len(candidates))
	for _, cand := range candidates {
		if cand.Link == "" || seen[cand.Link] {
			continue
		}
		seen[cand.Link] = true
		out = append(out, cand)
	}
	return out
}

// bodyJob retrieves one candidate's body text.
type bodyJob struct {
	candidate model.Candidate
	fetcher   *BodyFetcher
}

// bodyResult is the outcome of one body fetch.
type bodyResult struct {
	candidate model.Candidate
	err       error
}

// Err implements worker.Result.
func (r *bodyResult) Err() error {
	return r.err
}

// Execute implements worker.Job.
func (j *bodyJob) Execute(ctx context.Context) worker.Result {
	text, err := j.fetcher.FetchText(ctx, j.candidate.Link)
	if err != nil {
		return &bodyResult{candidate: j.candidate, err: err}
	}
	cand := j.candidate
	cand.RawText = text
	return &bodyResult{candidate: cand}
}

// fetchBodies retrieves body text for each candidate through the worker
// pool and drops the ones that fail or come back too short.
func (c *Collector) fetchBodies(ctx context.Context, candidates []model.Candidate) []model.Candidate {
	if len(candidates) == 0 {
		return nil
	}

	pool := worker.NewPool(ctx, c.workers)
	pool.Start()
	for _, cand := range candidates {
		pool.Submit(&bodyJob{candidate: cand, fetcher: c.fetcher})
	}

	var out []model.Candidate
	for _, result := range pool.Wait() {
		br := result.(*bodyResult)
		if br.err != nil {
			logging.Debug("body fetch failed", "link", br.candidate.Link, "error", br.err)
			continue
		}
		if len(br.candidate.RawText) < c.minBodyChars {
			logging.Debug("body too short", "link", br.candidate.Link, "chars", len(br.candidate.RawText))
			continue
		}
		out = append(out, br.candidate)
	}

	logging.Info("bodies fetched", "kept", len(out), "dropped", len(candidates)-len(out))
	return out
}
