package score

import (
	"context"
	"fmt"

	"github.com/claimsift/claimsift/internal/logging"
)

// EventStore is the slice of the store the aggregator needs. The
// recompute must be one atomic read-modify-write over the event's votes
// and scores: each vote arrives in its own process, so in-process
// locking cannot serialize two voters racing on the same event.
type EventStore interface {
	RecomputeEventScores(id string) (bool, error)
}

// Aggregator recomputes an event's community and final scores from the
// full current vote set. Recomputing from scratch instead of applying
// deltas keeps concurrent edits and removals of the same user's vote
// correct.
type Aggregator struct {
	store EventStore
}

// NewAggregator creates an aggregator over the given store.
func NewAggregator(store EventStore) *Aggregator {
	return &Aggregator{store: store}
}

// Recompute re-derives the event's community score from all attached
// votes and blends it with the automated score. A missing event is a
// no-op, not an error: the retention manager may have deleted it
// between the vote write and now.
func (a *Aggregator) Recompute(ctx context.Context, eventID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	ok, err := a.store.RecomputeEventScores(eventID)
	if err != nil {
		return fmt.Errorf("recompute scores: %w", err)
	}
	if !ok {
		logging.Debug("recompute skipped, event gone", "event", eventID)
		return nil
	}

	logging.Debug("scores recomputed", "event", eventID)
	return nil
}
