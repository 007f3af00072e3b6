// Package collect fetches candidate items from configured external
// sources, retrieves their body text with bounded parallelism, and
// deduplicates by canonical link. A failing source never aborts a run.
package collect

import (
	"context"

	"github.com/claimsift/claimsift/internal/model"
)

// SourceAdapter fetches candidate items from one external source.
// Adapters are pure readers: they normalize whatever the source serves
// into candidates and report failures through the error return only.
type SourceAdapter interface {
	// Name identifies the source in logs and candidates.
	Name() string

	// Fetch lists the source's current items.
	Fetch(ctx context.Context) ([]model.Candidate, error)
}
