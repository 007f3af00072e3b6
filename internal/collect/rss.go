package collect

import (
	"context"
	"fmt"

	"github.com/claimsift/claimsift/internal/model"
	"github.com/mmcdole/gofeed"
)

// RSSAdapter reads candidates from an RSS/Atom feed.
type RSSAdapter struct {
	name   string
	url    string
	parser *gofeed.Parser
}

// NewRSSAdapter creates an adapter for one feed.
func NewRSSAdapter(name, url, userAgent string) *RSSAdapter {
	parser := gofeed.NewParser()
	parser.UserAgent = userAgent
	return &RSSAdapter{
		name:   name,
		url:    url,
		parser: parser,
	}
}

// Name identifies the feed.
func (a *RSSAdapter) Name() string {
	return a.name
}

// Fetch lists the feed's current entries as candidates. Entries without
// a link are skipped; they cannot be deduplicated or fetched.
func (a *RSSAdapter) Fetch(ctx context.Context) ([]model.Candidate, error) {
	feed, err := a.parser.ParseURLWithContext(a.url, ctx)
	if err != nil {
		return nil, fmt.Errorf("parse feed %s: %w", a.url, err)
	}

	candidates := make([]model.Candidate, 0, len(feed.Items))
	for _, entry := range feed.Items {
		if entry.Link == "" {
			continue
		}
		candidates = append(candidates, model.Candidate{
			Link:       entry.Link,
			Title:      entry.Title,
			SourceName: a.name,
		})
	}
	return candidates, nil
}
