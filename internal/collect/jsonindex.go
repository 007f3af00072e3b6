package collect

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/claimsift/claimsift/internal/model"
)

// JSONIndexAdapter reads candidates from a JSON endpoint serving an
// array of {"title": ..., "link": ...} objects.
type JSONIndexAdapter struct {
	name       string
	url        string
	userAgent  string
	httpClient *http.Client
}

// NewJSONIndexAdapter creates an adapter for one JSON index.
func NewJSONIndexAdapter(name, url, userAgent string, timeout time.Duration) *JSONIndexAdapter {
	return &JSONIndexAdapter{
		name:      name,
		url:       url,
		userAgent: userAgent,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Name identifies the index.
func (a *JSONIndexAdapter) Name() string {
	return a.name
}

type jsonIndexItem struct {
	Title string `json:"title"`
	Link  string `json:"link"`
}

// Fetch lists the index's current items as candidates.
func (a *JSONIndexAdapter) Fetch(ctx context.Context) ([]model.Candidate, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", a.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch index %s: %w", a.url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4_000_000))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	var items []jsonIndexItem
	if err := json.Unmarshal(body, &items); err != nil {
		return nil, fmt.Errorf("decode index: %w", err)
	}

	candidates := make([]model.Candidate, 0, len(items))
	for _, item := range items {
		if item.Link == "" {
			continue
		}
		candidates = append(candidates, model.Candidate{
			Link:       item.Link,
			Title:      item.Title,
			SourceName: a.name,
		})
	}
	return candidates, nil
}
