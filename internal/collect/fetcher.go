package collect

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/claimsift/claimsift/internal/cache"
	"github.com/claimsift/claimsift/internal/worker"
	"golang.org/x/net/html"
)

// BodyFetcher retrieves a page's visible text. Each fetch honors
// robots.txt, waits on the per-domain rate limiter, and goes through
// the cache so repeated runs skip unchanged pages.
type BodyFetcher struct {
	httpClient *http.Client
	userAgent  string
	maxBytes   int64
	robots     *robotsChecker
	limiter    *worker.Limiter
	cache      cache.Cache
	cacheTTL   time.Duration
}

// NewBodyFetcher creates a fetcher. A nil cache disables caching.
func NewBodyFetcher(timeout time.Duration, userAgent string, maxBytes int64, limiter *worker.Limiter, c cache.Cache, cacheTTL time.Duration) *BodyFetcher {
	return &BodyFetcher{
		httpClient: &http.Client{
			Timeout: timeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 3 {
					return fmt.Errorf("stopped after 3 redirects")
				}
				return nil
			},
		},
		userAgent: userAgent,
		maxBytes:  maxBytes,
		robots:    newRobotsChecker(userAgent, timeout),
		limiter:   limiter,
		cache:     c,
		cacheTTL:  cacheTTL,
	}
}

// FetchText retrieves the visible text of the page at rawURL.
func (f *BodyFetcher) FetchText(ctx context.Context, rawURL string) (string, error) {
	if f.cache != nil {
		if body, found := f.cache.Get(cache.Key(rawURL)); found {
			return string(body), nil
		}
	}

	allowed, crawlDelay := f.robots.canFetch(ctx, rawURL)
	if !allowed {
		return "", fmt.Errorf("disallowed by robots.txt: %s", rawURL)
	}
	if f.limiter != nil {
		if err := f.limiter.Wait(ctx, rawURL, crawlDelay); err != nil {
			return "", err
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("unexpected status: %d %s", resp.StatusCode, resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBytes))
	if err != nil {
		return "", fmt.Errorf("read body: %w", err)
	}

	text := extractText(string(body))
	if f.cache != nil {
		f.cache.Set(cache.Key(rawURL), []byte(text), f.cacheTTL)
	}
	return text, nil
}

// extractText returns the visible text of an HTML document, skipping
// script, style, noscript and iframe subtrees. Non-HTML input falls
// through mostly unchanged, which is what we want for plain-text pages.
func extractText(htmlContent string) string {
	doc, err := html.Parse(strings.NewReader(htmlContent))
	if err != nil {
		return htmlContent
	}

	var buf strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "script", "style", "noscript", "iframe":
				return
			}
		}
		if n.Type == html.TextNode {
			if text := strings.TrimSpace(n.Data); text != "" {
				buf.WriteString(text)
				buf.WriteString(" ")
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return strings.TrimSpace(buf.String())
}
