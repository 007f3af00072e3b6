// Package ai talks to the external classification/moderation service.
// The service is opaque: requests and responses are the minimal JSON
// shapes the pipeline depends on, and an unconfigured service triggers
// the documented fallbacks instead of an error.
package ai

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/claimsift/claimsift/internal/model"
)

// Service is the request/response boundary for claim extraction and
// moderation decisions.
type Service interface {
	// Name returns the provider name.
	Name() string

	// ExtractClaim converts a raw candidate into a structured claim.
	ExtractClaim(ctx context.Context, req ExtractRequest) (*model.Claim, error)

	// Moderate decides whether a pending record may be published.
	Moderate(ctx context.Context, req ModerateRequest) (*Decision, error)
}

// ExtractRequest is the extraction payload.
type ExtractRequest struct {
	Title string `json:"title"`
	URL   string `json:"url"`
	Text  string `json:"text"`
}

// ModerateRequest is the moderation payload.
type ModerateRequest struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Sources     []string `json:"sources"`
	Author      string   `json:"author"`
}

// Decision is the moderation verdict.
type Decision struct {
	Approved bool         `json:"approved"`
	Status   model.Status `json:"status,omitempty"`
	Reason   string       `json:"reason,omitempty"`

	// TargetEventID names an existing event when the decision is a
	// revision rather than a new publication.
	TargetEventID string `json:"target_event_id,omitempty"`
}

// Config holds service configuration.
type Config struct {
	Provider  string
	Model     string
	APIKey    string
	BaseURL   string // OpenAI-compatible endpoints
	Timeout   time.Duration
	MaxTokens int
}

// NewService creates the configured service. An empty provider returns
// (nil, nil): the service is disabled and callers fall back.
func NewService(cfg Config) (Service, error) {
	switch strings.ToLower(cfg.Provider) {
	case "openai":
		return NewOpenAIService(cfg)
	case "":
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown ai provider: %s (supported: openai)", cfg.Provider)
	}
}

// ConfigFromModel converts the config-file section.
func ConfigFromModel(mc model.AIConfig) Config {
	return Config{
		Provider:  mc.Provider,
		Model:     mc.Model,
		APIKey:    mc.APIKey,
		BaseURL:   mc.BaseURL,
		Timeout:   mc.Timeout,
		MaxTokens: mc.MaxTokens,
	}
}

// buildExtractPrompt instructs the service to return the claim shape
// the pipeline trusts.
func buildExtractPrompt(req ExtractRequest) string {
	return fmt.Sprintf(`Extract one structured news claim from the article below.

Respond with a single JSON object:
{"date":"YYYY-MM-DD","title":"...","description":"...","sources":["url"],"disputed_claims":[{"claim_text":"...","source":"...","timestamp":"RFC3339"}]}

Rules:
- "date" is the date the claimed event happened, or today if unknown.
- "sources" must include the article URL.
- "disputed_claims" lists counter-assertions found in the text; empty array if none.
- Do not invent facts that are not in the text.

Title: %s
URL: %s

Text:
%s`, req.Title, req.URL, req.Text)
}

// buildModeratePrompt instructs the service to return a publication
// decision.
func buildModeratePrompt(req ModerateRequest) string {
	return fmt.Sprintf(`You are moderating a pending news claim before publication.

Respond with a single JSON object:
{"approved":true|false,"status":"verified"|"disputed"|"pending","reason":"...","target_event_id":""}

Rules:
- Reject content that is spam, abusive, or clearly fabricated.
- "status" is your assessment of the claim; omit it to accept the default.
- "target_event_id" is only set when this claim revises an already published event.

Title: %s
Author: %s
Sources: %s

Description:
%s`, req.Title, req.Author, strings.Join(req.Sources, ", "), req.Description)
}
