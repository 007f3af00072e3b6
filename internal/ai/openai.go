package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/claimsift/claimsift/internal/model"
	openai "github.com/sashabaranov/go-openai"
)

// OpenAIService implements Service on OpenAI's Chat Completions API.
// A custom BaseURL points it at any OpenAI-compatible endpoint.
type OpenAIService struct {
	client *openai.Client
	config Config
}

// NewOpenAIService creates the service client.
func NewOpenAIService(cfg Config) (*OpenAIService, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required")
	}

	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}

	return &OpenAIService{
		client: openai.NewClientWithConfig(clientConfig),
		config: cfg,
	}, nil
}

// Name returns the provider name.
func (s *OpenAIService) Name() string {
	return "openai"
}

// ExtractClaim asks the service for a structured claim and trusts its
// JSON response, defaulting the optional fields.
func (s *OpenAIService) ExtractClaim(ctx context.Context, req ExtractRequest) (*model.Claim, error) {
	raw, err := s.complete(ctx, "You convert news articles into structured claims. Respond with JSON only.", buildExtractPrompt(req))
	if err != nil {
		return nil, err
	}

	var claim model.Claim
	if err := json.Unmarshal([]byte(raw), &claim); err != nil {
		return nil, fmt.Errorf("decode claim: %w", err)
	}
	if claim.Date == "" {
		claim.Date = time.Now().UTC().Format("2006-01-02")
	}
	if claim.Sources == nil {
		claim.Sources = []string{}
	}
	if claim.DisputedClaims == nil {
		claim.DisputedClaims = []model.DisputedClaim{}
	}
	return &claim, nil
}

// Moderate asks the service for a publication decision.
func (s *OpenAIService) Moderate(ctx context.Context, req ModerateRequest) (*Decision, error) {
	raw, err := s.complete(ctx, "You are a content moderation service for news claims. Respond with JSON only.", buildModeratePrompt(req))
	if err != nil {
		return nil, err
	}

	var decision Decision
	if err := json.Unmarshal([]byte(raw), &decision); err != nil {
		return nil, fmt.Errorf("decode decision: %w", err)
	}
	return &decision, nil
}

func (s *OpenAIService) complete(ctx context.Context, system, prompt string) (string, error) {
	chatModel := s.config.Model
	if chatModel == "" {
		chatModel = openai.GPT4oMini
	}
	maxTokens := s.config.MaxTokens
	if maxTokens == 0 {
		maxTokens = 1000
	}
	timeout := s.config.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: chatModel,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		MaxTokens:   maxTokens,
		Temperature: 0.1,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("empty response")
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}
