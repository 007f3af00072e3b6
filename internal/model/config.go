package model

import "time"

// Config holds the full runtime configuration. Values come from (highest
// priority first) CLI flags, CLAIMSIFT_* environment variables, the
// config file, and the defaults below.
type Config struct {
	HTTP       HTTPConfig       `yaml:"http"`
	Collector  CollectorConfig  `yaml:"collector"`
	AI         AIConfig         `yaml:"ai"`
	Moderation ModerationConfig `yaml:"moderation"`
	Retention  RetentionConfig  `yaml:"retention"`
	Cache      CacheConfig      `yaml:"cache"`
	Store      StoreConfig      `yaml:"store"`
}

// HTTPConfig configures the outbound fetch layer.
type HTTPConfig struct {
	Timeout      time.Duration `yaml:"timeout"`
	UserAgent    string        `yaml:"user_agent"`
	MaxBodyBytes int64         `yaml:"max_body_bytes"`
}

// CollectorConfig configures the source fan-out.
type CollectorConfig struct {
	SourceTimeout     time.Duration  `yaml:"source_timeout"` // Per-adapter budget
	Workers           int            `yaml:"workers"`        // Bounded body-fetch parallelism
	MinBodyChars      int            `yaml:"min_body_chars"` // Shorter bodies are dropped
	Cooldown          time.Duration  `yaml:"cooldown"`       // Process-wide run gate interval
	RequestsPerSecond float64        `yaml:"requests_per_second"`
	Burst             int            `yaml:"burst"`
	Sources           []SourceConfig `yaml:"sources"`
}

// SourceConfig declares one configured external source.
type SourceConfig struct {
	Name string `yaml:"name"`
	Kind string `yaml:"kind"` // "rss" or "json"
	URL  string `yaml:"url"`
}

// AIConfig configures the external classification/moderation service.
// An empty provider disables the service and activates the documented
// fallbacks (deterministic extraction, configured moderation posture).
type AIConfig struct {
	Provider  string        `yaml:"provider"` // "openai" or ""
	Model     string        `yaml:"model"`
	APIKey    string        `yaml:"api_key,omitempty"`
	BaseURL   string        `yaml:"base_url,omitempty"` // OpenAI-compatible endpoints
	Timeout   time.Duration `yaml:"timeout"`
	MaxTokens int           `yaml:"max_tokens"`
}

// ModerationConfig selects the posture when no moderation service is
// configured: "permissive" approves, "strict" rejects. An explicit
// operator choice, not a silent code path.
type ModerationConfig struct {
	Mode string `yaml:"mode"`
}

// Moderation postures.
const (
	ModerationPermissive = "permissive"
	ModerationStrict     = "strict"
)

// RetentionConfig configures the periodic low-trust sweep. MinCredibility
// is on the 0-100 scale (see Event.Credibility).
type RetentionConfig struct {
	GracePeriod    time.Duration `yaml:"grace_period"`
	MinCredibility int           `yaml:"min_credibility"`
	Interval       time.Duration `yaml:"interval"`
}

// CacheConfig configures the body-fetch cache.
type CacheConfig struct {
	Enabled bool          `yaml:"enabled"`
	TTL     time.Duration `yaml:"ttl"`
}

// StoreConfig configures the document store.
type StoreConfig struct {
	Path string `yaml:"path"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		HTTP: HTTPConfig{
			Timeout:      15 * time.Second,
			UserAgent:    "claimsift/0.1 (+https://github.com/claimsift/claimsift)",
			MaxBodyBytes: 2_000_000,
		},
		Collector: CollectorConfig{
			SourceTimeout:     15 * time.Second,
			Workers:           8,
			MinBodyChars:      200,
			Cooldown:          5 * time.Minute,
			RequestsPerSecond: 2,
			Burst:             5,
		},
		AI: AIConfig{
			Provider:  "",
			Timeout:   30 * time.Second,
			MaxTokens: 1000,
		},
		Moderation: ModerationConfig{
			Mode: ModerationPermissive,
		},
		Retention: RetentionConfig{
			GracePeriod:    7 * 24 * time.Hour,
			MinCredibility: 40,
			Interval:       time.Hour,
		},
		Cache: CacheConfig{
			Enabled: true,
			TTL:     30 * time.Minute,
		},
		Store: StoreConfig{
			Path: "claimsift.db",
		},
	}
}
