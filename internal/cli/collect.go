package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/claimsift/claimsift/internal/ai"
	"github.com/claimsift/claimsift/internal/cache"
	"github.com/claimsift/claimsift/internal/collect"
	"github.com/claimsift/claimsift/internal/extract"
	"github.com/claimsift/claimsift/internal/model"
	"github.com/claimsift/claimsift/internal/moderate"
	"github.com/claimsift/claimsift/internal/pipeline"
	"github.com/claimsift/claimsift/internal/store"
	"github.com/claimsift/claimsift/internal/worker"
	"github.com/spf13/cobra"
)

var (
	collectTimeout time.Duration
	collectForce   bool
)

// collectCmd represents the collect command
var collectCmd = &cobra.Command{
	Use:   "collect",
	Short: "Run one ingestion pass over the configured sources",
	Long: `Collect fetches candidate items from every configured source,
extracts structured claims, cross-checks them, submits the new ones
as pending records and takes each through the moderation gate.

Sources are declared in the config file:

  collector:
    sources:
      - name: example
        kind: rss
        url: https://example.com/feed.xml

Example:
  claimsift collect
  claimsift collect --timeout 5m --force`,
	Args: cobra.NoArgs,
	RunE: runCollect,
}

func init() {
	rootCmd.AddCommand(collectCmd)

	collectCmd.Flags().DurationVar(&collectTimeout, "timeout", 10*time.Minute, "overall run timeout")
	collectCmd.Flags().BoolVar(&collectForce, "force", false, "ignore the run cooldown")
}

func runCollect(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if len(cfg.Collector.Sources) == 0 {
		return fmt.Errorf("no sources configured; add collector.sources to the config file")
	}

	ctx, cancel := context.WithTimeout(context.Background(), collectTimeout)
	defer cancel()

	st, err := store.New(cfg.Store.Path)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer st.Close()

	p, err := buildPipeline(cfg, st)
	if err != nil {
		return err
	}

	stats, err := p.RunOnce(ctx)
	if errors.Is(err, collect.ErrCooldown) {
		fmt.Fprintf(os.Stderr, "Run skipped: cooldown active (interval %v)\n", cfg.Collector.Cooldown)
		return nil
	}
	if err != nil {
		return fmt.Errorf("run failed: %w", err)
	}

	fmt.Printf("Candidates: %d\n", stats.Candidates)
	fmt.Printf("Claims:     %d\n", stats.Claims)
	fmt.Printf("Submitted:  %d\n", stats.Submitted)
	fmt.Printf("Duplicates: %d\n", stats.Duplicates)
	return nil
}

// buildPipeline wires the ingestion stages from the configuration.
func buildPipeline(cfg *model.Config, st *store.Store) (*pipeline.Pipeline, error) {
	adapters, err := buildAdapters(cfg)
	if err != nil {
		return nil, err
	}

	var bodyCache cache.Cache
	if cfg.Cache.Enabled {
		bodyCache = cache.NewMemory(cfg.Cache.TTL, cfg.Cache.TTL)
	}
	limiter := worker.NewLimiter(cfg.Collector.RequestsPerSecond, cfg.Collector.Burst)
	fetcher := collect.NewBodyFetcher(cfg.HTTP.Timeout, cfg.HTTP.UserAgent, cfg.HTTP.MaxBodyBytes,
		limiter, bodyCache, cfg.Cache.TTL)

	cooldown := cfg.Collector.Cooldown
	if collectForce {
		cooldown = 0
	}
	collector := collect.NewCollector(adapters, fetcher, collect.NewRunGate(cooldown),
		cfg.Collector.SourceTimeout, cfg.Collector.Workers, cfg.Collector.MinBodyChars)

	svc, err := ai.NewService(ai.ConfigFromModel(cfg.AI))
	if err != nil {
		return nil, fmt.Errorf("ai service: %w", err)
	}

	gate := moderate.NewGate(st, svc, cfg.Moderation.Mode)
	return pipeline.New(collector, extract.NewExtractor(svc), gate, st), nil
}

func buildAdapters(cfg *model.Config) ([]collect.SourceAdapter, error) {
	adapters := make([]collect.SourceAdapter, 0, len(cfg.Collector.Sources))
	for _, src := range cfg.Collector.Sources {
		switch src.Kind {
		case "rss":
			adapters = append(adapters, collect.NewRSSAdapter(src.Name, src.URL, cfg.HTTP.UserAgent))
		case "json":
			adapters = append(adapters, collect.NewJSONIndexAdapter(src.Name, src.URL, cfg.HTTP.UserAgent, cfg.HTTP.Timeout))
		default:
			return nil, fmt.Errorf("source %q: unknown kind %q (supported: rss, json)", src.Name, src.Kind)
		}
	}
	return adapters, nil
}
