package cli

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/claimsift/claimsift/internal/retention"
	"github.com/claimsift/claimsift/internal/store"
	"github.com/spf13/cobra"
)

var sweepInterval time.Duration

// sweepCmd represents the sweep command
var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Delete low-trust events past their grace period",
	Long: `Sweep scans published events and deletes those that have stayed
unverified or below the credibility threshold for longer than the
configured grace period. Every deletion leaves an audit entry and a
system log record.

By default sweep runs once and exits. With --interval it keeps
running until interrupted.

Example:
  claimsift sweep
  claimsift sweep --interval 1h`,
	Args: cobra.NoArgs,
	RunE: runSweep,
}

func init() {
	rootCmd.AddCommand(sweepCmd)

	sweepCmd.Flags().DurationVar(&sweepInterval, "interval", 0, "rerun the sweep at this interval (0 = run once)")
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	st, err := store.New(cfg.Store.Path)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer st.Close()

	mgr := retention.NewManager(st, cfg.Retention.GracePeriod, cfg.Retention.MinCredibility)

	if sweepInterval > 0 {
		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		mgr.Run(ctx, sweepInterval)
		return nil
	}

	summary, err := mgr.Sweep(context.Background())
	if err != nil {
		return fmt.Errorf("sweep failed: %w", err)
	}

	fmt.Printf("Scanned: %d\n", summary.Scanned)
	fmt.Printf("Flagged: %d\n", summary.Flagged)
	fmt.Printf("Deleted: %d\n", summary.Deleted)
	fmt.Printf("Errors:  %d\n", summary.Errors)
	return nil
}
