package cli

import (
	"fmt"
	"strings"

	"github.com/claimsift/claimsift/internal/model"
	"github.com/claimsift/claimsift/internal/store"
	"github.com/spf13/cobra"
)

var pendingStatus string

// pendingCmd represents the pending command
var pendingCmd = &cobra.Command{
	Use:   "pending",
	Short: "List submitted records in the moderation queue",
	Long: `Pending lists submitted records by moderation status, oldest
first. The default shows the queue still awaiting the gate; --status
selects records the gate already resolved.`,
	Args: cobra.NoArgs,
	RunE: runPending,
}

var pendingShowCmd = &cobra.Command{
	Use:   "show <record-id>",
	Short: "Show one submitted record",
	Args:  cobra.ExactArgs(1),
	RunE:  runPendingShow,
}

func init() {
	rootCmd.AddCommand(pendingCmd)
	pendingCmd.AddCommand(pendingShowCmd)
	pendingCmd.Flags().StringVar(&pendingStatus, "status", string(model.StatusPending),
		"filter by status (pending, verified, disputed, rejected)")
}

func parseStatus(s string) (model.Status, error) {
	switch status := model.Status(s); status {
	case model.StatusPending, model.StatusVerified, model.StatusDisputed, model.StatusRejected:
		return status, nil
	default:
		return "", fmt.Errorf("unknown status %q (want pending, verified, disputed, or rejected)", s)
	}
}

func runPending(cmd *cobra.Command, args []string) error {
	status, err := parseStatus(pendingStatus)
	if err != nil {
		return err
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	st, err := store.New(cfg.Store.Path)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer st.Close()

	records, err := st.PendingByStatus(status)
	if err != nil {
		return fmt.Errorf("list pending: %w", err)
	}
	if len(records) == 0 {
		fmt.Printf("No %s records.\n", status)
		return nil
	}

	for _, rec := range records {
		fmt.Printf("%s  %s  %s\n", rec.ID, rec.SubmittedAt.Format("2006-01-02 15:04"), rec.Title)
	}
	return nil
}

func runPendingShow(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	st, err := store.New(cfg.Store.Path)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer st.Close()

	rec, err := st.GetPending(args[0])
	if err != nil {
		return fmt.Errorf("lookup record: %w", err)
	}
	if rec == nil {
		return fmt.Errorf("no such record: %s", args[0])
	}

	fmt.Printf("Record:      %s\n", rec.ID)
	fmt.Printf("Title:       %s\n", rec.Title)
	fmt.Printf("Status:      %s\n", rec.Status)
	fmt.Printf("Author:      %s\n", rec.Author)
	fmt.Printf("Date:        %s\n", rec.Date)
	fmt.Printf("Submitted:   %s\n", rec.SubmittedAt.Format("2006-01-02 15:04"))
	fmt.Printf("Sources:     %s\n", strings.Join(rec.Sources, ", "))
	if len(rec.DisputedClaims) > 0 {
		fmt.Printf("Disputed:\n")
		for _, dc := range rec.DisputedClaims {
			fmt.Printf("  - %s (%s)\n", dc.ClaimText, dc.Source)
		}
	}
	fmt.Printf("\n%s\n", rec.Description)
	return nil
}
