package cli

import (
	"fmt"

	"github.com/claimsift/claimsift/internal/store"
	"github.com/spf13/cobra"
)

// auditCmd represents the audit command
var auditCmd = &cobra.Command{
	Use:   "audit <subject-id>",
	Short: "Show the audit trail for a record or event",
	Long: `Audit prints every audit entry recorded for the given subject:
moderation decisions for pending records, retention deletions for
events. The trail is append-only and survives deletion of the
subject itself.`,
	Args: cobra.ExactArgs(1),
	RunE: runAudit,
}

func init() {
	rootCmd.AddCommand(auditCmd)
}

func runAudit(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	st, err := store.New(cfg.Store.Path)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer st.Close()

	entries, err := st.AuditForSubject(args[0])
	if err != nil {
		return fmt.Errorf("load audit trail: %w", err)
	}
	if len(entries) == 0 {
		fmt.Println("No audit entries.")
		return nil
	}

	for _, e := range entries {
		fmt.Printf("%s  %-14s  %-9s  %-13s  %s\n",
			e.CreatedAt.Format("2006-01-02 15:04:05"), e.Type, e.Status, e.Actor, e.Reason)
	}
	return nil
}
