package cli

import (
	"fmt"
	"strings"

	"github.com/claimsift/claimsift/internal/model"
	"github.com/claimsift/claimsift/internal/store"
	"github.com/spf13/cobra"
)

// eventsCmd represents the events command
var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "List published events",
	Long: `Events lists published events with their status and scores,
newest first.`,
	Args: cobra.NoArgs,
	RunE: runEvents,
}

var eventsShowCmd = &cobra.Command{
	Use:   "show <event-id>",
	Short: "Show one event with its full revision history",
	Args:  cobra.ExactArgs(1),
	RunE:  runEventsShow,
}

func init() {
	rootCmd.AddCommand(eventsCmd)
	eventsCmd.AddCommand(eventsShowCmd)
}

func runEvents(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	st, err := store.New(cfg.Store.Path)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer st.Close()

	events, err := st.ListEvents()
	if err != nil {
		return fmt.Errorf("list events: %w", err)
	}
	if len(events) == 0 {
		fmt.Println("No events.")
		return nil
	}

	for _, ev := range events {
		fmt.Printf("%s  %-9s  cred %3d  %s\n", ev.ID, ev.Status, ev.Credibility(), ev.Title)
	}
	return nil
}

func runEventsShow(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	st, err := store.New(cfg.Store.Path)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer st.Close()

	ev, err := st.GetEvent(args[0])
	if err != nil {
		return fmt.Errorf("lookup event: %w", err)
	}
	if ev == nil {
		return fmt.Errorf("no such event: %s", args[0])
	}

	printEvent(ev)

	versions, err := st.EventVersions(ev.ID)
	if err != nil {
		return fmt.Errorf("load versions: %w", err)
	}

	fmt.Printf("\nRevisions (%d):\n", len(versions))
	for _, ver := range versions {
		fmt.Printf("  #%d  %s  %-9s  %s  %s\n",
			ver.Ordinal, ver.CreatedAt.Format("2006-01-02 15:04"), ver.Status, ver.Author, ver.Title)
	}
	return nil
}

func printEvent(ev *model.Event) {
	fmt.Printf("Event:       %s\n", ev.ID)
	fmt.Printf("Title:       %s\n", ev.Title)
	fmt.Printf("Status:      %s\n", ev.Status)
	fmt.Printf("Author:      %s\n", ev.Author)
	fmt.Printf("Date:        %s\n", ev.CreatedAt.Format("2006-01-02 15:04"))
	fmt.Printf("Sources:     %s\n", strings.Join(ev.Sources, ", "))
	fmt.Printf("AI score:    %.2f\n", ev.AIScore)
	fmt.Printf("Community:   %.2f\n", ev.CommunityScore)
	fmt.Printf("Final:       %.2f (credibility %d/100)\n", ev.FinalScore, ev.Credibility())
	if len(ev.DisputedClaims) > 0 {
		fmt.Printf("Disputed:\n")
		for _, dc := range ev.DisputedClaims {
			fmt.Printf("  - %s (%s)\n", dc.ClaimText, dc.Source)
		}
	}
	fmt.Printf("\n%s\n", ev.Description)
}
