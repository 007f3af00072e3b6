package cli

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/claimsift/claimsift/internal/model"
	"github.com/claimsift/claimsift/internal/score"
	"github.com/claimsift/claimsift/internal/store"
	"github.com/spf13/cobra"
)

var (
	voteUser string
	voteRole string
)

// voteCmd represents the vote command
var voteCmd = &cobra.Command{
	Use:   "vote <event-id> <value>",
	Short: "Cast, change or retract a vote on an event",
	Long: `Vote records one user's signal on a published event and recomputes
the event's scores. Value is +1 (up), -1 (down) or 0 to retract an
earlier vote. A repeated vote from the same user replaces the
previous one.

Admin and journalist votes carry double weight.

Example:
  claimsift vote 3f2a... 1 --user alice --role journalist
  claimsift vote 3f2a... 0 --user alice`,
	Args: cobra.ExactArgs(2),
	RunE: runVote,
}

func init() {
	rootCmd.AddCommand(voteCmd)

	voteCmd.Flags().StringVar(&voteUser, "user", "", "voting user id (required)")
	voteCmd.Flags().StringVar(&voteRole, "role", string(model.RoleUser), "voter role (admin, journalist, user)")
	_ = voteCmd.MarkFlagRequired("user")
}

func runVote(cmd *cobra.Command, args []string) error {
	eventID := args[0]
	value, err := strconv.Atoi(args[1])
	if err != nil || value < -1 || value > 1 {
		return fmt.Errorf("value must be -1, 0 or 1, got %q", args[1])
	}

	role := model.Role(voteRole)
	switch role {
	case model.RoleAdmin, model.RoleJournalist, model.RoleUser:
	default:
		return fmt.Errorf("unknown role %q (supported: admin, journalist, user)", voteRole)
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

	ev, err := st.GetEvent(eventID)
	if err != nil {
		return fmt.Errorf("lookup event: %w", err)
	}
	if ev == nil {
		return fmt.Errorf("no such event: %s", eventID)
	}

	if value == 0 {
		if err := st.RemoveVote(eventID, voteUser); err != nil {
			return fmt.Errorf("retract vote: %w", err)
		}
	} else {
		v := model.Vote{
			EventID:   eventID,
			UserID:    voteUser,
			Value:     value,
			Role:      role,
			UpdatedAt: time.Now().UTC(),
		}
		if err := st.SetVote(v); err != nil {
			return fmt.Errorf("record vote: %w", err)
		}
	}

	agg := score.NewAggregator(st)
	if err := agg.Recompute(context.Background(), eventID); err != nil {
		return fmt.Errorf("recompute scores: %w", err)
	}

	ev, err = st.GetEvent(eventID)
	if err != nil {
		return fmt.Errorf("reload event: %w", err)
	}
	if ev == nil {
		return fmt.Errorf("event disappeared during recompute: %s", eventID)
	}

	fmt.Printf("Event:      %s\n", ev.ID)
	fmt.Printf("AI score:   %.2f\n", ev.AIScore)
	fmt.Printf("Community:  %.2f\n", ev.CommunityScore)
	fmt.Printf("Final:      %.2f (credibility %d/100)\n", ev.FinalScore, ev.Credibility())
	return nil
}
