package cli

import (
	"fmt"
	"text/tabwriter"

	"scavenger-hunt-api/internal/game"
	"scavenger-hunt-api/internal/models"

	"github.com/spf13/cobra"
)

func newSummaryCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "Print the leaderboard",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := opts.openStore()
			if err != nil {
				return err
			}
			engine := game.NewEngine(st, nil, game.Options{})
			// the CLI acts with admin rights on the local database
			sess := game.Session{UserID: "huntctl", Role: models.RoleAdmin}

			summaries, err := engine.AllTeamSummaries(cmd.Context(), sess)
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 2, 2, ' ', 0)
			_, _ = fmt.Fprintln(w, "RANK\tTEAM\tPOINTS\tDONE\tPENDING")
			for i, s := range summaries {
				_, _ = fmt.Fprintf(w, "%d\t%s\t%d\t%d/%d\t%d\n", i+1, s.TeamName, s.TotalPoints, s.CompletedCount, s.TotalTasks, s.PendingCount)
			}
			return w.Flush()
		},
	}
}
