package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newTaskCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "task",
		Short: "Inspect and toggle tasks",
	}
	cmd.AddCommand(newTaskListCmd(opts))
	cmd.AddCommand(newTaskActiveCmd(opts, "activate", true))
	cmd.AddCommand(newTaskActiveCmd(opts, "deactivate", false))
	return cmd
}

func newTaskListCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List every task, active or not, in play order",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := opts.openStore()
			if err != nil {
				return err
			}
			tasks, err := st.ListAllTasks(cmd.Context())
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 2, 2, ' ', 0)
			_, _ = fmt.Fprintln(w, "ORDER\tID\tKIND\tPOINTS\tACTIVE\tTITLE")
			for _, t := range tasks {
				_, _ = fmt.Fprintf(w, "%d\t%s\t%s\t%d\t%t\t%s\n", t.Order, t.ID, t.Validation.Kind, t.Points, t.Active, t.Title)
			}
			return w.Flush()
		},
	}
}

func newTaskActiveCmd(opts *rootOptions, use string, active bool) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <task-id>",
		Short: fmt.Sprintf("Set a task's active flag to %t", active),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := opts.openStore()
			if err != nil {
				return err
			}
			if err := st.SetTaskActive(cmd.Context(), args[0], active); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Task %s active=%t\n", args[0], active)
			return nil
		},
	}
}
