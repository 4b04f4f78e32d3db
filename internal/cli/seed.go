package cli

import (
	"fmt"

	"scavenger-hunt-api/internal/catalog"

	"github.com/spf13/cobra"
)

func newSeedCmd(opts *rootOptions) *cobra.Command {
	var file string
	var replace bool
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load tasks from a YAML catalog (default: the built-in game)",
		RunE: func(cmd *cobra.Command, args []string) error {
			tasks, err := catalog.LoadFile(file)
			if err != nil {
				return err
			}
			st, err := opts.openStore()
			if err != nil {
				return err
			}
			if err := catalog.Seed(cmd.Context(), st, tasks, replace); err != nil {
				return err
			}
			total := 0
			for _, t := range tasks {
				total += t.Points
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Seeded %d tasks worth %d points\n", len(tasks), total)
			return nil
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "YAML catalog file")
	cmd.Flags().BoolVar(&replace, "replace", false, "Deactivate tasks that are not in the catalog")
	return cmd
}
