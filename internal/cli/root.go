// Package cli holds the huntctl commands used to prepare and inspect a game.
package cli

import (
	"scavenger-hunt-api/internal/config"
	"scavenger-hunt-api/internal/database"
	"scavenger-hunt-api/internal/store"

	"github.com/spf13/cobra"
	"gorm.io/gorm/logger"
)

type rootOptions struct {
	dbPath string
}

// NewRootCmd builds the huntctl command tree
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:           "huntctl",
		Short:         "Manage scavenger hunt tasks, teams and admins",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVar(&opts.dbPath, "db", "", "SQLite database path (default: DATABASE_PATH)")

	cmd.AddCommand(newSeedCmd(opts))
	cmd.AddCommand(newTaskCmd(opts))
	cmd.AddCommand(newTeamCmd(opts))
	cmd.AddCommand(newAdminCmd(opts))
	cmd.AddCommand(newSummaryCmd(opts))
	return cmd
}

// openStore opens and migrates the database named by --db or the environment
func (o *rootOptions) openStore() (*store.Store, error) {
	path := o.dbPath
	if path == "" {
		cfg, err := config.Load()
		if err != nil {
			return nil, err
		}
		path = cfg.Database.Path
	}
	db, err := database.Open(path, logger.Warn)
	if err != nil {
		return nil, err
	}
	if err := database.Migrate(db); err != nil {
		return nil, err
	}
	return store.New(db), nil
}
