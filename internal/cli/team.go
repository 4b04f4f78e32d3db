package cli

import (
	"errors"
	"fmt"
	"strings"

	"scavenger-hunt-api/internal/auth"
	"scavenger-hunt-api/internal/models"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

func newTeamCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "team",
		Short: "Manage teams",
	}
	cmd.AddCommand(newTeamCreateCmd(opts))
	return cmd
}

func newTeamCreateCmd(opts *rootOptions) *cobra.Command {
	var name, email, password string
	var members int
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Register a team with its login",
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(name) == "" || email == "" {
				return errors.New("--name and --email are required")
			}
			hash, err := auth.HashPassword(password)
			if err != nil {
				return err
			}
			st, err := opts.openStore()
			if err != nil {
				return err
			}
			if members < 1 {
				members = 1
			}
			team := models.Team{ID: uuid.NewString(), Name: strings.TrimSpace(name), MemberCount: members}
			account := models.Account{
				ID:           uuid.NewString(),
				Email:        strings.ToLower(strings.TrimSpace(email)),
				PasswordHash: hash,
				Role:         models.RoleTeam,
			}
			if err := st.RegisterTeam(cmd.Context(), &team, &account); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Created team %q (%s)\n", team.Name, team.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "Team name")
	cmd.Flags().StringVar(&email, "email", "", "Login email")
	cmd.Flags().StringVar(&password, "password", "", "Login password")
	cmd.Flags().IntVar(&members, "members", 1, "Number of players")
	return cmd
}

func newAdminCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Manage admin accounts",
	}
	var email, password string
	create := &cobra.Command{
		Use:   "create",
		Short: "Create an admin login",
		RunE: func(cmd *cobra.Command, args []string) error {
			if email == "" {
				return errors.New("--email is required")
			}
			hash, err := auth.HashPassword(password)
			if err != nil {
				return err
			}
			st, err := opts.openStore()
			if err != nil {
				return err
			}
			account := models.Account{
				ID:           uuid.NewString(),
				Email:        strings.ToLower(strings.TrimSpace(email)),
				PasswordHash: hash,
				Role:         models.RoleAdmin,
			}
			if err := st.CreateAccount(cmd.Context(), &account); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Created admin %s\n", account.Email)
			return nil
		},
	}
	create.Flags().StringVar(&email, "email", "", "Login email")
	create.Flags().StringVar(&password, "password", "", "Login password")
	cmd.AddCommand(create)
	return cmd
}
