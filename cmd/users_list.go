package cmd

import (
	"os"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/mdshamim125/contest-hub-server/internal/core"
)

var usersListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all users",
	Long: `Retrieves all users from the server, with their role and block status.

This command requires an admin session token (set CONTESTHUB_TOKEN).`,
	Example: `  contesthub users list --server http://localhost:8080`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cli, err := getClient()
		if err != nil {
			return err
		}

		log.Debug().Msg("Fetching users...")
		users, correlation, err := cli.Users(cmd.Context())
		if err != nil {
			return logError(err, correlation, "failed to list users")
		}

		if len(users) == 0 {
			log.Info().Msg("No users found")
			return nil
		}
		log.Debug().Msgf("Retrieved %d user(s)", len(users))

		t := table.NewWriter()
		t.SetOutputMirror(os.Stdout)
		t.AppendHeader(table.Row{"Email", "Name", "Role", "Status", "Updated"})

		for _, u := range users {
			roleStr := string(u.Role)
			if roleStr == "" {
				roleStr = faint("(participant)")
			}
			statusStr := string(u.Status)
			if u.Status == core.StatusBlocked {
				statusStr = bold(statusStr)
			}
			t.AppendRow(table.Row{
				bold(truncate(u.Email, 48)),
				truncate(u.Name, 32),
				roleStr,
				statusStr,
				u.Timestamp.Format(time.RFC3339),
			})
		}

		s := table.StyleRounded
		s.Format.Header = text.FormatDefault
		t.SetStyle(s)
		t.Render()
		return nil
	},
}

func init() {
	usersCmd.AddCommand(usersListCmd)
}
