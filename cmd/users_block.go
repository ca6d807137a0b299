package cmd

import (
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/mdshamim125/contest-hub-server/internal/core"
)

var usersBlockCmd = &cobra.Command{
	Use:     "block <email>",
	Short:   "Block a user",
	Long:    `Blocks the given user. Blocked creators cannot publish new contests.`,
	Example: `  contesthub users block spammer@example.com`,
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return setUserStatus(cmd, args[0], core.StatusBlocked)
	},
}

var usersUnblockCmd = &cobra.Command{
	Use:     "unblock <email>",
	Short:   "Unblock a user",
	Example: `  contesthub users unblock reformed@example.com`,
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return setUserStatus(cmd, args[0], core.StatusActive)
	},
}

func setUserStatus(cmd *cobra.Command, email string, status core.Status) error {
	cli, err := getClient()
	if err != nil {
		return err
	}

	result, correlation, err := cli.UpdateUserStatus(cmd.Context(), email, status)
	if err != nil {
		return logError(err, correlation, "failed to update user status")
	}
	if result.MatchedCount == 0 {
		log.Warn().Str("email", email).Msg("No user matched")
		return nil
	}

	log.Info().Str("email", email).Str("status", string(status)).Msg("User status updated")
	return nil
}

func init() {
	usersCmd.AddCommand(usersBlockCmd)
	usersCmd.AddCommand(usersUnblockCmd)
}
