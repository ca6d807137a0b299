package cmd

import (
	"github.com/spf13/cobra"
)

// usersCmd represents the users command
var usersCmd = &cobra.Command{
	Use:   "users",
	Short: "Manage platform users",
	Long:  `Administrative commands for listing, blocking and unblocking users on a remote server.`,
}

func init() {
	rootCmd.AddCommand(usersCmd)
}
