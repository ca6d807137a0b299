package cmd

import (
	"github.com/spf13/cobra"
)

// contestsCmd represents the contests command
var contestsCmd = &cobra.Command{
	Use:   "contests",
	Short: "Inspect contests on a remote server",
}

func init() {
	rootCmd.AddCommand(contestsCmd)
}
