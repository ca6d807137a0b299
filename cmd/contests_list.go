package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/mdshamim125/contest-hub-server/internal/core"
)

var contestsListAll bool

var contestsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List contests",
	Long:  `Lists the published contests. With --all, lists every contest including pending ones.`,
	Example: `  contesthub contests list
  contesthub contests list --all`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cli, err := getClient()
		if err != nil {
			return err
		}

		var contests []core.Contest
		var correlation string
		if contestsListAll {
			contests, correlation, err = cli.Contests(cmd.Context())
		} else {
			contests, correlation, err = cli.PublishedContests(cmd.Context())
		}
		if err != nil {
			return logError(err, correlation, "failed to list contests")
		}

		if len(contests) == 0 {
			log.Info().Msg("No contests found")
			return nil
		}

		t := table.NewWriter()
		t.SetOutputMirror(os.Stdout)
		t.AppendHeader(table.Row{"ID", "Name", "Creator", "Status", "Participants", "Deadline"})

		for _, c := range contests {
			statusStr := string(c.Status)
			if c.Status == core.ContestConfirmed {
				statusStr = bold(statusStr)
			}
			deadline := faint("(none)")
			if !c.Deadline.IsZero() {
				deadline = c.Deadline.Format(time.RFC3339)
			}
			t.AppendRow(table.Row{
				faint(c.ID.Hex()),
				bold(truncate(c.Name, 32)),
				truncate(c.Creator.Email, 32),
				statusStr,
				fmt.Sprintf("%d", len(c.Participants)),
				deadline,
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
	contestsCmd.AddCommand(contestsListCmd)

	contestsListCmd.Flags().BoolVar(&contestsListAll, "all", false, "Include pending contests")
}
