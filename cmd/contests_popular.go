package cmd

import (
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var contestsPopularLimit int

var contestsPopularCmd = &cobra.Command{
	Use:     "popular",
	Short:   "Show the creators ranked by total participants",
	Example: `  contesthub contests popular --limit 10`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cli, err := getClient()
		if err != nil {
			return err
		}

		ranks, correlation, err := cli.PopularCreators(cmd.Context(), contestsPopularLimit)
		if err != nil {
			return logError(err, correlation, "failed to fetch creator ranking")
		}

		if len(ranks) == 0 {
			log.Info().Msg("No ranked creators yet")
			return nil
		}

		t := table.NewWriter()
		t.SetOutputMirror(os.Stdout)
		t.AppendHeader(table.Row{"#", "Creator", "Name", "Total Participants"})

		for i, rank := range ranks {
			t.AppendRow(table.Row{
				i + 1,
				bold(truncate(rank.Email, 48)),
				truncate(rank.Name, 32),
				rank.TotalParticipants,
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
	contestsCmd.AddCommand(contestsPopularCmd)

	contestsPopularCmd.Flags().IntVar(&contestsPopularLimit, "limit", 3, "Number of creators to show")
}
