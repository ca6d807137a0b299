package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"

	"github.com/mdshamim125/contest-hub-server/internal/audit"
	"github.com/mdshamim125/contest-hub-server/internal/auth"
)

// tokenInspectCmd decodes a session token without verifying it, so it
// also works for expired tokens and tokens of other deployments.
var tokenInspectCmd = &cobra.Command{
	Use:     "inspect <token>",
	Short:   "Decode a session token and show its claims",
	Example: `  contesthub token inspect eyJhbGciOi...`,
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		tokenStr := args[0]

		claims := &auth.Claims{}
		parser := jwt.NewParser()
		token, _, err := parser.ParseUnverified(tokenStr, claims)
		if err != nil {
			return fmt.Errorf("parsing token: %w", err)
		}

		t := table.NewWriter()
		t.SetOutputMirror(os.Stdout)
		t.AppendHeader(table.Row{"Claim", "Value"})
		t.AppendRow(table.Row{"Algorithm", token.Method.Alg()})
		t.AppendRow(table.Row{"Email", bold(claims.Email)})
		if claims.IssuedAt != nil {
			t.AppendRow(table.Row{"Issued", claims.IssuedAt.Format(time.RFC3339)})
		}
		if claims.ExpiresAt != nil {
			left := time.Until(claims.ExpiresAt.Time).Round(time.Second)
			state := faint(left.String() + " left")
			if left <= 0 {
				state = bold("expired")
			}
			t.AppendRow(table.Row{"Expires", fmt.Sprintf("%s (%s)", claims.ExpiresAt.Format(time.RFC3339), state)})
		}
		t.AppendRow(table.Row{"Fingerprint", faint(truncate(audit.TokenFingerprint(tokenStr), 24))})

		s := table.StyleRounded
		s.Format.Header = text.FormatDefault
		t.SetStyle(s)
		t.Render()
		return nil
	},
}

func init() {
	tokenCmd.AddCommand(tokenInspectCmd)
}
