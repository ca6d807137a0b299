package cmd

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/mdshamim125/contest-hub-server/internal/auth"
	"github.com/mdshamim125/contest-hub-server/internal/config"
)

var tokenMintEmail string

// tokenMintCmd mints a session token locally using the server secret.
// Useful for seeding admin access and for debugging gated routes.
var tokenMintCmd = &cobra.Command{
	Use:   "mint",
	Short: "Mint a session token locally from the configured secret",
	Example: `  contesthub token mint --email admin@example.com
  CONTESTHUB_TOKEN=$(contesthub token mint --email admin@example.com) contesthub users list`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cfgFile)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}

		issuer := auth.NewIssuer([]byte(cfg.Auth.Secret), cfg.Auth.TokenTTL)
		token, err := issuer.Issue(tokenMintEmail)
		if err != nil {
			return fmt.Errorf("minting token: %w", err)
		}

		log.Info().Str("email", tokenMintEmail).Msg("Minted session token")
		fmt.Println(token)
		return nil
	},
}

func init() {
	tokenCmd.AddCommand(tokenMintCmd)

	tokenMintCmd.Flags().StringVar(&tokenMintEmail, "email", "", "Email to bind into the token")
	_ = tokenMintCmd.MarkFlagRequired("email")
}
