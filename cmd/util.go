package cmd

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"

	"github.com/mdshamim125/contest-hub-server/pkg/client"
)

var (
	bold  = color.New(color.Bold).SprintFunc()
	faint = color.New(color.Faint).SprintFunc()
)

func getClient() (*client.Client, error) {
	// we need the user to provide some server address first
	server := viper.GetString(ServerAddrKey)
	if server == "" {
		return nil, fmt.Errorf("server address not configured, provide via --server or env")
	}

	var token string
	if envToken := os.Getenv("CONTESTHUB_TOKEN"); envToken != "" {
		token = envToken
	}

	return client.New(server, client.WithAuthToken(token)), nil
}

func logError(err error, correlationID, msg string) error {
	if correlationID != "" {
		log.Error().Err(err).Str("correlation_id", correlationID).Msg(msg)
	} else {
		log.Error().Err(err).Msg(msg)
	}
	return err
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}
