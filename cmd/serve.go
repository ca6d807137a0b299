package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/mdshamim125/contest-hub-server/internal/api"
	"github.com/mdshamim125/contest-hub-server/internal/audit"
	"github.com/mdshamim125/contest-hub-server/internal/auth"
	"github.com/mdshamim125/contest-hub-server/internal/authz"
	"github.com/mdshamim125/contest-hub-server/internal/config"
	"github.com/mdshamim125/contest-hub-server/internal/core"
	"github.com/mdshamim125/contest-hub-server/internal/payment"
	"github.com/mdshamim125/contest-hub-server/internal/store"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the ContestHub server",
	RunE: func(cmd *cobra.Command, args []string) error {
		addr, _ := cmd.Flags().GetString("addr")

		cfg, err := config.Load(cfgFile)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		if addr == "" {
			addr = cfg.Addr
		}

		log.Info().Msg("Connecting to MongoDB...")
		mongoClient, err := mongo.Connect(options.Client().ApplyURI(cfg.Database.URI))
		if err != nil {
			return fmt.Errorf("connecting to mongodb: %w", err)
		}
		defer func() {
			if err := mongoClient.Disconnect(context.Background()); err != nil {
				log.Warn().Err(err).Msg("disconnecting from mongodb")
			}
		}()

		pingCtx, cancelPing := context.WithTimeout(cmd.Context(), 10*time.Second)
		defer cancelPing()
		if err := mongoClient.Ping(pingCtx, nil); err != nil {
			return fmt.Errorf("pinging mongodb: %w", err)
		}

		db := store.NewMongo(mongoClient, cfg.Database.Name)

		auditor, err := buildAuditor(cfg.Audit)
		if err != nil {
			return fmt.Errorf("building auditor: %w", err)
		}
		defer func() {
			if err := auditor.Close(); err != nil {
				log.Warn().Err(err).Msg("closing auditor")
			}
		}()

		log.Info().Msg("Initializing payment provider...")
		payments, err := payment.NewFromConfig(cfg.Payments.Type, cfg.Payments.Name, cfg.Payments.Config)
		if err != nil {
			return fmt.Errorf("building payment provider: %w", err)
		}

		rules := cfg.Rules
		if len(rules) == 0 {
			rules = authz.DefaultRules()
		}
		engine, err := authz.New(rules)
		if err != nil {
			return fmt.Errorf("building authorization engine: %w", err)
		}

		secret := []byte(cfg.Auth.Secret)
		srv := api.NewServer(
			db.Users,
			db.Contests,
			auth.NewIssuer(secret, cfg.Auth.TokenTTL),
			auth.NewVerifier(secret),
			engine,
			payments,
			auditor,
		)

		server := &http.Server{
			Addr:    addr,
			Handler: srv.Routes(cfg.CORS.Origins),
		}

		go func() {
			log.Info().Msgf("Starting server on %s...", addr)
			if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Fatal().Err(err).Msg("Server crashed")
			}
		}()

		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		log.Info().Msg("Shutting down server...")

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			return fmt.Errorf("server forced to shutdown: %w", err)
		}

		log.Info().Msg("Server exited")
		return nil
	},
}

func buildAuditor(cfg config.AuditConfig) (core.Auditor, error) {
	if !cfg.Enabled {
		return audit.NewNoopAuditor(), nil
	}
	switch cfg.Type {
	case "memory":
		return audit.NewInMemoryAuditor(), nil
	case "file":
		return audit.NewFileAuditor(cfg.Path)
	default:
		return nil, fmt.Errorf("unknown audit type %q", cfg.Type)
	}
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().String("addr", "", "address to listen on (overrides config)")
}
