package server

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/chapool/web3connect/internal/api"
	"github.com/chapool/web3connect/internal/api/router"
	"github.com/chapool/web3connect/internal/config"
	"github.com/chapool/web3connect/internal/util"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

const (
	configFlag      = "config"
	shutdownTimeout = 10 * time.Second
)

func New() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "server",
		Short: "Starts the server",
		Long: `Starts the wallet HTTP bridge.

The encrypted store is opened from the configured backend, the wallet
follows the identity provider until the process receives SIGINT or SIGTERM.`,
		Run: func(cmd *cobra.Command, _ []string) {
			path, _ := cmd.Flags().GetString(configFlag)
			runServer(path)
		},
	}

	cmd.Flags().StringP(configFlag, "c", "", "Optional config file (toml, yaml or json), ENV still takes precedence")

	return cmd
}

func runServer(configPath string) {
	cfg := config.DefaultServiceConfigFromEnv()
	if configPath != "" {
		loaded, err := config.Load(configPath)
		if err != nil {
			log.Fatal().Err(err).Str("path", configPath).Msg("Failed to load config file")
		}
		cfg = loaded
	}

	closer := util.ConfigureLogger(cfg.Logger)
	defer closer.Close()

	s, err := api.InitNewServer(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize server")
	}

	router.Init(s)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	startWallet(ctx, s)

	go func() {
		if err := s.Start(); err != nil {
			if errors.Is(err, http.ErrServerClosed) {
				log.Info().Msg("Server closed")
			} else {
				log.Fatal().Err(err).Msg("Failed to start server")
			}
		}
	}()

	log.Info().Str("address", cfg.Echo.ListenAddress).Str("storage", cfg.Storage.Backend).Msg("Server started")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()

	if errs := s.Shutdown(shutdownCtx); len(errs) > 0 {
		log.Error().Errs("shutdownErrors", errs).Msg("Failed to gracefully shut down server")
	}
}
