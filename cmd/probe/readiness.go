package probe

import (
	"context"

	"github.com/chapool/web3connect/internal/api"
	"github.com/chapool/web3connect/internal/config"
	"github.com/chapool/web3connect/internal/util/command"
	"github.com/chapool/web3connect/internal/wallet/keystore"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func newReadiness() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "readiness",
		Short: "Checks that the encrypted store can be opened",
		Long: `Opens the configured storage backend and reads the encrypted store once.
Exits with a non-zero code when the store cannot be read.`,
		Run: func(cmd *cobra.Command, _ []string) {
			verbose, _ := cmd.Flags().GetBool(verboseFlag)
			cfg := config.DefaultServiceConfigFromEnv()

			err := command.WithServer(cmd.Context(), cfg, func(ctx context.Context, s *api.Server) error {
				return readinessCheck(ctx, s)
			})
			if err != nil {
				log.Fatal().Err(err).Msg("Readiness probe failed")
			}
			if verbose {
				log.Info().Str("backend", cfg.Storage.Backend).Msg("Readiness probe succeeded")
			}
		},
	}
	cmd.Flags().BoolP(verboseFlag, "v", false, "Show verbose output.")

	return cmd
}

func readinessCheck(ctx context.Context, s *api.Server) error {
	if !s.Ready() {
		return errors.New("server components are not initialized")
	}

	if _, err := s.Store.Has(ctx, keystore.KeySeedMaterial); err != nil {
		return errors.Wrap(err, "failed to read encrypted store")
	}

	return nil
}
