package probe

import (
	"os"
	"path/filepath"

	"github.com/chapool/web3connect/internal/config"
	"github.com/chapool/web3connect/internal/wallet/keystore"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func newLiveness() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "liveness",
		Short: "Checks that the storage directory is writable",
		Long: `Checks that the storage directory of the file and badger backends is
writable. Exits with a non-zero code when it is not.`,
		Run: func(cmd *cobra.Command, _ []string) {
			verbose, _ := cmd.Flags().GetBool(verboseFlag)
			cfg := config.DefaultServiceConfigFromEnv()

			if err := livenessCheck(cfg); err != nil {
				log.Fatal().Err(err).Msg("Liveness probe failed")
			}
			if verbose {
				log.Info().Str("dir", cfg.Storage.Dir).Msg("Liveness probe succeeded")
			}
		},
	}
	cmd.Flags().BoolP(verboseFlag, "v", false, "Show verbose output.")

	return cmd
}

func livenessCheck(cfg config.Server) error {
	switch cfg.Storage.Backend {
	case keystore.BackendMemory, keystore.BackendPostgres:
		return nil
	}

	if err := os.MkdirAll(cfg.Storage.Dir, 0o700); err != nil {
		return errors.Wrap(err, "failed to create storage directory")
	}

	f, err := os.CreateTemp(cfg.Storage.Dir, ".probe-*")
	if err != nil {
		return errors.Wrap(err, "storage directory is not writable")
	}
	name := f.Name()
	f.Close()

	return os.Remove(filepath.Clean(name))
}
