package db

import (
	"database/sql"

	"github.com/chapool/web3connect/internal/config"
	"github.com/chapool/web3connect/internal/util"
	"github.com/chapool/web3connect/internal/wallet/keystore"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func newMigrate() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Executes all pending store migrations",
		Long: `Creates or upgrades the table of the postgres storage backend.

The server migrates on start as well, this command is meant for deployments
where the service user lacks DDL rights.`,
		RunE: func(_ *cobra.Command, _ []string) error {
			return migrateCmdFunc()
		},
	}
}

func migrateCmdFunc() error {
	cfg := config.DefaultServiceConfigFromEnv()
	closer := util.ConfigureLogger(cfg.Logger)
	defer closer.Close()

	db, err := sql.Open("postgres", cfg.Storage.Database.ConnectionString())
	if err != nil {
		return errors.Wrap(err, "failed to open database")
	}
	defer db.Close()

	n, err := keystore.Migrate(db)
	if err != nil {
		return err
	}

	log.Info().Int("applied", n).Str("database", cfg.Storage.Database.Database).Msg("Applied store migrations")

	return nil
}
