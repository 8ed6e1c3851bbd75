package wallet

import (
	"context"
	"fmt"

	"github.com/chapool/web3connect/internal/api"
	"github.com/chapool/web3connect/internal/config"
	"github.com/chapool/web3connect/internal/util/command"
	"github.com/chapool/web3connect/internal/wallet"
	"github.com/chapool/web3connect/internal/wallet/keystore"
	"github.com/spf13/cobra"
)

func newBackup() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "backup",
		Short: "Writes a backup artifact of the seed material",
		Long: `Writes a backup artifact of the seed material to a directory.

With --encrypt the sealed record is exported as is and only opens with the
wallet password. Without it the artifact holds the plain seed material.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := config.DefaultServiceConfigFromEnv()

			return command.WithServer(cmd.Context(), cfg, func(ctx context.Context, s *api.Server) error {
				return runBackup(ctx, cmd, s)
			})
		},
	}
	cmd.Flags().Bool(encryptFlag, true, "Export the password sealed record")
	cmd.Flags().String(dirFlag, "", "Target directory, defaults to the configured backup directory")

	return cmd
}

//nolint:forbidigo
func runBackup(ctx context.Context, cmd *cobra.Command, s *api.Server) error {
	if _, err := unlock(ctx, cmd, s, wallet.ConnectChoice{}); err != nil {
		return err
	}

	encrypt, _ := cmd.Flags().GetBool(encryptFlag)
	dir, _ := cmd.Flags().GetString(dirFlag)
	if dir == "" {
		dir = s.Config.Wallet.BackupDir
	}

	if !encrypt && !confirm("The artifact will contain your recovery phrase in plain text. Continue?") {
		return nil
	}

	_, location, err := s.Wallet.Backup(ctx, encrypt, keystore.DirSink{Dir: dir})
	if err != nil {
		return err
	}

	fmt.Printf("Backup written to %s\n", location)

	return nil
}
