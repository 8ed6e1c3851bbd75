package wallet

import (
	"context"
	"fmt"

	"github.com/chapool/web3connect/internal/api"
	"github.com/chapool/web3connect/internal/config"
	"github.com/chapool/web3connect/internal/util/command"
	"github.com/chapool/web3connect/internal/wallet"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

const privateKeyFlag = "private-key"

func newImport() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Imports a recovery phrase or a private key",
		Long: `Imports a recovery phrase, or with --private-key a single private key of
the family of --chain, as the seed material of this device. Fails when seed
material is already stored.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := config.DefaultServiceConfigFromEnv()

			return command.WithServer(cmd.Context(), cfg, func(ctx context.Context, s *api.Server) error {
				return runImport(ctx, cmd, s)
			})
		},
	}
	cmd.Flags().Bool(privateKeyFlag, false, "Import a private key instead of a recovery phrase")
	cmd.Flags().Int64(chainFlag, 0, "Chain id the private key belongs to, defaults to the configured chain")

	return cmd
}

//nolint:forbidigo
func runImport(ctx context.Context, cmd *cobra.Command, s *api.Server) error {
	usePrivateKey, _ := cmd.Flags().GetBool(privateKeyFlag)
	chainID, _ := cmd.Flags().GetInt64(chainFlag)

	choice := wallet.ConnectChoice{InitOptions: wallet.InitOptions{ChainID: chainID}}
	if usePrivateKey {
		key, err := promptPassword("Enter private key: ")
		if err != nil {
			return err
		}
		choice.WalletType = wallet.WalletTypeImportPrivateKey
		choice.PrivateKey = key
	} else {
		mnemonic, err := promptPassword("Enter recovery phrase: ")
		if err != nil {
			return err
		}
		choice.WalletType = wallet.WalletTypeImportSeed
		choice.Mnemonic = mnemonic
	}

	info, err := unlock(ctx, cmd, s, choice)
	if err != nil {
		return errors.Wrap(err, "failed to import wallet")
	}

	fmt.Printf("Imported wallet %s on chain %d\n", info.Address, info.ChainID)

	return nil
}
