package wallet

import (
	"context"
	"fmt"

	"github.com/chapool/web3connect/internal/api"
	"github.com/chapool/web3connect/internal/config"
	"github.com/chapool/web3connect/internal/util/command"
	"github.com/chapool/web3connect/internal/wallet"
	"github.com/spf13/cobra"
)

func newAddress() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "address",
		Short: "Unlocks the wallet and prints its addresses",
		Long: `Unlocks the wallet, creating one on first use, and prints the address of
every materialized chain family. The active wallet is marked with *.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := config.DefaultServiceConfigFromEnv()

			return command.WithServer(cmd.Context(), cfg, func(ctx context.Context, s *api.Server) error {
				return runAddress(ctx, cmd, s)
			})
		},
	}
	cmd.Flags().Int64(chainFlag, 0, "Chain id to activate, defaults to the configured chain")

	return cmd
}

//nolint:forbidigo
func runAddress(ctx context.Context, cmd *cobra.Command, s *api.Server) error {
	info, err := unlock(ctx, cmd, s, wallet.ConnectChoice{})
	if err != nil {
		return err
	}

	chainID, _ := cmd.Flags().GetInt64(chainFlag)
	info, err = switchTo(ctx, s, info, chainID)
	if err != nil {
		return err
	}

	for _, w := range s.Wallet.Wallets() {
		marker := " "
		if w.ChainID() == info.ChainID && w.Address() == info.Address {
			marker = "*"
		}
		fmt.Printf("%s %-8s %-10d %s\n", marker, w.Family(), w.ChainID(), w.Address())
	}
	fmt.Printf("\nDID: %s\n", info.DID)

	return nil
}
