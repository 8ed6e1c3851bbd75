package wallet

import (
	"context"
	"fmt"

	"github.com/chapool/web3connect/internal/api"
	"github.com/chapool/web3connect/internal/config"
	"github.com/chapool/web3connect/internal/util/command"
	"github.com/chapool/web3connect/internal/wallet"
	"github.com/chapool/web3connect/internal/wallet/core"
	"github.com/spf13/cobra"
)

func newSignMessage() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sign-message <message>",
		Short: "Signs a message with the active wallet",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.DefaultServiceConfigFromEnv()

			return command.WithServer(cmd.Context(), cfg, func(ctx context.Context, s *api.Server) error {
				return runSignMessage(ctx, cmd, s, args[0])
			})
		},
	}
	cmd.Flags().Int64(chainFlag, 0, "Chain id to sign for, defaults to the configured chain")

	return cmd
}

//nolint:forbidigo
func runSignMessage(ctx context.Context, cmd *cobra.Command, s *api.Server, message string) error {
	info, err := unlock(ctx, cmd, s, wallet.ConnectChoice{})
	if err != nil {
		return err
	}

	chainID, _ := cmd.Flags().GetInt64(chainFlag)
	if _, err := switchTo(ctx, s, info, chainID); err != nil {
		return err
	}

	w := s.Wallet.Active()
	sig, err := w.SignMessage(ctx, []byte(message))
	if err != nil {
		return err
	}

	fmt.Printf("address:   %s\nsignature: %s\n", w.Address(), core.EncodeSignature(w.Family(), sig))

	return nil
}
