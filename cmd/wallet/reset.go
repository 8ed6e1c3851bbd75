package wallet

import (
	"context"
	"fmt"

	"github.com/chapool/web3connect/internal/api"
	"github.com/chapool/web3connect/internal/config"
	"github.com/chapool/web3connect/internal/util/command"
	"github.com/spf13/cobra"
)

func newReset() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Deletes every stored record of this device",
		Long: `Deletes the encrypted store of this device, including the seed material.
Without a backup the wallet cannot be recovered afterwards.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			yes, _ := cmd.Flags().GetBool(yesFlag)
			if !yes && !confirm("This deletes the stored seed material. Continue?") {
				return nil
			}

			cfg := config.DefaultServiceConfigFromEnv()

			return command.WithServer(cmd.Context(), cfg, func(ctx context.Context, s *api.Server) error {
				return runReset(ctx, s)
			})
		},
	}
	cmd.Flags().BoolP(yesFlag, "y", false, "Skip the confirmation prompt")

	return cmd
}

//nolint:forbidigo
func runReset(ctx context.Context, s *api.Server) error {
	if err := s.Wallet.SignOut(ctx, true); err != nil {
		return err
	}

	fmt.Println("Store cleared")

	return nil
}
