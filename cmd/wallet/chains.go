package wallet

import (
	"context"
	"fmt"

	"github.com/chapool/web3connect/internal/api"
	"github.com/chapool/web3connect/internal/config"
	"github.com/chapool/web3connect/internal/util/command"
	"github.com/spf13/cobra"
)

func newChains() *cobra.Command {
	return &cobra.Command{
		Use:   "chains",
		Short: "Lists the configured chains",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := config.DefaultServiceConfigFromEnv()

			return command.WithServer(cmd.Context(), cfg, func(_ context.Context, s *api.Server) error {
				return runChains(s)
			})
		},
	}
}

//nolint:forbidigo
func runChains(s *api.Server) error {
	for _, c := range s.Chains.ListChains() {
		network := "mainnet"
		if c.Testnet {
			network = "testnet"
		}
		fmt.Printf("%-10d %-8s %-8s %s\n", c.ID, c.Family, network, c.Name)
	}

	return nil
}
