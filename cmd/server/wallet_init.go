package server

import (
	"context"
	"errors"

	"github.com/chapool/web3connect/internal/api"
	"github.com/chapool/web3connect/internal/util"
)

// startWallet lets the wallet follow identity changes in the background.
// The loop ends with ctx.
func startWallet(ctx context.Context, s *api.Server) {
	log := util.LogFromContext(ctx)

	log.Info().
		Int64("default_chain_id", s.Config.Wallet.DefaultChainID).
		Strs("auth_methods", s.Config.Wallet.EnabledAuthMethods).
		Bool("remember_secret", s.Config.Wallet.RememberSecret).
		Bool("external_signer", s.Config.Wallet.ExternalSignerURL != "").
		Msg("Starting wallet session loop")

	go func() {
		if err := s.Wallet.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			log.Error().Err(err).Msg("Wallet session loop stopped")
		}
	}()
}
