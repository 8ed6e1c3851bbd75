package wallet

import (
	"context"
	"fmt"

	"github.com/chapool/web3connect/internal/api"
	"github.com/chapool/web3connect/internal/config"
	"github.com/chapool/web3connect/internal/util/command"
	"github.com/chapool/web3connect/internal/wallet"
	"github.com/chapool/web3connect/internal/wallet/core"
	"github.com/chapool/web3connect/internal/wallet/keystore"
	"github.com/chapool/web3connect/internal/wallet/seed"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

func newRestore() *cobra.Command {
	return &cobra.Command{
		Use:   "restore <artifact>",
		Short: "Restores the seed material from a backup artifact",
		Long: `Restores the seed material from a backup artifact written by "wallet backup".

An encrypted artifact is stored as is and unlocks with the password it was
created with. A plain artifact is imported under a newly chosen password.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.DefaultServiceConfigFromEnv()

			return command.WithServer(cmd.Context(), cfg, func(ctx context.Context, s *api.Server) error {
				return runRestore(ctx, cmd, s, args[0])
			})
		},
	}
}

//nolint:forbidigo
func runRestore(ctx context.Context, cmd *cobra.Command, s *api.Server, path string) error {
	artifact, err := keystore.ReadArtifact(path)
	if err != nil {
		return err
	}

	exists, err := s.Store.Has(ctx, keystore.KeySeedMaterial)
	if err != nil {
		return err
	}
	if exists {
		return errors.Wrap(core.ErrUnsupported, "seed material already stored, run wallet reset first")
	}

	choice := wallet.ConnectChoice{}
	if artifact.Encrypted {
		if err := s.Store.Set(ctx, keystore.KeySeedMaterial, artifact.Payload); err != nil {
			return err
		}
	} else {
		material, err := seed.UnmarshalMaterial([]byte(artifact.Payload))
		if err != nil {
			return err
		}
		defer material.Wipe()

		switch material.Kind {
		case seed.KindPrivateKey:
			c, err := s.Chains.DefaultFor(material.Family)
			if err != nil {
				return err
			}
			choice.WalletType = wallet.WalletTypeImportPrivateKey
			choice.PrivateKey = material.PrivateKey
			choice.ChainID = c.ID
		default:
			choice.WalletType = wallet.WalletTypeImportSeed
			choice.Mnemonic = material.Mnemonic
		}
	}

	info, err := unlock(ctx, cmd, s, choice)
	if err != nil {
		return err
	}

	fmt.Printf("Restored wallet %s from backup %s\n", info.Address, artifact.ID)

	return nil
}
