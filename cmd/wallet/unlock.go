package wallet

import (
	"context"

	"github.com/chapool/web3connect/internal/api"
	"github.com/chapool/web3connect/internal/auth"
	"github.com/chapool/web3connect/internal/wallet"
	"github.com/chapool/web3connect/internal/wallet/keystore"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

// unlock signs the CLI user in and brings the wallet to the ready state,
// prompting for the password unless a remembered secret unlocks it.
func unlock(ctx context.Context, cmd *cobra.Command, s *api.Server, choice wallet.ConnectChoice) (*wallet.UserInfo, error) {
	uid, _ := cmd.Flags().GetString(uidFlag)
	method, _ := cmd.Flags().GetString(methodFlag)

	user, err := s.Identity.SignIn(ctx, uid, auth.Method(method))
	if err != nil {
		return nil, errors.Wrap(err, "failed to sign in")
	}

	if err := s.Wallet.HandleIdentityChange(ctx, user); err != nil {
		return nil, err
	}

	if info := s.Wallet.UserInfo(); info != nil && choice.WalletType == wallet.WalletTypeLocal {
		return info, nil
	}

	exists, err := s.Store.Has(ctx, keystore.KeySeedMaterial)
	if err != nil {
		return nil, err
	}

	var password string
	if exists {
		password, err = promptPassword("Enter wallet password: ")
	} else {
		password, err = promptNewPassword()
	}
	if err != nil {
		return nil, err
	}

	return s.Wallet.Connect(ctx, password, choice)
}

// switchTo activates chainID when set.
func switchTo(ctx context.Context, s *api.Server, info *wallet.UserInfo, chainID int64) (*wallet.UserInfo, error) {
	if chainID == 0 || chainID == info.ChainID {
		return info, nil
	}
	return s.Wallet.SwitchNetwork(ctx, chainID)
}
