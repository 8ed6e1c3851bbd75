package wallet

import (
	"context"
	"unicode/utf8"

	"github.com/chapool/web3connect/internal/util"
	"github.com/chapool/web3connect/internal/wallet/core"
	"github.com/chapool/web3connect/internal/wallet/keystore"
	"github.com/pkg/errors"
)

// checkPassword rejects a wrong password before any seed decryption. The
// first password of a device is signed and stored; later ones must match.
func (s *service) checkPassword(ctx context.Context, password string, walletType WalletType) error {
	if password == "" {
		return core.ErrPasswordRequired
	}

	seedExists, err := s.store.Has(ctx, keystore.KeySeedMaterial)
	if err != nil {
		return err
	}

	// a new wallet gets a password of reasonable length, an existing one is
	// judged by its signature only
	if !seedExists && utf8.RuneCountInString(password) < s.cfg.MinPasswordLength {
		return errors.Wrapf(core.ErrInvalidPassword, "password must be at least %d characters", s.cfg.MinPasswordLength)
	}
	if seedExists && walletType.IsImport() {
		return errors.Wrap(core.ErrUnsupported, "seed material already stored, reset the wallet before importing")
	}

	return s.guard.Check(ctx, password, seedExists)
}

// loadRememberedSecret restores a secret sealed under the device id, if any.
func (s *service) loadRememberedSecret(ctx context.Context) error {
	deviceID, err := s.store.GetUniqueID(ctx)
	if err != nil {
		return err
	}

	secret, ok, err := s.store.GetSealed(ctx, keystore.KeyRememberedSecret, deviceID, s.deviceCipher)
	if err != nil {
		return errors.Wrap(err, "failed to open remembered secret")
	}
	if !ok {
		return nil
	}
	defer clear(secret)

	util.LogFromContext(ctx).Debug().Msg("Restored remembered secret")

	return s.secrets.Initialize(string(secret))
}

func (s *service) rememberSecret(ctx context.Context, secret string) error {
	deviceID, err := s.store.GetUniqueID(ctx)
	if err != nil {
		return err
	}
	return s.store.SetSealed(ctx, keystore.KeyRememberedSecret, deviceID, s.deviceCipher, []byte(secret))
}
