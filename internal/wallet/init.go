package wallet

import (
	"context"
	"time"

	"github.com/chapool/web3connect/internal/auth"
	"github.com/chapool/web3connect/internal/util"
	"github.com/chapool/web3connect/internal/wallet/chain"
	"github.com/chapool/web3connect/internal/wallet/core"
	"github.com/chapool/web3connect/internal/wallet/keystore"
	"github.com/chapool/web3connect/internal/wallet/seed"
	"github.com/pkg/errors"
)

const backupPendingValue = "1"

func (s *service) Connect(ctx context.Context, password string, choice ConnectChoice) (*UserInfo, error) {
	s.opMu.Lock()
	defer s.opMu.Unlock()

	user := s.User()
	if user == nil {
		return nil, core.ErrNotAuthenticated
	}
	if !choice.WalletType.Valid() {
		return nil, errors.Errorf("unknown wallet type %q", choice.WalletType)
	}

	log := util.LogFromContext(ctx).With().Str("uid", user.UID).Str("wallet_type", string(choice.WalletType)).Logger()

	if user.Method != "" && user.Method != auth.MethodWallet {
		if err := s.store.Set(ctx, keystore.KeyAuthMethod, user.Method.String()); err != nil {
			return nil, errors.Wrap(err, "failed to store auth method")
		}
	}

	if choice.WalletType == WalletTypeExternal {
		return s.initWallet(ctx, choice.InitOptions)
	}

	if err := s.checkPassword(ctx, password, choice.WalletType); err != nil {
		log.Debug().Err(err).Msg("Password rejected")
		return nil, err
	}

	if err := s.secrets.Initialize(password); err != nil {
		return nil, err
	}

	info, err := s.initWallet(ctx, choice.InitOptions)
	if err != nil {
		s.secrets.Clear()
		return nil, err
	}

	if s.cfg.RememberSecret {
		if err := s.rememberSecret(ctx, password); err != nil {
			// the wallet is usable, only the next session will prompt again
			log.Warn().Err(err).Msg("Failed to remember secret")
		}
	}

	return info, nil
}

func (s *service) InitWallet(ctx context.Context, opts InitOptions) (*UserInfo, error) {
	s.opMu.Lock()
	defer s.opMu.Unlock()

	return s.initWallet(ctx, opts)
}

// initWallet runs the initialization steps. Caller holds opMu.
//
// Failures while opening or minting the seed sign the user out and clear the
// store. A wrong password, a missing secret, a missing external signer and an
// unusable import leave the session untouched so the UI can prompt again.
func (s *service) initWallet(ctx context.Context, opts InitOptions) (*UserInfo, error) {
	user := s.User()
	if user == nil {
		return nil, core.ErrNotAuthenticated
	}

	s.mu.RLock()
	if info := s.userInfoLocked(); info != nil {
		s.mu.RUnlock()
		if opts.WalletType.IsImport() {
			return nil, errors.Wrap(core.ErrUnsupported, "a wallet is already connected, sign out before importing")
		}
		return info, nil
	}
	s.mu.RUnlock()

	chainID := opts.ChainID
	if chainID == 0 {
		chainID = s.cfg.DefaultChainID
	}
	target, err := s.chains.GetChain(chainID)
	if err != nil {
		return nil, err
	}

	log := util.LogFromContext(ctx).With().
		Str("component", "wallet_init").
		Str("uid", user.UID).
		Int64("chain_id", chainID).
		Logger()
	ctx = util.WithLogger(ctx, log)

	// step 1: a returning user may have a secret sealed under the device id
	if !s.secrets.IsInitialized() && !user.IsAnonymous && opts.WalletType != WalletTypeExternal {
		if err := s.loadRememberedSecret(ctx); err != nil {
			return nil, s.fail(ctx, err)
		}
	}

	secret, hasSecret := s.secrets.Secret()

	// step 2: no secret and anonymous means the external signer
	if !hasSecret && (user.IsAnonymous || opts.WalletType == WalletTypeExternal) {
		w, err := s.connectExternal(ctx, target)
		if err != nil {
			s.observeInit(err)
			return nil, err
		}
		log.Info().Str("address", w.Address()).Msg("Connected external wallet")
		return s.ready(ctx, []core.Wallet{w}), nil
	}

	if !hasSecret {
		return nil, core.ErrPasswordRequired
	}

	// step 3: open or mint the seed material and derive the wallet set
	material, minted, err := s.resolveMaterial(ctx, secret, opts, target)
	if err != nil {
		if errors.Is(err, core.ErrInvalidPassword) {
			s.secrets.Clear()
			// neither a signature nor a remembered copy of this password may vouch for it again
			if rmErr := s.store.RemoveMany(ctx, keystore.KeySignature, keystore.KeyRememberedSecret); rmErr != nil {
				log.Warn().Err(rmErr).Msg("Failed to drop rejected password state")
			}
			s.observeInit(err)
			return nil, err
		}
		if rejectedImport(opts, err) {
			return nil, s.rejectImport(ctx, err)
		}
		return nil, s.fail(ctx, err)
	}
	defer material.Wipe()

	wallets, err := s.deriveSet(ctx, material, target, opts.Path)
	if err != nil {
		if minted && rejectedImport(opts, err) {
			return nil, s.rejectImport(ctx, err)
		}
		return nil, s.fail(ctx, err)
	}

	if minted {
		if err := s.persistMaterial(ctx, secret, material); err != nil {
			forget(wallets...)
			return nil, s.fail(ctx, err)
		}
		log.Info().Str("kind", string(material.Kind)).Msg("Persisted new seed material")
	}

	log.Info().Str("address", wallets[0].Address()).Int("wallets", len(wallets)).Msg("Wallet ready")

	return s.ready(ctx, wallets), nil
}

func (s *service) ready(_ context.Context, wallets []core.Wallet) *UserInfo {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.wallets = wallets
	s.active = wallets[0]
	s.state = StateWalletReady
	s.lastErr = nil

	s.observeInit(nil)

	return s.userInfoLocked()
}

// fail implements the failure policy of initialization: forget everything,
// sign out and clear the store so no half initialized state survives.
func (s *service) fail(ctx context.Context, cause error) error {
	log := util.LogFromContext(ctx)
	log.Error().Err(cause).Str("kind", string(core.KindOf(cause))).Msg("Wallet initialization failed")

	s.mu.Lock()
	s.resetLocked()
	s.user = nil
	s.state = StateError
	s.lastErr = cause
	s.mu.Unlock()

	if err := s.store.Clear(ctx); err != nil {
		log.Error().Err(err).Msg("Failed to clear store after failed initialization")
	}
	if err := s.identity.SignOut(ctx); err != nil {
		log.Error().Err(err).Msg("Failed to sign out after failed initialization")
	}

	s.observeInit(cause)

	return cause
}

// rejectedImport reports whether err stems from unusable import input rather
// than from the stored state.
func rejectedImport(opts InitOptions, err error) bool {
	if !opts.WalletType.IsImport() {
		return false
	}
	return errors.Is(err, core.ErrInvalidSeed) || errors.Is(err, core.ErrMissingSeed) || errors.Is(err, core.ErrUnsupported)
}

// rejectImport leaves the session and the store untouched so the user can
// correct the mnemonic or key and try again.
func (s *service) rejectImport(ctx context.Context, cause error) error {
	util.LogFromContext(ctx).Info().Err(cause).Str("kind", string(core.KindOf(cause))).Msg("Rejected wallet import")
	s.observeInit(cause)
	return cause
}

// resolveMaterial opens the stored seed material, or builds new material from
// the import options or a fresh mnemonic. minted reports the latter.
func (s *service) resolveMaterial(ctx context.Context, secret string, opts InitOptions, target *chain.Chain) (*seed.Material, bool, error) {
	plain, exists, err := s.store.GetSealed(ctx, keystore.KeySeedMaterial, secret, s.cipher)
	if err != nil {
		return nil, false, err
	}

	if exists {
		defer clear(plain)

		if opts.WalletType.IsImport() {
			return nil, false, errors.Wrap(core.ErrUnsupported, "seed material already stored, reset the wallet before importing")
		}

		material, err := seed.UnmarshalMaterial(plain)
		if err != nil {
			return nil, false, err
		}
		return material, false, nil
	}

	var material *seed.Material
	switch opts.WalletType {
	case WalletTypeImportSeed:
		if opts.Mnemonic == "" {
			return nil, false, core.ErrMissingSeed
		}
		material, err = seed.NewMnemonicMaterial(opts.Mnemonic)
	case WalletTypeImportPrivateKey:
		material, err = seed.NewPrivateKeyMaterial(target.Family, opts.PrivateKey)
	default:
		material, err = seed.NewMnemonicMaterial("")
	}
	if err != nil {
		return nil, false, err
	}

	return material, true, nil
}

// deriveSet derives the target chain wallet first, then one wallet on the
// default chain of every other family the material supports.
func (s *service) deriveSet(ctx context.Context, material *seed.Material, target *chain.Chain, path string) ([]core.Wallet, error) {
	if !material.Supports(target.Family) {
		var err error
		target, err = s.chains.DefaultFor(material.Family)
		if err != nil {
			return nil, err
		}
		path = ""
	}

	primary, err := s.derive(ctx, material, target, path)
	if err != nil {
		return nil, err
	}
	wallets := []core.Wallet{primary}

	for _, family := range core.Families {
		if family == target.Family || !material.Supports(family) {
			continue
		}
		if _, ok := s.drivers[family]; !ok {
			continue
		}

		c, err := s.chains.DefaultFor(family)
		if err != nil {
			util.LogFromContext(ctx).Debug().Str("family", string(family)).Msg("No chain configured, skipping family")
			continue
		}

		w, err := s.derive(ctx, material, c, "")
		if err != nil {
			forget(wallets...)
			return nil, err
		}
		wallets = append(wallets, w)
	}

	return wallets, nil
}

func (s *service) derive(ctx context.Context, material *seed.Material, c *chain.Chain, path string) (core.Wallet, error) {
	d, err := s.driver(c.Family)
	if err != nil {
		return nil, err
	}
	if err := material.Validate(); err != nil {
		return nil, err
	}

	start := time.Now()

	var w core.Wallet
	switch material.Kind {
	case seed.KindMnemonic:
		w, err = d.DeriveFromMnemonic(ctx, material.Mnemonic, path, c)
	case seed.KindPrivateKey:
		w, err = d.DeriveFromPrivateKey(ctx, material.PrivateKey, c)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "failed to derive %s wallet", c.Family)
	}

	if s.metrics != nil {
		s.metrics.ObserveDerivation(string(c.Family), time.Since(start))
	}

	return w, nil
}

func (s *service) connectExternal(ctx context.Context, c *chain.Chain) (core.Wallet, error) {
	d, err := s.driver(c.Family)
	if err != nil {
		return nil, err
	}
	return d.ConnectExternal(ctx, c)
}

// persistMaterial seals the material under secret and marks the backup as
// pending in a single store write.
func (s *service) persistMaterial(ctx context.Context, secret string, material *seed.Material) error {
	data, err := material.Marshal()
	if err != nil {
		return err
	}
	defer clear(data)

	sealed, err := s.cipher.Encrypt(secret, data)
	if err != nil {
		return errors.Wrap(err, "failed to seal seed material")
	}

	return s.store.SetMany(ctx, map[string]string{
		keystore.KeySeedMaterial:  sealed,
		keystore.KeyBackupPending: backupPendingValue,
	})
}

func (s *service) driver(family core.Family) (Driver, error) {
	d, ok := s.drivers[family]
	if !ok {
		return nil, errors.Wrapf(core.ErrChainUnavailable, "no driver for family %s", family)
	}
	return d, nil
}

func (s *service) observeInit(err error) {
	if s.metrics == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = string(core.KindOf(err))
	}
	s.metrics.ObserveInit(result)
}
