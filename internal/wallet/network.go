package wallet

import (
	"context"

	"github.com/chapool/web3connect/internal/util"
	"github.com/chapool/web3connect/internal/wallet/chain"
	"github.com/chapool/web3connect/internal/wallet/core"
	"github.com/chapool/web3connect/internal/wallet/keystore"
	"github.com/chapool/web3connect/internal/wallet/seed"
	"github.com/pkg/errors"
)

func (s *service) SwitchNetwork(ctx context.Context, chainID int64) (*UserInfo, error) {
	if !s.opMu.TryLock() {
		return nil, errors.Wrap(core.ErrNotReady, "wallet initialization in progress")
	}
	defer s.opMu.Unlock()

	s.mu.RLock()
	state, active := s.state, s.active
	wallets := s.wallets
	s.mu.RUnlock()

	if state != StateWalletReady || active == nil {
		return nil, core.ErrNotReady
	}
	if active.ChainID() == chainID {
		return s.UserInfo(), nil
	}

	target, err := s.chains.GetChain(chainID)
	if err != nil {
		return nil, err
	}

	log := util.LogFromContext(ctx).With().
		Int64("from_chain_id", active.ChainID()).
		Int64("to_chain_id", chainID).
		Logger()

	next := findWallet(wallets, target)
	if next != nil && s.coinTypeChanges(next, target) {
		fresh, err := s.rederiveFromStore(ctx, target)
		if err != nil {
			return nil, err
		}
		if fresh != nil {
			log.Debug().Str("address", fresh.Address()).Msg("Derived wallet for new coin type")
			return s.replace(next, fresh), nil
		}
	}
	if next != nil {
		if next.ChainID() != chainID {
			if err := next.SwitchNetwork(ctx, chainID); err != nil {
				return nil, err
			}
		}
		log.Debug().Str("address", next.Address()).Msg("Switched to existing wallet")
		return s.activate(next, false), nil
	}

	if active.IsExternal() {
		next, err = s.connectExternal(ctx, target)
	} else {
		next, err = s.deriveFromStore(ctx, target)
	}
	if err != nil {
		return nil, err
	}

	log.Debug().Str("address", next.Address()).Msg("Added wallet for new chain family")

	return s.activate(next, true), nil
}

func (s *service) activate(w core.Wallet, add bool) *UserInfo {
	s.mu.Lock()
	defer s.mu.Unlock()

	if add {
		s.wallets = append(s.wallets, w)
	}
	s.active = w

	return s.userInfoLocked()
}

// replace swaps old for w in the wallet set and activates w.
func (s *service) replace(old core.Wallet, w core.Wallet) *UserInfo {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.wallets {
		if s.wallets[i] == old {
			s.wallets[i] = w
		}
	}
	s.active = w
	forget(old)

	return s.userInfoLocked()
}

// coinTypeChanges reports whether a local wallet must be derived again to
// land on target, as a rebind would keep the key of the other coin type.
func (s *service) coinTypeChanges(w core.Wallet, target *chain.Chain) bool {
	if w.IsExternal() || w.ChainID() == target.ID {
		return false
	}
	current, err := s.chains.GetChain(w.ChainID())
	if err != nil {
		return false
	}
	return current.CoinType != target.CoinType
}

// findWallet returns the live wallet bound to target, or else the one of the
// same family.
func findWallet(wallets []core.Wallet, target *chain.Chain) core.Wallet {
	for _, w := range wallets {
		if w.ChainID() == target.ID {
			return w
		}
	}
	for _, w := range wallets {
		if w.Family() == target.Family {
			return w
		}
	}
	return nil
}

// loadMaterial opens the persisted seed material. Callers wipe it.
func (s *service) loadMaterial(ctx context.Context) (*seed.Material, error) {
	secret, ok := s.secrets.Secret()
	if !ok {
		return nil, core.ErrPasswordRequired
	}

	plain, exists, err := s.store.GetSealed(ctx, keystore.KeySeedMaterial, secret, s.cipher)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, core.ErrMissingSeed
	}
	defer clear(plain)

	return seed.UnmarshalMaterial(plain)
}

// rederiveFromStore derives the default path of target from a stored mnemonic.
// It returns nil for an imported key, which has no coin type to follow.
func (s *service) rederiveFromStore(ctx context.Context, target *chain.Chain) (core.Wallet, error) {
	material, err := s.loadMaterial(ctx)
	if err != nil {
		return nil, err
	}
	defer material.Wipe()

	if material.Kind != seed.KindMnemonic {
		return nil, nil //nolint:nilnil // rebind instead
	}

	return s.derive(ctx, material, target, "")
}

// deriveFromStore derives a wallet on target from the persisted seed material.
func (s *service) deriveFromStore(ctx context.Context, target *chain.Chain) (core.Wallet, error) {
	material, err := s.loadMaterial(ctx)
	if err != nil {
		return nil, err
	}
	defer material.Wipe()

	if !material.Supports(target.Family) {
		return nil, errors.Wrapf(core.ErrUnsupported, "imported %s key cannot derive a %s wallet", material.Family, target.Family)
	}

	return s.derive(ctx, material, target, "")
}
