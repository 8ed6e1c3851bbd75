// Package wallet orchestrates the wallet lifecycle of a session: it reacts to
// identity changes, opens or mints the seed material and keeps the set of
// live chain wallets.
package wallet

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/chapool/web3connect/internal/auth"
	"github.com/chapool/web3connect/internal/util"
	"github.com/chapool/web3connect/internal/wallet/chain"
	"github.com/chapool/web3connect/internal/wallet/cipher"
	"github.com/chapool/web3connect/internal/wallet/core"
	"github.com/chapool/web3connect/internal/wallet/keystore"
	"github.com/chapool/web3connect/internal/wallet/seed"
	"github.com/pkg/errors"
)

type service struct {
	cfg      Config
	chains   chain.Service
	drivers  map[core.Family]Driver
	store    *keystore.Store
	cipher   *cipher.Provider
	identity auth.Provider

	// deviceCipher seals the remembered secret under the device id
	deviceCipher *cipher.Provider
	guard        *cipher.PasswordGuard
	secrets      seed.Manager
	metrics      Metrics
	now          func() time.Time

	// opMu serializes initialization, network switches and sign-out
	opMu sync.Mutex

	mu      sync.RWMutex
	state   State
	user    *auth.User
	wallets []core.Wallet
	active  core.Wallet
	lastErr error
}

type Option func(*service)

func WithMetrics(m Metrics) Option {
	return func(s *service) {
		s.metrics = m
	}
}

// WithSecretManager replaces the in-memory secret holder.
func WithSecretManager(m seed.Manager) Option {
	return func(s *service) {
		s.secrets = m
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *service) {
		s.now = now
	}
}

// NewService creates the orchestrator. seedCipher seals the seed material
// under the user secret.
//
//nolint:ireturn // Returning interface is intentional for dependency injection
func NewService(cfg Config, chains chain.Service, drivers []Driver, store *keystore.Store, seedCipher *cipher.Provider, identity auth.Provider, opts ...Option) (Service, error) {
	if _, err := chains.GetChain(cfg.DefaultChainID); err != nil {
		return nil, errors.Wrap(err, "invalid default chain")
	}
	if cfg.EnabledAuthMethods == nil {
		cfg.EnabledAuthMethods, _ = auth.ParseMethods(nil)
	}

	byFamily := make(map[core.Family]Driver, len(drivers))
	for _, d := range drivers {
		if _, ok := byFamily[d.Family()]; ok {
			return nil, errors.Errorf("duplicate driver for family %s", d.Family())
		}
		byFamily[d.Family()] = d
	}

	s := &service{
		cfg:          cfg,
		chains:       chains,
		drivers:      byFamily,
		store:        store,
		cipher:       seedCipher,
		identity:     identity,
		deviceCipher: cipher.New(cipher.LightScryptParams()),
		guard:        cipher.NewPasswordGuard(seedCipher, store),
		secrets:      seed.NewManager(),
		now:          time.Now,
		state:        StateUnauthenticated,
	}
	for _, opt := range opts {
		opt(s)
	}

	return s, nil
}

func (s *service) Run(ctx context.Context) error {
	sub := s.identity.Subscribe()
	defer sub.Unsubscribe()

	log := util.LogFromContext(ctx)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case user, ok := <-sub.C:
			if !ok {
				return nil
			}
			if err := s.HandleIdentityChange(ctx, user); err != nil {
				log.Warn().Err(err).Str("kind", string(core.KindOf(err))).Msg("Failed to handle identity change")
			}
		}
	}
}

func (s *service) HandleIdentityChange(ctx context.Context, user *auth.User) error {
	s.opMu.Lock()
	defer s.opMu.Unlock()

	log := util.LogFromContext(ctx)

	if user == nil {
		s.mu.Lock()
		s.resetLocked()
		s.user = nil
		if s.state != StateError {
			s.state = StateUnauthenticated
		}
		s.mu.Unlock()

		log.Debug().Msg("Session signed out")
		return nil
	}

	s.mu.Lock()
	if s.user != nil && s.user.UID == user.UID && s.state == StateWalletReady {
		s.mu.Unlock()
		return nil
	}
	if s.user == nil || s.user.UID != user.UID {
		s.resetLocked()
		s.lastErr = nil
	}
	u := *user
	s.user = &u
	s.state = StateAuthenticatedNoWallet
	s.mu.Unlock()

	log.Debug().Str("uid", user.UID).Bool("anonymous", user.IsAnonymous).Msg("Session authenticated")

	if _, err := s.initWallet(ctx, InitOptions{}); err != nil {
		if errors.Is(err, core.ErrPasswordRequired) {
			return nil
		}
		return err
	}

	return nil
}

func (s *service) SignOut(ctx context.Context, clearStorage bool) error {
	s.opMu.Lock()
	defer s.opMu.Unlock()

	s.mu.Lock()
	s.resetLocked()
	s.user = nil
	s.state = StateUnauthenticated
	s.lastErr = nil
	s.mu.Unlock()

	var err error
	if clearStorage {
		err = s.store.Clear(ctx)
	} else {
		err = s.store.Remove(ctx, keystore.KeyRememberedSecret)
	}
	if err != nil {
		return errors.Wrap(err, "failed to update store on sign out")
	}

	if err := s.identity.SignOut(ctx); err != nil {
		return errors.Wrap(err, "failed to sign out of identity provider")
	}

	util.LogFromContext(ctx).Info().Bool("cleared_storage", clearStorage).Msg("Signed out")

	return nil
}

func (s *service) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// LastError returns the failure that put the session into StateError.
func (s *service) LastError() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastErr
}

func (s *service) User() *auth.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

func (s *service) UserInfo() *UserInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.userInfoLocked()
}

func (s *service) Wallets() []core.Wallet {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.wallets)
}

func (s *service) Active() core.Wallet {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.active
}

func (s *service) AuthMethods() []auth.Method {
	return s.cfg.EnabledAuthMethods.List()
}

func (s *service) userInfoLocked() *UserInfo {
	if s.active == nil {
		return nil
	}

	info := toUserInfo(s.active)
	if s.user != nil {
		info.UID = s.user.UID
	}
	return info
}

// resetLocked drops the secret and the wallet set. Caller holds mu.
func (s *service) resetLocked() {
	forget(s.wallets...)
	s.wallets = nil
	s.active = nil
	s.secrets.Clear()
}

func toUserInfo(w core.Wallet) *UserInfo {
	return &UserInfo{
		Address:       w.Address(),
		PublicKey:     w.PublicKey(),
		ChainID:       w.ChainID(),
		Family:        w.Family(),
		DID:           core.DID(w.Address()),
		IsExternal:    w.IsExternal(),
		BackupEnabled: !w.IsExternal(),
	}
}

func forget(wallets ...core.Wallet) {
	for _, w := range wallets {
		if f, ok := w.(core.Forgetter); ok {
			f.Forget()
		}
	}
}
