package api

import (
	"context"

	"github.com/chapool/web3connect/internal/auth"
	"github.com/chapool/web3connect/internal/config"
	"github.com/chapool/web3connect/internal/metrics"
	"github.com/chapool/web3connect/internal/wallet"
	"github.com/chapool/web3connect/internal/wallet/btc"
	"github.com/chapool/web3connect/internal/wallet/chain"
	"github.com/chapool/web3connect/internal/wallet/cipher"
	"github.com/chapool/web3connect/internal/wallet/evm"
	"github.com/chapool/web3connect/internal/wallet/keystore"
	"github.com/chapool/web3connect/internal/wallet/sol"
	"github.com/pkg/errors"
)

// PROVIDERS - define here only providers that for various reasons (e.g. cyclic dependency) can't live in their corresponding packages
// or for wrapping providers that only accept sub-configs to prevent the requirement for defining providers for sub-configs.
// https://github.com/google/wire/blob/main/docs/guide.md#defining-providers

// NewChains loads the built-in chain table, merged with Wallet.ChainsFile when set.
//
//nolint:ireturn
func NewChains(cfg config.Server) (chain.Service, error) {
	chains := chain.DefaultChains()
	if cfg.Wallet.ChainsFile != "" {
		loaded, err := chain.LoadFile(cfg.Wallet.ChainsFile)
		if err != nil {
			return nil, err
		}
		chains = loaded
	}

	return chain.NewService(chains)
}

// NewBackend opens the configured storage backend. The postgres DSN is built
// from Storage.Database.
//
//nolint:ireturn
func NewBackend(cfg config.Server) (keystore.Backend, error) {
	backendCfg := keystore.BackendConfig{
		Kind: cfg.Storage.Backend,
		Dir:  cfg.Storage.Dir,
	}
	if cfg.Storage.Backend == keystore.BackendPostgres {
		backendCfg.PostgresDSN = cfg.Storage.Database.ConnectionString()
	}

	b, err := keystore.NewBackend(context.Background(), backendCfg)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open storage backend")
	}

	return b, nil
}

//nolint:ireturn
func NewDeviceID(cfg config.Server) keystore.DeviceID {
	return keystore.NewFileDeviceID(cfg.Storage.DeviceIDFile)
}

func NewStore(backend keystore.Backend, device keystore.DeviceID, m *metrics.Service) *keystore.Store {
	return keystore.NewStore(backend, device, keystore.WithWriteObserver(m))
}

func NewSeedCipher(cfg config.Server) *cipher.Provider {
	return cipher.New(cipher.ScryptParams{
		N: cfg.Cipher.ScryptN,
		R: cfg.Cipher.ScryptR,
		P: cfg.Cipher.ScryptP,
	})
}

func NewIdentity(cfg config.Server) (*auth.LocalProvider, error) {
	methods, err := auth.ParseMethods(cfg.Wallet.EnabledAuthMethods)
	if err != nil {
		return nil, err
	}

	return auth.NewLocalProvider(methods), nil
}

// NewDrivers returns one driver per chain family. Only the EVM family can
// bridge to an external signer.
func NewDrivers(cfg config.Server, chains chain.Service) []wallet.Driver {
	return []wallet.Driver{
		evm.NewDriver(chains, evm.WithExternalSigner(cfg.Wallet.ExternalSignerURL)),
		btc.NewDriver(chains),
		sol.NewDriver(chains),
	}
}

func NewWalletConfig(cfg config.Server) (wallet.Config, error) {
	methods, err := auth.ParseMethods(cfg.Wallet.EnabledAuthMethods)
	if err != nil {
		return wallet.Config{}, err
	}

	return wallet.Config{
		DefaultChainID:     cfg.Wallet.DefaultChainID,
		EnabledAuthMethods: methods,
		RememberSecret:     cfg.Wallet.RememberSecret,
		BackupPromptAfter:  cfg.Wallet.BackupPromptAfter,
		MinPasswordLength:  cfg.Wallet.MinPasswordLength,
	}, nil
}

//nolint:ireturn
func NewWalletService(
	cfg wallet.Config,
	chains chain.Service,
	drivers []wallet.Driver,
	store *keystore.Store,
	seedCipher *cipher.Provider,
	identity auth.Provider,
	m *metrics.Service,
) (wallet.Service, error) {
	return wallet.NewService(cfg, chains, drivers, store, seedCipher, identity, wallet.WithMetrics(m))
}
