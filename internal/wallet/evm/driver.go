package evm

import (
	"context"
	"strings"

	"github.com/chapool/web3connect/internal/wallet/address"
	"github.com/chapool/web3connect/internal/wallet/chain"
	"github.com/chapool/web3connect/internal/wallet/core"
	"github.com/chapool/web3connect/internal/wallet/seed"
	"github.com/ethereum/go-ethereum/accounts/external"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/pkg/errors"
)

// Driver creates EVM wallets.
type Driver struct {
	chains           chain.Service
	dial             Dialer
	externalEndpoint string
	dialExternal     ExternalDialer
}

func NewDriver(chains chain.Service, opts ...Option) *Driver {
	d := &Driver{
		chains:       chains,
		dial:         DialEthclient,
		dialExternal: dialClef,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

func (d *Driver) Family() core.Family {
	return core.FamilyEVM
}

// DeriveFromMnemonic derives the account at path (the chain default when
// empty). The path must carry the chain's purpose and coin type.
func (d *Driver) DeriveFromMnemonic(_ context.Context, mnemonic string, path string, c *chain.Chain) (core.Wallet, error) {
	if err := d.checkChain(c); err != nil {
		return nil, err
	}

	p, err := address.Resolve(path, c)
	if err != nil {
		return nil, err
	}

	seedBytes, err := seed.ToSeed(mnemonic)
	if err != nil {
		return nil, err
	}
	defer clear(seedBytes)

	key, err := address.DeriveBIP32(seedBytes, p)
	if err != nil {
		return nil, errors.Wrap(err, "failed to derive evm key")
	}
	defer clear(key.Key)

	// big.Int serialisation inside go-bip32 may drop leading zero bytes
	privateKey, err := crypto.ToECDSA(common.LeftPadBytes(key.Key, 32))
	if err != nil {
		return nil, errors.Wrap(err, "failed to convert private key to ECDSA")
	}

	return newLocalWallet(privateKey, d.network(c)), nil
}

// DeriveFromPrivateKey imports a hex encoded secp256k1 key, with or without 0x.
func (d *Driver) DeriveFromPrivateKey(_ context.Context, key string, c *chain.Chain) (core.Wallet, error) {
	if err := d.checkChain(c); err != nil {
		return nil, err
	}

	key = strings.TrimPrefix(strings.TrimSpace(key), "0x")
	if key == "" {
		return nil, core.ErrMissingSeed
	}

	privateKey, err := crypto.HexToECDSA(key)
	if err != nil {
		return nil, errors.Wrapf(core.ErrInvalidSeed, "invalid evm private key: %v", err)
	}

	return newLocalWallet(privateKey, d.network(c)), nil
}

// ConnectExternal bridges to the configured external signer and binds its
// first account.
func (d *Driver) ConnectExternal(_ context.Context, c *chain.Chain) (core.Wallet, error) {
	if err := d.checkChain(c); err != nil {
		return nil, err
	}

	if d.externalEndpoint == "" {
		return nil, core.ErrNoExternalProvider
	}

	signer, err := d.dialExternal(d.externalEndpoint)
	if err != nil {
		return nil, errors.Wrapf(core.ErrNoExternalProvider, "failed to reach external signer: %v", err)
	}

	accts := signer.Accounts()
	if len(accts) == 0 {
		return nil, errors.Wrap(core.ErrNoExternalProvider, "external signer exposes no accounts")
	}

	return &externalWallet{
		network: d.network(c),
		signer:  signer,
		account: accts[0],
	}, nil
}

func (d *Driver) checkChain(c *chain.Chain) error {
	if c == nil {
		return errors.Wrap(core.ErrChainUnavailable, "no chain given")
	}
	if c.Family != core.FamilyEVM {
		return errors.Wrapf(core.ErrChainUnavailable, "chain %d is not an evm chain", c.ID)
	}
	return nil
}

func (d *Driver) network(c *chain.Chain) *network {
	return &network{chain: c, chains: d.chains, dial: d.dial}
}

// DialEthclient dials the first reachable URL of a comma separated list.
func DialEthclient(ctx context.Context, rpcURL string) (Backend, error) {
	urls := chain.ParseRPCURLs(rpcURL)
	if len(urls) == 0 {
		return nil, errors.Wrap(core.ErrChainUnavailable, "no rpc url configured")
	}

	var lastErr error
	for _, url := range urls {
		client, err := ethclient.DialContext(ctx, url)
		if err != nil {
			lastErr = err
			continue
		}
		return client, nil
	}

	return nil, errors.Wrapf(core.ErrChainUnavailable, "failed to dial rpc: %v", lastErr)
}

func dialClef(endpoint string) (ExternalSigner, error) {
	signer, err := external.NewExternalSigner(endpoint)
	if err != nil {
		return nil, err
	}
	return signer, nil
}
