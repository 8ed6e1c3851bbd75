package btc

import (
	"context"
	"encoding/hex"
	"net/url"
	"strings"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/btcsuite/btcd/rpcclient"
	"github.com/chapool/web3connect/internal/wallet/address"
	"github.com/chapool/web3connect/internal/wallet/chain"
	"github.com/chapool/web3connect/internal/wallet/core"
	"github.com/chapool/web3connect/internal/wallet/seed"
	"github.com/pkg/errors"
)

// Driver creates UTXO wallets.
type Driver struct {
	chains chain.Service
	dial   Dialer
}

func NewDriver(chains chain.Service, opts ...Option) *Driver {
	d := &Driver{
		chains: chains,
		dial:   DialRPC,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

func (d *Driver) Family() core.Family {
	return core.FamilyUTXO
}

// DeriveFromMnemonic derives the key at path (the chain default when empty).
// The path purpose and coin type must match the chain.
func (d *Driver) DeriveFromMnemonic(_ context.Context, mnemonic string, path string, c *chain.Chain) (core.Wallet, error) {
	params, err := d.checkChain(c)
	if err != nil {
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

	ext, err := address.DeriveHDKeychain(seedBytes, p, params)
	if err != nil {
		return nil, errors.Wrap(err, "failed to derive utxo key")
	}

	privKey, err := ext.ECPrivKey()
	if err != nil {
		return nil, errors.Wrap(err, "failed to get private key")
	}

	return d.newWallet(privKey, true, c, params)
}

// DeriveFromPrivateKey imports a WIF string or a 32 byte hex key.
func (d *Driver) DeriveFromPrivateKey(_ context.Context, key string, c *chain.Chain) (core.Wallet, error) {
	params, err := d.checkChain(c)
	if err != nil {
		return nil, err
	}

	key = strings.TrimSpace(key)
	if key == "" {
		return nil, core.ErrMissingSeed
	}

	if wif, err := btcutil.DecodeWIF(key); err == nil {
		if !wif.IsForNet(params) {
			return nil, errors.Wrapf(core.ErrInvalidSeed, "wif key is not for network %s", params.Name)
		}
		return d.newWallet(wif.PrivKey, wif.CompressPubKey, c, params)
	}

	raw, err := hex.DecodeString(strings.TrimPrefix(key, "0x"))
	if err != nil || len(raw) != btcec.PrivKeyBytesLen {
		return nil, errors.Wrap(core.ErrInvalidSeed, "invalid utxo private key: expected WIF or 32 byte hex")
	}
	defer clear(raw)

	privKey, _ := btcec.PrivKeyFromBytes(raw)

	return d.newWallet(privKey, true, c, params)
}

// ConnectExternal always fails: no external signer bridge exists for this family.
func (d *Driver) ConnectExternal(_ context.Context, c *chain.Chain) (core.Wallet, error) {
	if _, err := d.checkChain(c); err != nil {
		return nil, err
	}
	return nil, errors.Wrap(core.ErrNoExternalProvider, "utxo chains have no external wallet bridge")
}

func (d *Driver) checkChain(c *chain.Chain) (*chaincfg.Params, error) {
	if c == nil {
		return nil, errors.Wrap(core.ErrChainUnavailable, "no chain given")
	}
	if c.Family != core.FamilyUTXO {
		return nil, errors.Wrapf(core.ErrChainUnavailable, "chain %d is not a utxo chain", c.ID)
	}
	return Params(c)
}

func (d *Driver) newWallet(privKey *btcec.PrivateKey, compressed bool, c *chain.Chain, params *chaincfg.Params) (core.Wallet, error) {
	pubKey := privKey.PubKey().SerializeUncompressed()
	if compressed {
		pubKey = privKey.PubKey().SerializeCompressed()
	}

	w := &wallet{
		key:        privKey,
		pubKey:     pubKey,
		compressed: compressed,
		chains:     d.chains,
		dial:       d.dial,
	}
	if err := w.bind(c, params); err != nil {
		return nil, err
	}
	return w, nil
}

// DialRPC connects to a btcd/bitcoind JSON-RPC endpoint in HTTP POST mode.
// Credentials are taken from the URL user info.
func DialRPC(_ context.Context, rpcURL string) (Backend, error) {
	urls := chain.ParseRPCURLs(rpcURL)
	if len(urls) == 0 {
		return nil, errors.Wrap(core.ErrChainUnavailable, "no rpc url configured")
	}

	u, err := url.Parse(urls[0])
	if err != nil {
		return nil, errors.Wrapf(core.ErrChainUnavailable, "invalid rpc url: %v", err)
	}

	cfg := &rpcclient.ConnConfig{
		Host:         u.Host,
		HTTPPostMode: true,
		DisableTLS:   u.Scheme != "https",
	}
	if u.User != nil {
		cfg.User = u.User.Username()
		cfg.Pass, _ = u.User.Password()
	}

	client, err := rpcclient.New(cfg, nil)
	if err != nil {
		return nil, errors.Wrapf(core.ErrChainUnavailable, "failed to create rpc client: %v", err)
	}

	return client, nil
}
