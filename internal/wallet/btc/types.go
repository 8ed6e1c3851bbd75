// Package btc implements the UTXO chain family: BIP-44 keys derived with
// hdkeychain, P2PKH addresses, Bitcoin signed messages and P2PKH spends.
package btc

import (
	"context"

	"github.com/btcsuite/btcd/chaincfg"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/wire"
	"github.com/chapool/web3connect/internal/wallet/chain"
	"github.com/chapool/web3connect/internal/wallet/core"
	"github.com/pkg/errors"
)

// DustLimit is the smallest change output worth creating, in satoshi.
const DustLimit int64 = 546

const signedMessageMagic = "Bitcoin Signed Message:\n"

// Backend broadcasts raw transactions; *rpcclient.Client satisfies it.
type Backend interface {
	SendRawTransaction(tx *wire.MsgTx, allowHighFees bool) (*chainhash.Hash, error)
}

// Dialer opens a Backend for a comma separated RPC URL list.
type Dialer func(ctx context.Context, rpcURL string) (Backend, error)

type Option func(*Driver)

// WithDialer replaces the btcd rpcclient dialer.
func WithDialer(dial Dialer) Option {
	return func(d *Driver) {
		d.dial = dial
	}
}

// Params returns the chaincfg parameters of a UTXO chain.
func Params(c *chain.Chain) (*chaincfg.Params, error) {
	switch c.Network {
	case "mainnet":
		return &chaincfg.MainNetParams, nil
	case "testnet3", "testnet":
		return &chaincfg.TestNet3Params, nil
	case "regtest":
		return &chaincfg.RegressionNetParams, nil
	case "signet":
		return &chaincfg.SigNetParams, nil
	case "":
		if c.Testnet {
			return &chaincfg.TestNet3Params, nil
		}
		return &chaincfg.MainNetParams, nil
	}
	return nil, errors.Wrapf(core.ErrChainUnavailable, "chain %d: unknown utxo network %q", c.ID, c.Network)
}
