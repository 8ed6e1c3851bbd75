// Package evm implements the account-model chain family: BIP-32 keys on
// secp256k1, Keccak addresses, personal-sign messages and EIP-1559 transfers.
package evm

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// Backend is the subset of ethclient.Client used for filling and broadcasting
// transactions.
type Backend interface {
	PendingNonceAt(ctx context.Context, account common.Address) (uint64, error)
	SuggestGasTipCap(ctx context.Context) (*big.Int, error)
	HeaderByNumber(ctx context.Context, number *big.Int) (*types.Header, error)
	EstimateGas(ctx context.Context, msg ethereum.CallMsg) (uint64, error)
	SendTransaction(ctx context.Context, tx *types.Transaction) error
}

// Dialer opens a Backend for a comma separated RPC URL list.
type Dialer func(ctx context.Context, rpcURL string) (Backend, error)

// ExternalSigner is a signer that holds keys outside this process, e.g. a
// Clef instance reached through accounts/external.
type ExternalSigner interface {
	Accounts() []accounts.Account
	SignText(account accounts.Account, text []byte) ([]byte, error)
	SignTx(account accounts.Account, tx *types.Transaction, chainID *big.Int) (*types.Transaction, error)
}

// ExternalDialer connects to an external signer endpoint.
type ExternalDialer func(endpoint string) (ExternalSigner, error)

type Option func(*Driver)

// WithDialer replaces the ethclient dialer.
func WithDialer(dial Dialer) Option {
	return func(d *Driver) {
		d.dial = dial
	}
}

// WithExternalSigner sets the endpoint ConnectExternal bridges to. An empty
// endpoint means no external wallet is present.
func WithExternalSigner(endpoint string) Option {
	return func(d *Driver) {
		d.externalEndpoint = endpoint
	}
}

// WithExternalDialer replaces the accounts/external dialer.
func WithExternalDialer(dial ExternalDialer) Option {
	return func(d *Driver) {
		d.dialExternal = dial
	}
}
