// Package sol implements the Ed25519 chain family on top of solana-go.
// Keys are derived with SLIP-0010 along fully hardened paths.
package sol

import (
	"context"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
)

// Backend is the subset of rpc.Client used for blockhashes and broadcast.
type Backend interface {
	GetLatestBlockhash(ctx context.Context, commitment rpc.CommitmentType) (*rpc.GetLatestBlockhashResult, error)
	SendTransactionWithOpts(ctx context.Context, transaction *solana.Transaction, opts rpc.TransactionOpts) (solana.Signature, error)
}

// Dialer opens a Backend for a comma separated RPC URL list.
type Dialer func(ctx context.Context, rpcURL string) (Backend, error)

type Option func(*Driver)

// WithDialer replaces the rpc.Client dialer.
func WithDialer(dial Dialer) Option {
	return func(d *Driver) {
		d.dial = dial
	}
}
