// Package core holds the chain-agnostic wallet contract shared by the chain
// family drivers and the orchestrator.
package core

import (
	"context"
	"math/big"
)

// Family is a class of chains sharing an address and signature scheme.
type Family string

const (
	FamilyEVM     Family = "evm"
	FamilyUTXO    Family = "utxo"
	FamilyEd25519 Family = "ed25519"
)

// Families lists every supported chain family in materialization order.
var Families = []Family{FamilyEVM, FamilyUTXO, FamilyEd25519}

func (f Family) Valid() bool {
	switch f {
	case FamilyEVM, FamilyUTXO, FamilyEd25519:
		return true
	}
	return false
}

// Wallet is the capability set every chain family implements. Local wallets own
// their key material; external wallets delegate signing and hold no key.
type Wallet interface {
	Address() string
	// PublicKey is empty for external wallets.
	PublicKey() string
	ChainID() int64
	Family() Family
	IsExternal() bool

	SignMessage(ctx context.Context, message []byte) ([]byte, error)
	SignTransaction(ctx context.Context, req *TxRequest) (*SignedTx, error)
	SendTransaction(ctx context.Context, req *TxRequest) (*SignedTx, error)
	VerifySignature(ctx context.Context, message []byte, signature []byte) (bool, error)
	SwitchNetwork(ctx context.Context, chainID int64) error
}

// TxRequest is a chain-agnostic transfer request. Fields that do not apply to a
// family are ignored by its driver.
type TxRequest struct {
	To    string
	Value *big.Int // wei, satoshi or lamports
	Data  []byte

	// EVM. Nil values are filled from the RPC backend on send.
	Nonce                *uint64
	GasLimit             uint64
	MaxFeePerGas         *big.Int
	MaxPriorityFeePerGas *big.Int

	// UTXO
	Inputs []UTXO
	Fee    int64

	// Ed25519. Fetched from the RPC backend when empty.
	RecentBlockhash string
}

// UTXO is a spendable output owned by the signing wallet.
type UTXO struct {
	TxID     string
	Vout     uint32
	Value    int64
	PkScript []byte
}

// SignedTx is a serialized signed transaction and its identifier.
type SignedTx struct {
	Raw  []byte
	Hash string
}

// DID returns the decentralized identifier published for an address.
func DID(address string) string {
	return "did:ethr:" + address
}

// Forgetter is implemented by wallets that hold key material in memory.
// Forget zeroes it; the wallet must not be used afterwards.
type Forgetter interface {
	Forget()
}
