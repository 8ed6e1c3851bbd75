package chain

import (
	"github.com/chapool/web3connect/internal/wallet/core"
)

// Chain describes one network a wallet can be bound to.
type Chain struct {
	ID       int64       `toml:"id" json:"id"`
	Name     string      `toml:"name" json:"name"`
	Family   core.Family `toml:"family" json:"family"`
	RPCURL   string      `toml:"rpc_url" json:"rpcUrl"` // comma separated, first reachable wins
	Purpose  uint32      `toml:"purpose" json:"purpose"`
	CoinType uint32      `toml:"coin_type" json:"coinType"`
	// Network selects the chaincfg params for UTXO chains: mainnet, testnet3, regtest, signet.
	Network string `toml:"network" json:"network,omitempty"`
	Testnet bool   `toml:"testnet" json:"testnet"`
}

// Service resolves chain configuration.
type Service interface {
	// GetChain returns the chain for id or core.ErrChainUnavailable.
	GetChain(chainID int64) (*Chain, error)

	// ListChains returns all chains ordered by family then id.
	ListChains() []*Chain

	// DefaultFor returns the first mainnet chain of a family.
	DefaultFor(family core.Family) (*Chain, error)

	// ParseRPCURLs splits a comma separated RPC URL list.
	ParseRPCURLs(rpcURL string) []string
}

const (
	BIP44Purpose uint32 = 44

	CoinTypeBitcoin uint32 = 0
	CoinTypeTestnet uint32 = 1
	CoinTypeEther   uint32 = 60
	CoinTypeSolana  uint32 = 501
)

// Well-known chain ids. UTXO ids are the WIF version bytes of the network,
// Solana ids are local to this module.
const (
	IDEthereum       int64 = 1
	IDSepolia        int64 = 11155111
	IDPolygon        int64 = 137
	IDBitcoin        int64 = 128
	IDBitcoinTestnet int64 = 239
	IDSolana         int64 = 900
	IDSolanaDevnet   int64 = 901
)

// DefaultChains is the built-in chain table.
func DefaultChains() []*Chain {
	return []*Chain{
		{ID: IDEthereum, Name: "Ethereum", Family: core.FamilyEVM, RPCURL: "https://ethereum-rpc.publicnode.com", Purpose: BIP44Purpose, CoinType: CoinTypeEther},
		{ID: IDPolygon, Name: "Polygon", Family: core.FamilyEVM, RPCURL: "https://polygon-rpc.com", Purpose: BIP44Purpose, CoinType: CoinTypeEther},
		{ID: IDSepolia, Name: "Sepolia", Family: core.FamilyEVM, RPCURL: "https://ethereum-sepolia-rpc.publicnode.com", Purpose: BIP44Purpose, CoinType: CoinTypeEther, Testnet: true},
		{ID: IDBitcoin, Name: "Bitcoin", Family: core.FamilyUTXO, Purpose: BIP44Purpose, CoinType: CoinTypeBitcoin, Network: "mainnet"},
		{ID: IDBitcoinTestnet, Name: "Bitcoin Testnet", Family: core.FamilyUTXO, Purpose: BIP44Purpose, CoinType: CoinTypeTestnet, Network: "testnet3", Testnet: true},
		{ID: IDSolana, Name: "Solana", Family: core.FamilyEd25519, RPCURL: "https://api.mainnet-beta.solana.com", Purpose: BIP44Purpose, CoinType: CoinTypeSolana},
		{ID: IDSolanaDevnet, Name: "Solana Devnet", Family: core.FamilyEd25519, RPCURL: "https://api.devnet.solana.com", Purpose: BIP44Purpose, CoinType: CoinTypeSolana, Testnet: true},
	}
}
