package wallet

import (
	"context"
	"time"

	"github.com/chapool/web3connect/internal/auth"
	"github.com/chapool/web3connect/internal/wallet/chain"
	"github.com/chapool/web3connect/internal/wallet/core"
	"github.com/chapool/web3connect/internal/wallet/keystore"
)

// State is the session state of the orchestrator.
type State string

const (
	StateUnauthenticated       State = "unauthenticated"
	StateAuthenticatedNoWallet State = "authenticated_no_wallet"
	StateWalletReady           State = "wallet_ready"
	StateError                 State = "error"
)

// WalletType is the wallet choice collected by the UI.
type WalletType string

const (
	// WalletTypeLocal decrypts the stored seed or mints a new one.
	WalletTypeLocal            WalletType = ""
	WalletTypeExternal         WalletType = "external"
	WalletTypeImportPrivateKey WalletType = "import-private-key"
	WalletTypeImportSeed       WalletType = "import-seed"
)

func (t WalletType) Valid() bool {
	switch t {
	case WalletTypeLocal, WalletTypeExternal, WalletTypeImportPrivateKey, WalletTypeImportSeed:
		return true
	}
	return false
}

// IsImport reports whether t brings its own seed material.
func (t WalletType) IsImport() bool {
	return t == WalletTypeImportSeed || t == WalletTypeImportPrivateKey
}

// Driver derives wallets of one chain family.
type Driver interface {
	Family() core.Family
	DeriveFromMnemonic(ctx context.Context, mnemonic string, path string, c *chain.Chain) (core.Wallet, error)
	DeriveFromPrivateKey(ctx context.Context, key string, c *chain.Chain) (core.Wallet, error)
	ConnectExternal(ctx context.Context, c *chain.Chain) (core.Wallet, error)
}

// InitOptions selects what InitWallet materializes. The zero value opens the
// stored seed, or mints one, on the default chain.
type InitOptions struct {
	ChainID    int64
	WalletType WalletType
	// Mnemonic is read for WalletTypeImportSeed.
	Mnemonic string
	// PrivateKey is read for WalletTypeImportPrivateKey and belongs to the
	// family of the target chain.
	PrivateKey string
	// Path overrides the derivation path of the target chain wallet.
	Path string
}

// ConnectChoice is what the UI reports after the password dialog.
type ConnectChoice struct {
	InitOptions
}

// UserInfo is the normalized view of the active wallet handed to the UI.
type UserInfo struct {
	UID        string      `json:"uid"`
	Address    string      `json:"address"`
	PublicKey  string      `json:"publicKey,omitempty"`
	ChainID    int64       `json:"chainId"`
	Family     core.Family `json:"family"`
	DID        string      `json:"did"`
	IsExternal bool        `json:"isExternal"`
	// BackupEnabled is false for external wallets, they hold no seed.
	BackupEnabled bool `json:"backupEnabled"`
}

// BackupStatus drives the backup prompt of the UI.
type BackupStatus struct {
	Available    bool       `json:"available"`
	Pending      bool       `json:"pending"`
	SkippedAt    *time.Time `json:"skippedAt,omitempty"`
	ShouldPrompt bool       `json:"shouldPrompt"`
}

// Config is the orchestrator configuration surface.
type Config struct {
	DefaultChainID     int64
	EnabledAuthMethods auth.MethodSet
	RememberSecret     bool
	BackupPromptAfter  time.Duration
	MinPasswordLength  int
}

// Metrics receives orchestrator measurements. *metrics.Service implements it.
type Metrics interface {
	ObserveInit(result string)
	ObserveDerivation(family string, took time.Duration)
}

// Service is the wallet lifecycle orchestrator of one session.
type Service interface {
	// Run consumes identity changes until ctx is done or the subscription
	// closes. Changes are handled one at a time.
	Run(ctx context.Context) error

	// HandleIdentityChange applies one identity state. A nil user signs the
	// session out; a user triggers a silent InitWallet attempt.
	HandleIdentityChange(ctx context.Context, user *auth.User) error

	// Connect checks password, keeps it as the session secret and
	// initializes the wallet set.
	Connect(ctx context.Context, password string, choice ConnectChoice) (*UserInfo, error)

	// InitWallet materializes the wallet set of the signed in user.
	InitWallet(ctx context.Context, opts InitOptions) (*UserInfo, error)

	// SwitchNetwork activates chainID, rebinding or deriving a wallet. Fails
	// with core.ErrNotReady while an initialization is in flight.
	SwitchNetwork(ctx context.Context, chainID int64) (*UserInfo, error)

	// SignOut clears the secret and the wallet set and signs out of the
	// identity provider. The encrypted store survives unless clearStorage.
	SignOut(ctx context.Context, clearStorage bool) error

	BackupStatus(ctx context.Context, now time.Time) (*BackupStatus, error)
	SkipBackup(ctx context.Context, now time.Time) error
	Backup(ctx context.Context, withEncryption bool, sink keystore.Sink) (*keystore.Artifact, string, error)

	State() State
	LastError() error
	User() *auth.User
	UserInfo() *UserInfo
	Wallets() []core.Wallet
	Active() core.Wallet
	AuthMethods() []auth.Method
}
