package seed

// Manager holds the user Secret for the lifetime of a session. The Secret is
// never persisted in clear form.
type Manager interface {
	// Initialize stores the secret in memory, replacing any previous one
	Initialize(secret string) error

	// Secret returns the in-memory secret, ok is false when none is set
	Secret() (string, bool)

	// IsInitialized checks if a secret is held
	IsInitialized() bool

	// Clear wipes the secret from memory
	Clear()
}

// Kind tells how seed material must be interpreted.
type Kind string

const (
	KindMnemonic   Kind = "mnemonic"
	KindPrivateKey Kind = "private-key"
)
