// Package cipher derives symmetric keys from passwords and seals byte payloads
// with an authenticated cipher.
package cipher

// Envelope is the serialized form of a sealed payload. KDF parameters travel
// with the record so that decryption stays reproducible when defaults change.
type Envelope struct {
	Version    int       `json:"version"`
	ID         string    `json:"id"`
	Cipher     string    `json:"cipher"`
	KDF        string    `json:"kdf"`
	KDFParams  KDFParams `json:"kdfparams"`
	Nonce      string    `json:"nonce"`
	Ciphertext string    `json:"ciphertext"`
}

type KDFParams struct {
	DKLen int    `json:"dklen"`
	Salt  string `json:"salt"`
	N     int    `json:"n"`
	R     int    `json:"r"`
	P     int    `json:"p"`
}

// ScryptParams defines scrypt KDF parameters
type ScryptParams struct {
	N int // CPU/memory cost parameter
	R int // Block size parameter
	P int // Parallelization parameter
}

const (
	envelopeVersion = 1
	cipherName      = "aes-256-gcm"
	kdfName         = "scrypt"

	keyLen   = 32
	saltLen  = 32
	nonceLen = 12

	// upper bound accepted from a stored envelope
	maxScryptN = 1 << 20
)

// DefaultScryptParams returns the production profile: N=2^18 (~256MB, 0.5-2s),
// usable on mobile class devices while keeping brute force expensive.
func DefaultScryptParams() ScryptParams {
	return ScryptParams{
		N: 1 << 18,
		R: 8,
		P: 1,
	}
}

// LightScryptParams is a fast profile for pass-keys that are not secrets, such
// as the device id sealing the store blob, and for tests.
func LightScryptParams() ScryptParams {
	return ScryptParams{
		N: 1 << 12,
		R: 8,
		P: 1,
	}
}
