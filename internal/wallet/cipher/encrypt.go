package cipher

import (
	"crypto/aes"
	gocipher "crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"io"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"golang.org/x/crypto/scrypt"
)

// Provider seals and opens payloads with a password-derived key.
type Provider struct {
	params ScryptParams
}

// New creates a cipher Provider using params for every new record.
func New(params ScryptParams) *Provider {
	if params.N <= 1 || params.R <= 0 || params.P <= 0 {
		params = DefaultScryptParams()
	}
	return &Provider{params: params}
}

// Params returns the KDF profile used for new records.
func (p *Provider) Params() ScryptParams {
	return p.params
}

// Encrypt seals plaintext under passKey. A random salt and nonce are generated
// for every call.
func (p *Provider) Encrypt(passKey string, plaintext []byte) (string, error) {
	if passKey == "" {
		return "", errors.New("pass-key must not be empty")
	}

	salt := make([]byte, saltLen)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return "", errors.Wrap(err, "failed to generate salt")
	}

	nonce := make([]byte, nonceLen)
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", errors.Wrap(err, "failed to generate nonce")
	}

	key, err := scrypt.Key([]byte(passKey), salt, p.params.N, p.params.R, p.params.P, keyLen)
	if err != nil {
		return "", errors.Wrap(err, "failed to derive key")
	}
	defer clear(key)

	aead, err := newGCM(key)
	if err != nil {
		return "", err
	}

	env := Envelope{
		Version: envelopeVersion,
		ID:      uuid.New().String(),
		Cipher:  cipherName,
		KDF:     kdfName,
		KDFParams: KDFParams{
			DKLen: keyLen,
			Salt:  hex.EncodeToString(salt),
			N:     p.params.N,
			R:     p.params.R,
			P:     p.params.P,
		},
		Nonce:      hex.EncodeToString(nonce),
		Ciphertext: hex.EncodeToString(aead.Seal(nil, nonce, plaintext, nil)),
	}

	data, err := json.Marshal(env)
	if err != nil {
		return "", errors.Wrap(err, "failed to marshal envelope")
	}

	return base64.StdEncoding.EncodeToString(data), nil
}

func newGCM(key []byte) (gocipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create cipher")
	}

	aead, err := gocipher.NewGCM(block)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create GCM")
	}

	return aead, nil
}
