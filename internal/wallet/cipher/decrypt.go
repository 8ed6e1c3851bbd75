package cipher

import (
	"encoding/base64"
	"encoding/hex"
	"encoding/json"

	"github.com/chapool/web3connect/internal/wallet/core"
	"github.com/pkg/errors"
	"golang.org/x/crypto/scrypt"
)

// Decrypt opens a record produced by Encrypt. A wrong passKey yields a
// *core.DecryptionError matching core.ErrInvalidPassword; a malformed record
// yields one matching only core.ErrDecryption. No partial plaintext is ever
// returned.
func (p *Provider) Decrypt(passKey string, ciphertext string) ([]byte, error) {
	env, err := ParseEnvelope(ciphertext)
	if err != nil {
		return nil, err
	}

	if passKey == "" {
		return nil, &core.DecryptionError{WrongKey: true}
	}

	salt, err := hex.DecodeString(env.KDFParams.Salt)
	if err != nil {
		return nil, malformed(errors.Wrap(err, "failed to decode salt"))
	}

	nonce, err := hex.DecodeString(env.Nonce)
	if err != nil || len(nonce) != nonceLen {
		return nil, malformed(errors.New("failed to decode nonce"))
	}

	sealed, err := hex.DecodeString(env.Ciphertext)
	if err != nil {
		return nil, malformed(errors.Wrap(err, "failed to decode ciphertext"))
	}

	kp := env.KDFParams
	key, err := scrypt.Key([]byte(passKey), salt, kp.N, kp.R, kp.P, kp.DKLen)
	if err != nil {
		return nil, malformed(errors.Wrap(err, "failed to derive key"))
	}
	defer clear(key)

	aead, err := newGCM(key)
	if err != nil {
		return nil, malformed(err)
	}

	plaintext, err := aead.Open(nil, nonce, sealed, nil)
	if err != nil {
		return nil, &core.DecryptionError{WrongKey: true}
	}

	return plaintext, nil
}

// ParseEnvelope decodes and sanity checks a sealed record without opening it.
func ParseEnvelope(ciphertext string) (*Envelope, error) {
	data, err := base64.StdEncoding.DecodeString(ciphertext)
	if err != nil {
		return nil, malformed(errors.Wrap(err, "failed to decode envelope"))
	}

	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, malformed(errors.Wrap(err, "failed to unmarshal envelope"))
	}

	switch {
	case env.Version != envelopeVersion:
		return nil, malformed(errors.Errorf("unsupported envelope version %d", env.Version))
	case env.Cipher != cipherName || env.KDF != kdfName:
		return nil, malformed(errors.Errorf("unsupported cipher %s/%s", env.Cipher, env.KDF))
	case env.KDFParams.DKLen != keyLen:
		return nil, malformed(errors.Errorf("unsupported key length %d", env.KDFParams.DKLen))
	case env.KDFParams.N <= 1 || env.KDFParams.N > maxScryptN || env.KDFParams.R <= 0 || env.KDFParams.P <= 0:
		return nil, malformed(errors.New("scrypt parameters out of range"))
	}

	return &env, nil
}

func malformed(err error) error {
	return &core.DecryptionError{Cause: err}
}
