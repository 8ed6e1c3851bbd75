package seed

import (
	"encoding/json"
	"time"

	"github.com/chapool/web3connect/internal/wallet/core"
	"github.com/pkg/errors"
)

// Material is the persisted seed of a user: a mnemonic that every chain family
// derives from, or a raw private key usable by a single family.
type Material struct {
	Kind       Kind        `json:"kind"`
	Mnemonic   string      `json:"mnemonic,omitempty"`
	PrivateKey string      `json:"privateKey,omitempty"`
	Family     core.Family `json:"family,omitempty"` // set for KindPrivateKey
	CreatedAt  string      `json:"createdAt"`
}

// NewMnemonicMaterial wraps a mnemonic, generating one when empty.
func NewMnemonicMaterial(mnemonic string) (*Material, error) {
	if mnemonic == "" {
		var err error
		mnemonic, err = GenerateMnemonic()
		if err != nil {
			return nil, err
		}
	}

	mnemonic = NormalizeMnemonic(mnemonic)
	if !ValidateMnemonic(mnemonic) {
		return nil, errors.Wrap(core.ErrInvalidSeed, "invalid mnemonic")
	}

	return &Material{
		Kind:      KindMnemonic,
		Mnemonic:  mnemonic,
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
	}, nil
}

// NewPrivateKeyMaterial wraps an imported private key for one family.
func NewPrivateKeyMaterial(family core.Family, key string) (*Material, error) {
	if key == "" {
		return nil, core.ErrMissingSeed
	}
	if !family.Valid() {
		return nil, errors.Errorf("unknown chain family %q", family)
	}

	return &Material{
		Kind:       KindPrivateKey,
		PrivateKey: key,
		Family:     family,
		CreatedAt:  time.Now().UTC().Format(time.RFC3339),
	}, nil
}

// Validate fails with core.ErrMissingSeed when no usable material is present.
func (m *Material) Validate() error {
	if m == nil {
		return core.ErrMissingSeed
	}

	switch m.Kind {
	case KindMnemonic:
		if m.Mnemonic == "" {
			return core.ErrMissingSeed
		}
	case KindPrivateKey:
		if m.PrivateKey == "" {
			return core.ErrMissingSeed
		}
		if !m.Family.Valid() {
			return errors.Errorf("unknown chain family %q", m.Family)
		}
	default:
		return errors.Wrapf(core.ErrMissingSeed, "unknown seed kind %q", m.Kind)
	}

	return nil
}

// Supports reports whether a wallet of family can be derived from m.
func (m *Material) Supports(family core.Family) bool {
	if m == nil {
		return false
	}
	return m.Kind == KindMnemonic || m.Family == family
}

func (m *Material) Marshal() ([]byte, error) {
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return json.Marshal(m)
}

func UnmarshalMaterial(data []byte) (*Material, error) {
	var m Material
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal seed material")
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

// Wipe drops references to the secret strings.
func (m *Material) Wipe() {
	if m == nil {
		return
	}
	m.Mnemonic = ""
	m.PrivateKey = ""
}
