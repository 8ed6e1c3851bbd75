package types

import (
	"github.com/go-openapi/errors"
	"github.com/go-openapi/strfmt"
	"github.com/go-openapi/validate"
)

// UserInfo is the public record of the active wallet.
type UserInfo struct {

	// Address of the active wallet
	// Required: true
	Address *string `json:"address"`

	// Whether a backup of the seed can be written
	BackupEnabled bool `json:"backupEnabled"`

	// Active chain id
	// Required: true
	ChainID *int64 `json:"chainId"`

	// Decentralised identifier of the wallet
	// Required: true
	DID *string `json:"did"`

	// Chain family of the active wallet
	// Required: true
	// Enum: ["evm","utxo","ed25519"]
	Family *string `json:"family"`

	// Whether the wallet is held by an external provider
	IsExternal bool `json:"isExternal"`

	// Public key, empty for external wallets
	PublicKey string `json:"publicKey,omitempty"`

	// Stable user id
	// Required: true
	UID *string `json:"uid"`
}

// Validate validates this user info
func (m *UserInfo) Validate(formats strfmt.Registry) error {
	var res []error

	if err := validate.Required("address", "body", m.Address); err != nil {
		res = append(res, err)
	}

	if err := validate.Required("chainId", "body", m.ChainID); err != nil {
		res = append(res, err)
	}

	if err := validate.Required("did", "body", m.DID); err != nil {
		res = append(res, err)
	}

	if err := m.validateFamily(formats); err != nil {
		res = append(res, err)
	}

	if err := validate.Required("uid", "body", m.UID); err != nil {
		res = append(res, err)
	}

	if len(res) > 0 {
		return errors.CompositeValidationError(res...)
	}
	return nil
}

func (m *UserInfo) validateFamily(formats strfmt.Registry) error {

	if err := validate.Required("family", "body", m.Family); err != nil {
		return err
	}

	if err := validateFamilyEnum("family", "body", *m.Family); err != nil {
		return err
	}

	return nil
}
