package types

import (
	"github.com/go-openapi/errors"
	"github.com/go-openapi/strfmt"
	"github.com/go-openapi/validate"
)

// WalletItem is one derived or external wallet of the session.
type WalletItem struct {

	// Whether this wallet is the active one
	Active bool `json:"active"`

	// Required: true
	Address *string `json:"address"`

	// Required: true
	ChainID *int64 `json:"chainId"`

	// Required: true
	// Enum: ["evm","utxo","ed25519"]
	Family *string `json:"family"`

	IsExternal bool `json:"isExternal"`
}

// Validate validates this wallet item
func (m *WalletItem) Validate(formats strfmt.Registry) error {
	var res []error

	if err := validate.Required("address", "body", m.Address); err != nil {
		res = append(res, err)
	}

	if err := validate.Required("chainId", "body", m.ChainID); err != nil {
		res = append(res, err)
	}

	if err := m.validateFamily(formats); err != nil {
		res = append(res, err)
	}

	if len(res) > 0 {
		return errors.CompositeValidationError(res...)
	}
	return nil
}

func (m *WalletItem) validateFamily(formats strfmt.Registry) error {

	if err := validate.Required("family", "body", m.Family); err != nil {
		return err
	}

	if err := validateFamilyEnum("family", "body", *m.Family); err != nil {
		return err
	}

	return nil
}
