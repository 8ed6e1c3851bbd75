package types

import (
	"github.com/go-openapi/errors"
	"github.com/go-openapi/strfmt"
	"github.com/go-openapi/validate"
)

// ChainItem is one supported chain.
type ChainItem struct {

	// Required: true
	// Enum: ["evm","utxo","ed25519"]
	Family *string `json:"family"`

	// Required: true
	ID *int64 `json:"id"`

	// Required: true
	Name *string `json:"name"`

	Testnet bool `json:"testnet"`
}

// Validate validates this chain item
func (m *ChainItem) Validate(formats strfmt.Registry) error {
	var res []error

	if err := m.validateFamily(formats); err != nil {
		res = append(res, err)
	}

	if err := validate.Required("id", "body", m.ID); err != nil {
		res = append(res, err)
	}

	if err := validate.Required("name", "body", m.Name); err != nil {
		res = append(res, err)
	}

	if len(res) > 0 {
		return errors.CompositeValidationError(res...)
	}
	return nil
}

func (m *ChainItem) validateFamily(formats strfmt.Registry) error {

	if err := validate.Required("family", "body", m.Family); err != nil {
		return err
	}

	if err := validateFamilyEnum("family", "body", *m.Family); err != nil {
		return err
	}

	return nil
}
