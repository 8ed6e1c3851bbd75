package types

import (
	"github.com/go-openapi/errors"
	"github.com/go-openapi/strfmt"
	"github.com/go-openapi/validate"
)

// SignMessageResponse carries a message signature of the active wallet.
type SignMessageResponse struct {

	// Signing address
	// Required: true
	Address *string `json:"address"`

	// Chain the signature was made on
	// Required: true
	ChainID *int64 `json:"chainId"`

	// Signature in the encoding of the chain family
	// Required: true
	Signature *string `json:"signature"`
}

// Validate validates this sign message response
func (m *SignMessageResponse) Validate(formats strfmt.Registry) error {
	var res []error

	if err := validate.Required("address", "body", m.Address); err != nil {
		res = append(res, err)
	}

	if err := validate.Required("chainId", "body", m.ChainID); err != nil {
		res = append(res, err)
	}

	if err := validate.Required("signature", "body", m.Signature); err != nil {
		res = append(res, err)
	}

	if len(res) > 0 {
		return errors.CompositeValidationError(res...)
	}
	return nil
}
