package types

import (
	"github.com/go-openapi/errors"
	"github.com/go-openapi/strfmt"
	"github.com/go-openapi/validate"
)

// PostSwitchNetworkPayload activates another chain.
type PostSwitchNetworkPayload struct {

	// Chain id to activate
	// Required: true
	// Minimum: 1
	ChainID *int64 `json:"chainId"`
}

// Validate validates this post switch network payload
func (m *PostSwitchNetworkPayload) Validate(formats strfmt.Registry) error {
	var res []error

	if err := m.validateChainID(formats); err != nil {
		res = append(res, err)
	}

	if len(res) > 0 {
		return errors.CompositeValidationError(res...)
	}
	return nil
}

func (m *PostSwitchNetworkPayload) validateChainID(formats strfmt.Registry) error {

	if err := validate.Required("chainId", "body", m.ChainID); err != nil {
		return err
	}

	if err := validate.MinimumInt("chainId", "body", *m.ChainID, 1, false); err != nil {
		return err
	}

	return nil
}
