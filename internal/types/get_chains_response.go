package types

import (
	"strconv"

	"github.com/go-openapi/errors"
	"github.com/go-openapi/strfmt"
	"github.com/go-openapi/validate"
)

// GetChainsResponse lists the supported chains.
type GetChainsResponse struct {

	// Required: true
	Chains []*ChainItem `json:"chains"`
}

// Validate validates this get chains response
func (m *GetChainsResponse) Validate(formats strfmt.Registry) error {
	var res []error

	if err := m.validateChains(formats); err != nil {
		res = append(res, err)
	}

	if len(res) > 0 {
		return errors.CompositeValidationError(res...)
	}
	return nil
}

func (m *GetChainsResponse) validateChains(formats strfmt.Registry) error {

	if err := validate.Required("chains", "body", m.Chains); err != nil {
		return err
	}

	for i := 0; i < len(m.Chains); i++ {
		if m.Chains[i] == nil {
			continue
		}

		if err := m.Chains[i].Validate(formats); err != nil {
			if ve, ok := err.(*errors.Validation); ok {
				return ve.ValidateName("chains" + "." + strconv.Itoa(i))
			} else if ce, ok := err.(*errors.CompositeError); ok {
				return ce.ValidateName("chains" + "." + strconv.Itoa(i))
			}
			return err
		}
	}

	return nil
}
