package types

import (
	"strconv"

	"github.com/go-openapi/errors"
	"github.com/go-openapi/strfmt"
	"github.com/go-openapi/validate"
)

// GetWalletsResponse lists the wallets of the session.
type GetWalletsResponse struct {

	// Required: true
	Wallets []*WalletItem `json:"wallets"`
}

// Validate validates this get wallets response
func (m *GetWalletsResponse) Validate(formats strfmt.Registry) error {
	var res []error

	if err := m.validateWallets(formats); err != nil {
		res = append(res, err)
	}

	if len(res) > 0 {
		return errors.CompositeValidationError(res...)
	}
	return nil
}

func (m *GetWalletsResponse) validateWallets(formats strfmt.Registry) error {

	if err := validate.Required("wallets", "body", m.Wallets); err != nil {
		return err
	}

	for i := 0; i < len(m.Wallets); i++ {
		if m.Wallets[i] == nil {
			continue
		}

		if err := m.Wallets[i].Validate(formats); err != nil {
			if ve, ok := err.(*errors.Validation); ok {
				return ve.ValidateName("wallets" + "." + strconv.Itoa(i))
			} else if ce, ok := err.(*errors.CompositeError); ok {
				return ce.ValidateName("wallets" + "." + strconv.Itoa(i))
			}
			return err
		}
	}

	return nil
}
