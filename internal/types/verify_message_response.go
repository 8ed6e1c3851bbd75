package types

import (
	"github.com/go-openapi/errors"
	"github.com/go-openapi/strfmt"
	"github.com/go-openapi/validate"
)

// VerifyMessageResponse tells whether a signature matches the active wallet.
type VerifyMessageResponse struct {

	// Required: true
	Valid *bool `json:"valid"`
}

// Validate validates this verify message response
func (m *VerifyMessageResponse) Validate(formats strfmt.Registry) error {
	var res []error

	if err := validate.Required("valid", "body", m.Valid); err != nil {
		res = append(res, err)
	}

	if len(res) > 0 {
		return errors.CompositeValidationError(res...)
	}
	return nil
}
