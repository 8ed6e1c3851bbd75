package types

import (
	"github.com/go-openapi/errors"
	"github.com/go-openapi/strfmt"
	"github.com/go-openapi/validate"
)

// PostVerifyMessagePayload checks a signature against the active wallet.
type PostVerifyMessagePayload struct {

	// Signed message
	// Required: true
	Message *string `json:"message"`

	// Signature in the encoding of the active chain family
	// Required: true
	// Min Length: 1
	Signature *string `json:"signature"`
}

// Validate validates this post verify message payload
func (m *PostVerifyMessagePayload) Validate(formats strfmt.Registry) error {
	var res []error

	if err := validate.Required("message", "body", m.Message); err != nil {
		res = append(res, err)
	}

	if err := m.validateSignature(formats); err != nil {
		res = append(res, err)
	}

	if len(res) > 0 {
		return errors.CompositeValidationError(res...)
	}
	return nil
}

func (m *PostVerifyMessagePayload) validateSignature(formats strfmt.Registry) error {

	if err := validate.Required("signature", "body", m.Signature); err != nil {
		return err
	}

	if err := validate.MinLength("signature", "body", *m.Signature, 1); err != nil {
		return err
	}

	return nil
}
