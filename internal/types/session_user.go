package types

import (
	"github.com/go-openapi/errors"
	"github.com/go-openapi/strfmt"
	"github.com/go-openapi/swag"
	"github.com/go-openapi/validate"
)

// SessionUser is the identity of the signed in user.
type SessionUser struct {

	// Whether the user signed in anonymously
	IsAnonymous bool `json:"isAnonymous"`

	// Sign-in method
	// Enum: ["google","email-link","anonymous","wallet"]
	Method string `json:"method,omitempty"`

	// Stable user id
	// Required: true
	UID *string `json:"uid"`
}

// Validate validates this session user
func (m *SessionUser) Validate(formats strfmt.Registry) error {
	var res []error

	if err := validate.Required("uid", "body", m.UID); err != nil {
		res = append(res, err)
	}

	if err := m.validateMethod(formats); err != nil {
		res = append(res, err)
	}

	if len(res) > 0 {
		return errors.CompositeValidationError(res...)
	}
	return nil
}

func (m *SessionUser) validateMethod(formats strfmt.Registry) error {
	if swag.IsZero(m.Method) {
		return nil
	}

	if err := validateAuthMethodEnum("method", "body", m.Method); err != nil {
		return err
	}

	return nil
}
