package types

import (
	"github.com/go-openapi/errors"
	"github.com/go-openapi/strfmt"
	"github.com/go-openapi/swag"
	"github.com/go-openapi/validate"
)

// PostSessionPayload signs a user in.
type PostSessionPayload struct {

	// Sign-in method
	// Required: true
	// Enum: ["google","email-link","anonymous","wallet"]
	Method *string `json:"method"`

	// Stable user id, required unless the method is anonymous
	UID string `json:"uid,omitempty"`
}

// Validate validates this post session payload
func (m *PostSessionPayload) Validate(formats strfmt.Registry) error {
	var res []error

	if err := m.validateMethod(formats); err != nil {
		res = append(res, err)
	}

	if err := m.validateUID(formats); err != nil {
		res = append(res, err)
	}

	if len(res) > 0 {
		return errors.CompositeValidationError(res...)
	}
	return nil
}

func (m *PostSessionPayload) validateMethod(formats strfmt.Registry) error {

	if err := validate.Required("method", "body", m.Method); err != nil {
		return err
	}

	if err := validateAuthMethodEnum("method", "body", *m.Method); err != nil {
		return err
	}

	return nil
}

func (m *PostSessionPayload) validateUID(formats strfmt.Registry) error {
	if swag.StringValue(m.Method) == AuthMethodAnonymous {
		return nil
	}

	if err := validate.RequiredString("uid", "body", m.UID); err != nil {
		return err
	}

	return nil
}
