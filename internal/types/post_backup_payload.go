package types

import (
	"github.com/go-openapi/errors"
	"github.com/go-openapi/strfmt"
	"github.com/go-openapi/validate"
)

// PostBackupPayload writes a backup artifact or postpones the backup prompt.
type PostBackupPayload struct {

	// Postpone the prompt instead of writing an artifact
	Skip bool `json:"skip,omitempty"`

	// Keep the seed sealed under the password, must be false when skipping
	WithEncryption bool `json:"withEncryption,omitempty"`
}

// Validate validates this post backup payload
func (m *PostBackupPayload) Validate(formats strfmt.Registry) error {
	var res []error

	if err := m.validateWithEncryption(formats); err != nil {
		res = append(res, err)
	}

	if len(res) > 0 {
		return errors.CompositeValidationError(res...)
	}
	return nil
}

func (m *PostBackupPayload) validateWithEncryption(formats strfmt.Registry) error {
	if !m.Skip {
		return nil
	}

	if err := validate.EnumCase("withEncryption", "body", m.WithEncryption, []interface{}{false}, true); err != nil {
		return err
	}

	return nil
}
