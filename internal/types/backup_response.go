package types

import (
	"github.com/go-openapi/errors"
	"github.com/go-openapi/strfmt"
	"github.com/go-openapi/swag"
	"github.com/go-openapi/validate"
)

// BackupResponse reports the backup status and the artifact written, if any.
type BackupResponse struct {

	// Address the artifact belongs to
	Address string `json:"address,omitempty"`

	// Artifact id
	// Format: uuid
	ID strfmt.UUID `json:"id,omitempty"`

	// Where the artifact was written
	Location string `json:"location,omitempty"`

	// Artifact encoded for a QR code
	QR string `json:"qr,omitempty"`

	// Backup status after the request
	// Required: true
	Status *BackupStatus `json:"status"`
}

// Validate validates this backup response
func (m *BackupResponse) Validate(formats strfmt.Registry) error {
	var res []error

	if err := m.validateID(formats); err != nil {
		res = append(res, err)
	}

	if err := m.validateStatus(formats); err != nil {
		res = append(res, err)
	}

	if len(res) > 0 {
		return errors.CompositeValidationError(res...)
	}
	return nil
}

func (m *BackupResponse) validateID(formats strfmt.Registry) error {
	if swag.IsZero(m.ID) {
		return nil
	}

	if err := validate.FormatOf("id", "body", "uuid", m.ID.String(), formats); err != nil {
		return err
	}

	return nil
}

func (m *BackupResponse) validateStatus(formats strfmt.Registry) error {

	if err := validate.Required("status", "body", m.Status); err != nil {
		return err
	}

	if err := m.Status.Validate(formats); err != nil {
		if ve, ok := err.(*errors.Validation); ok {
			return ve.ValidateName("status")
		} else if ce, ok := err.(*errors.CompositeError); ok {
			return ce.ValidateName("status")
		}
		return err
	}

	return nil
}
