package types

import (
	"github.com/go-openapi/errors"
	"github.com/go-openapi/strfmt"
	"github.com/go-openapi/validate"
)

// BackupStatus tells whether the user should be prompted to back up the seed.
type BackupStatus struct {

	// Whether a backup can be written for the active wallet
	Available bool `json:"available"`

	// Whether no backup has been written yet
	Pending bool `json:"pending"`

	// Whether the prompt is due
	ShouldPrompt bool `json:"shouldPrompt"`

	// Time the prompt was last postponed
	// Format: date-time
	SkippedAt *strfmt.DateTime `json:"skippedAt,omitempty"`
}

// Validate validates this backup status
func (m *BackupStatus) Validate(formats strfmt.Registry) error {
	var res []error

	if err := m.validateSkippedAt(formats); err != nil {
		res = append(res, err)
	}

	if len(res) > 0 {
		return errors.CompositeValidationError(res...)
	}
	return nil
}

func (m *BackupStatus) validateSkippedAt(formats strfmt.Registry) error {
	if m.SkippedAt == nil {
		return nil
	}

	if err := validate.FormatOf("skippedAt", "body", "date-time", m.SkippedAt.String(), formats); err != nil {
		return err
	}

	return nil
}
