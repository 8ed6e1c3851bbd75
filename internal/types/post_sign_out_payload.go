package types

import (
	"github.com/go-openapi/strfmt"
)

// PostSignOutPayload ends the session.
type PostSignOutPayload struct {

	// Also wipe the encrypted store of this device
	ClearStorage bool `json:"clearStorage,omitempty"`
}

// Validate validates this post sign out payload
func (m *PostSignOutPayload) Validate(formats strfmt.Registry) error {
	return nil
}
