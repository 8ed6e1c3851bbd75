package types

import (
	"strconv"

	"github.com/go-openapi/errors"
	"github.com/go-openapi/strfmt"
	"github.com/go-openapi/validate"
)

const (
	SessionStateUnauthenticated       string = "unauthenticated"
	SessionStateAuthenticatedNoWallet string = "authenticated_no_wallet"
	SessionStateWalletReady           string = "wallet_ready"
	SessionStateError                 string = "error"
)

var sessionResponseStateEnum = []interface{}{
	SessionStateUnauthenticated,
	SessionStateAuthenticatedNoWallet,
	SessionStateWalletReady,
	SessionStateError,
}

// SessionResponse describes the current session.
type SessionResponse struct {

	// Sign-in methods offered by the server
	AuthMethods []string `json:"authMethods"`

	// Last session error, set in the error state
	Error string `json:"error,omitempty"`

	// Session state
	// Required: true
	// Enum: ["unauthenticated","authenticated_no_wallet","wallet_ready","error"]
	State *string `json:"state"`

	// Signed in user, null when unauthenticated
	User *SessionUser `json:"user"`

	// Active wallet, set once the wallet is ready
	UserInfo *UserInfo `json:"userInfo,omitempty"`
}

// Validate validates this session response
func (m *SessionResponse) Validate(formats strfmt.Registry) error {
	var res []error

	if err := m.validateAuthMethods(formats); err != nil {
		res = append(res, err)
	}

	if err := m.validateState(formats); err != nil {
		res = append(res, err)
	}

	if err := m.validateUser(formats); err != nil {
		res = append(res, err)
	}

	if err := m.validateUserInfo(formats); err != nil {
		res = append(res, err)
	}

	if len(res) > 0 {
		return errors.CompositeValidationError(res...)
	}
	return nil
}

func (m *SessionResponse) validateAuthMethods(formats strfmt.Registry) error {
	for i := 0; i < len(m.AuthMethods); i++ {
		if err := validateAuthMethodEnum("authMethods"+"."+strconv.Itoa(i), "body", m.AuthMethods[i]); err != nil {
			return err
		}
	}

	return nil
}

func (m *SessionResponse) validateState(formats strfmt.Registry) error {

	if err := validate.Required("state", "body", m.State); err != nil {
		return err
	}

	if err := validate.EnumCase("state", "body", *m.State, sessionResponseStateEnum, true); err != nil {
		return err
	}

	return nil
}

func (m *SessionResponse) validateUser(formats strfmt.Registry) error {
	if m.User == nil {
		return nil
	}

	if err := m.User.Validate(formats); err != nil {
		if ve, ok := err.(*errors.Validation); ok {
			return ve.ValidateName("user")
		} else if ce, ok := err.(*errors.CompositeError); ok {
			return ce.ValidateName("user")
		}
		return err
	}

	return nil
}

func (m *SessionResponse) validateUserInfo(formats strfmt.Registry) error {
	if m.UserInfo == nil {
		return nil
	}

	if err := m.UserInfo.Validate(formats); err != nil {
		if ve, ok := err.(*errors.Validation); ok {
			return ve.ValidateName("userInfo")
		} else if ce, ok := err.(*errors.CompositeError); ok {
			return ce.ValidateName("userInfo")
		}
		return err
	}

	return nil
}
