package types

import (
	"github.com/go-openapi/errors"
	"github.com/go-openapi/strfmt"
	"github.com/go-openapi/swag"
	"github.com/go-openapi/validate"
)

const (
	WalletTypeLocal            string = ""
	WalletTypeExternal         string = "external"
	WalletTypeImportPrivateKey string = "import-private-key"
	WalletTypeImportSeed       string = "import-seed"
)

var postConnectPayloadWalletTypeEnum = []interface{}{WalletTypeExternal, WalletTypeImportPrivateKey, WalletTypeImportSeed}

// PostConnectPayload unlocks, mints or imports the wallet of the signed in user.
type PostConnectPayload struct {

	// Chain to activate, the configured default when 0
	// Minimum: 0
	ChainID int64 `json:"chainId,omitempty"`

	// BIP-39 mnemonic for import-seed
	// Max Length: 1024
	Mnemonic string `json:"mnemonic,omitempty"`

	// Password of the wallet, not used for external wallets
	// Max Length: 1024
	Password string `json:"password,omitempty"`

	// Derivation path overriding the chain default
	// Max Length: 128
	Path string `json:"path,omitempty"`

	// Private key for import-private-key
	// Max Length: 256
	PrivateKey string `json:"privateKey,omitempty"`

	// Wallet type, a local wallet when empty
	// Enum: ["external","import-private-key","import-seed"]
	WalletType string `json:"walletType,omitempty"`
}

// Validate validates this post connect payload
func (m *PostConnectPayload) Validate(formats strfmt.Registry) error {
	var res []error

	if err := m.validateChainID(formats); err != nil {
		res = append(res, err)
	}

	if err := m.validateLengths(formats); err != nil {
		res = append(res, err)
	}

	if err := m.validateWalletType(formats); err != nil {
		res = append(res, err)
	}

	if len(res) > 0 {
		return errors.CompositeValidationError(res...)
	}
	return nil
}

func (m *PostConnectPayload) validateChainID(formats strfmt.Registry) error {
	if swag.IsZero(m.ChainID) {
		return nil
	}

	if err := validate.MinimumInt("chainId", "body", m.ChainID, 0, false); err != nil {
		return err
	}

	return nil
}

func (m *PostConnectPayload) validateLengths(formats strfmt.Registry) error {
	var res []error

	for _, field := range []struct {
		name  string
		value string
		max   int64
	}{
		{"mnemonic", m.Mnemonic, 1024},
		{"password", m.Password, 1024},
		{"path", m.Path, 128},
		{"privateKey", m.PrivateKey, 256},
	} {
		if err := validate.MaxLength(field.name, "body", field.value, field.max); err != nil {
			res = append(res, err)
		}
	}

	if len(res) > 0 {
		return errors.CompositeValidationError(res...)
	}
	return nil
}

func (m *PostConnectPayload) validateWalletType(formats strfmt.Registry) error {
	if swag.IsZero(m.WalletType) {
		return nil
	}

	if err := validate.EnumCase("walletType", "body", m.WalletType, postConnectPayloadWalletTypeEnum, true); err != nil {
		return err
	}

	return nil
}
