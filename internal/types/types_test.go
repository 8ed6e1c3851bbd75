package types_test

import (
	"strings"
	"testing"

	"github.com/chapool/web3connect/internal/types"
	"github.com/go-openapi/errors"
	"github.com/go-openapi/strfmt"
	"github.com/go-openapi/swag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validationNames(t *testing.T, err error) []string {
	t.Helper()

	var compositeErr *errors.CompositeError
	require.ErrorAs(t, err, &compositeErr)

	var names []string
	var walk func(ce *errors.CompositeError)
	walk = func(ce *errors.CompositeError) {
		for _, e := range ce.Errors {
			switch ee := e.(type) {
			case *errors.CompositeError:
				walk(ee)
			case *errors.Validation:
				names = append(names, ee.Name)
			}
		}
	}
	walk(compositeErr)

	return names
}

func TestPostSessionPayloadValidate(t *testing.T) {
	tests := []struct {
		name    string
		payload types.PostSessionPayload
		invalid []string
	}{
		{"google", types.PostSessionPayload{UID: "user-1", Method: swag.String(types.AuthMethodGoogle)}, nil},
		{"anonymous without uid", types.PostSessionPayload{Method: swag.String(types.AuthMethodAnonymous)}, nil},
		{"missing uid", types.PostSessionPayload{Method: swag.String(types.AuthMethodEmailLink)}, []string{"uid"}},
		{"missing method", types.PostSessionPayload{}, []string{"method", "uid"}},
		{"unknown method", types.PostSessionPayload{UID: "user-1", Method: swag.String("carrier-pigeon")}, []string{"method"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.payload.Validate(strfmt.Default)
			if tt.invalid == nil {
				require.NoError(t, err)
				return
			}
			assert.Equal(t, tt.invalid, validationNames(t, err))
		})
	}
}

func TestPostConnectPayloadValidate(t *testing.T) {
	require.NoError(t, (&types.PostConnectPayload{}).Validate(strfmt.Default))
	require.NoError(t, (&types.PostConnectPayload{Password: "correcthorse", WalletType: types.WalletTypeImportSeed, ChainID: 1}).Validate(strfmt.Default))

	err := (&types.PostConnectPayload{WalletType: "smoke-signal", ChainID: -1}).Validate(strfmt.Default)
	assert.ElementsMatch(t, []string{"chainId", "walletType"}, validationNames(t, err))

	err = (&types.PostConnectPayload{Path: "m" + strings.Repeat("/0'", 50)}).Validate(strfmt.Default)
	assert.Equal(t, []string{"path"}, validationNames(t, err))
}

func TestPostBackupPayloadValidate(t *testing.T) {
	require.NoError(t, (&types.PostBackupPayload{}).Validate(strfmt.Default))
	require.NoError(t, (&types.PostBackupPayload{Skip: true}).Validate(strfmt.Default))
	require.NoError(t, (&types.PostBackupPayload{WithEncryption: true}).Validate(strfmt.Default))

	err := (&types.PostBackupPayload{Skip: true, WithEncryption: true}).Validate(strfmt.Default)
	assert.Equal(t, []string{"withEncryption"}, validationNames(t, err))
}

func TestPostSwitchNetworkPayloadValidate(t *testing.T) {
	require.NoError(t, (&types.PostSwitchNetworkPayload{ChainID: swag.Int64(137)}).Validate(strfmt.Default))

	err := (&types.PostSwitchNetworkPayload{}).Validate(strfmt.Default)
	assert.Equal(t, []string{"chainId"}, validationNames(t, err))

	err = (&types.PostSwitchNetworkPayload{ChainID: swag.Int64(0)}).Validate(strfmt.Default)
	assert.Equal(t, []string{"chainId"}, validationNames(t, err))
}

func TestResponsesValidateNested(t *testing.T) {
	session := &types.SessionResponse{
		State:       swag.String(types.SessionStateWalletReady),
		AuthMethods: []string{types.AuthMethodGoogle},
		User:        &types.SessionUser{UID: swag.String("user-1"), Method: types.AuthMethodGoogle},
		UserInfo: &types.UserInfo{
			UID:     swag.String("user-1"),
			Address: swag.String("0x9858EfFD232B4033E47d90003D41EC34EcaEda94"),
			ChainID: swag.Int64(1),
			Family:  swag.String(types.FamilyEvm),
			DID:     swag.String("did:ethr:0x9858EfFD232B4033E47d90003D41EC34EcaEda94"),
		},
	}
	require.NoError(t, session.Validate(strfmt.Default))

	session.UserInfo.Family = swag.String("lisp")
	err := session.Validate(strfmt.Default)
	assert.Equal(t, []string{"userInfo.family"}, validationNames(t, err))

	session.UserInfo = nil
	session.State = swag.String("dreaming")
	err = session.Validate(strfmt.Default)
	assert.Equal(t, []string{"state"}, validationNames(t, err))

	wallets := &types.GetWalletsResponse{Wallets: []*types.WalletItem{
		{Address: swag.String("bc1q"), ChainID: swag.Int64(128), Family: swag.String(types.FamilyUtxo)},
		{Address: swag.String("So1"), ChainID: swag.Int64(501)},
	}}
	err = wallets.Validate(strfmt.Default)
	assert.Equal(t, []string{"wallets.1.family"}, validationNames(t, err))

	backup := &types.BackupResponse{ID: "not-a-uuid", Status: &types.BackupStatus{}}
	err = backup.Validate(strfmt.Default)
	assert.Equal(t, []string{"id"}, validationNames(t, err))

	backup.ID = "c9f1b3a2-4d5e-4f60-8a7b-9c0d1e2f3a4b"
	require.NoError(t, backup.Validate(strfmt.Default))
}
