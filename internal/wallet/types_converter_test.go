package wallet_test

import (
	"testing"
	"time"

	"github.com/chapool/web3connect/internal/auth"
	"github.com/chapool/web3connect/internal/types"
	"github.com/chapool/web3connect/internal/wallet"
	"github.com/chapool/web3connect/internal/wallet/chain"
	"github.com/chapool/web3connect/internal/wallet/core"
	"github.com/go-openapi/strfmt"
	"github.com/go-openapi/swag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserInfoToTypes(t *testing.T) {
	var nilInfo *wallet.UserInfo
	assert.Nil(t, nilInfo.ToTypes())

	info := &wallet.UserInfo{
		UID:           "user-1",
		Address:       "bc1qcr8te4kr609gcawutmrza0j4xv80jy8z306fyu",
		PublicKey:     "0330d54fd0dd420a6e5f8d3624f5f3482cae350f79d5f0753bf5beef9c2d91af3c",
		ChainID:       chain.IDBitcoin,
		Family:        core.FamilyUTXO,
		DID:           "did:pkh:bip122:000000000019d6689c085ae165831e93:bc1qcr8te4kr609gcawutmrza0j4xv80jy8z306fyu",
		BackupEnabled: true,
	}

	res := info.ToTypes()
	require.NoError(t, res.Validate(strfmt.Default))
	assert.Equal(t, info.Address, swag.StringValue(res.Address))
	assert.Equal(t, chain.IDBitcoin, swag.Int64Value(res.ChainID))
	assert.Equal(t, types.FamilyUtxo, swag.StringValue(res.Family))
	assert.Equal(t, info.PublicKey, res.PublicKey)
	assert.True(t, res.BackupEnabled)
}

func TestBackupStatusToTypes(t *testing.T) {
	skippedAt := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	status := &wallet.BackupStatus{Available: true, Pending: true, SkippedAt: &skippedAt}

	res := status.ToTypes()
	require.NoError(t, res.Validate(strfmt.Default))
	require.NotNil(t, res.SkippedAt)
	assert.True(t, time.Time(*res.SkippedAt).Equal(skippedAt))
	assert.False(t, res.ShouldPrompt)

	res = (&wallet.BackupStatus{Available: true}).ToTypes()
	assert.Nil(t, res.SkippedAt)
}

func TestConnectChoiceFromTypes(t *testing.T) {
	choice := wallet.ConnectChoiceFromTypes(&types.PostConnectPayload{
		Password:   password,
		WalletType: types.WalletTypeImportSeed,
		Mnemonic:   abandonMnemonic,
		ChainID:    chain.IDSolana,
		Path:       "m/44'/501'/1'/0'",
	})

	assert.Equal(t, wallet.WalletTypeImportSeed, choice.WalletType)
	assert.True(t, choice.WalletType.IsImport())
	assert.Equal(t, abandonMnemonic, choice.Mnemonic)
	assert.Equal(t, chain.IDSolana, choice.ChainID)
	assert.Equal(t, "m/44'/501'/1'/0'", choice.Path)

	assert.Equal(t, wallet.WalletTypeLocal, wallet.ConnectChoiceFromTypes(&types.PostConnectPayload{}).WalletType)
}

func TestSessionTypes(t *testing.T) {
	assert.Nil(t, wallet.UserToTypes(nil))

	user := wallet.UserToTypes(&auth.User{UID: "anon", IsAnonymous: true, Method: auth.MethodAnonymous})
	require.NoError(t, user.Validate(strfmt.Default))
	assert.Equal(t, "anon", swag.StringValue(user.UID))
	assert.Equal(t, types.AuthMethodAnonymous, user.Method)

	assert.Equal(t, []string{types.AuthMethodGoogle, types.AuthMethodWallet}, wallet.AuthMethodsToTypes([]auth.Method{auth.MethodGoogle, auth.MethodWallet}))
	assert.Empty(t, wallet.AuthMethodsToTypes(nil))

	svc, err := chain.NewService(chain.DefaultChains())
	require.NoError(t, err)
	for _, c := range svc.ListChains() {
		item := wallet.ChainToTypes(c)
		require.NoError(t, item.Validate(strfmt.Default), c.Name)
		assert.Equal(t, c.Testnet, item.Testnet)
	}
}
