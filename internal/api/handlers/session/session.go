package session

import (
	"github.com/chapool/web3connect/internal/api"
	"github.com/chapool/web3connect/internal/types"
	"github.com/chapool/web3connect/internal/wallet"
	"github.com/chapool/web3connect/internal/wallet/core"
	"github.com/go-openapi/swag"
)

func sessionResponse(s *api.Server, err error) *types.SessionResponse {
	if err == nil {
		err = s.Wallet.LastError()
	}

	return &types.SessionResponse{
		User:        wallet.UserToTypes(s.Wallet.User()),
		State:       swag.String(string(s.Wallet.State())),
		UserInfo:    s.Wallet.UserInfo().ToTypes(),
		AuthMethods: wallet.AuthMethodsToTypes(s.Wallet.AuthMethods()),
		Error:       string(core.KindOf(err)),
	}
}
