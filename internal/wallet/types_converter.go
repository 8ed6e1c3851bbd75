package wallet

import (
	"github.com/chapool/web3connect/internal/auth"
	"github.com/chapool/web3connect/internal/types"
	"github.com/chapool/web3connect/internal/wallet/chain"
	"github.com/chapool/web3connect/internal/wallet/core"
	"github.com/go-openapi/strfmt"
	"github.com/go-openapi/swag"
)

func (i *UserInfo) ToTypes() *types.UserInfo {
	if i == nil {
		return nil
	}

	return &types.UserInfo{
		UID:           swag.String(i.UID),
		Address:       swag.String(i.Address),
		PublicKey:     i.PublicKey,
		ChainID:       swag.Int64(i.ChainID),
		Family:        swag.String(string(i.Family)),
		DID:           swag.String(i.DID),
		IsExternal:    i.IsExternal,
		BackupEnabled: i.BackupEnabled,
	}
}

func (b *BackupStatus) ToTypes() *types.BackupStatus {
	if b == nil {
		return nil
	}

	res := &types.BackupStatus{
		Available:    b.Available,
		Pending:      b.Pending,
		ShouldPrompt: b.ShouldPrompt,
	}
	if b.SkippedAt != nil {
		skippedAt := strfmt.DateTime(*b.SkippedAt)
		res.SkippedAt = &skippedAt
	}

	return res
}

// ConnectChoiceFromTypes maps the connect payload onto the orchestrator
// options. The payload has been validated, WalletType is one of the known
// types.
func ConnectChoiceFromTypes(p *types.PostConnectPayload) ConnectChoice {
	return ConnectChoice{InitOptions: InitOptions{
		ChainID:    p.ChainID,
		WalletType: WalletType(p.WalletType),
		Mnemonic:   p.Mnemonic,
		PrivateKey: p.PrivateKey,
		Path:       p.Path,
	}}
}

func WalletToTypes(w core.Wallet, active bool) *types.WalletItem {
	return &types.WalletItem{
		Address:    swag.String(w.Address()),
		ChainID:    swag.Int64(w.ChainID()),
		Family:     swag.String(string(w.Family())),
		IsExternal: w.IsExternal(),
		Active:     active,
	}
}

func ChainToTypes(c *chain.Chain) *types.ChainItem {
	return &types.ChainItem{
		ID:      swag.Int64(c.ID),
		Name:    swag.String(c.Name),
		Family:  swag.String(string(c.Family)),
		Testnet: c.Testnet,
	}
}

func UserToTypes(u *auth.User) *types.SessionUser {
	if u == nil {
		return nil
	}

	return &types.SessionUser{
		UID:         swag.String(u.UID),
		IsAnonymous: u.IsAnonymous,
		Method:      string(u.Method),
	}
}

func AuthMethodsToTypes(methods []auth.Method) []string {
	res := make([]string, 0, len(methods))
	for _, m := range methods {
		res = append(res, string(m))
	}
	return res
}
