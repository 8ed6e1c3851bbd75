package wallet

import (
	"net/http"

	"github.com/chapool/web3connect/internal/api"
	"github.com/chapool/web3connect/internal/types"
	"github.com/chapool/web3connect/internal/util"
	"github.com/chapool/web3connect/internal/wallet"
	"github.com/chapool/web3connect/internal/wallet/core"
	"github.com/labstack/echo/v4"
)

func GetWalletsRoute(s *api.Server) *echo.Route {
	return s.Router.APIV1.GET("/wallets", getWalletsHandler(s))
}

func getWalletsHandler(s *api.Server) echo.HandlerFunc {
	return func(c echo.Context) error {
		if s.Wallet.State() != wallet.StateWalletReady {
			return core.ErrNotReady
		}

		active := s.Wallet.Active()
		wallets := s.Wallet.Wallets()

		items := make([]*types.WalletItem, 0, len(wallets))
		for _, w := range wallets {
			items = append(items, wallet.WalletToTypes(w, w == active))
		}

		return util.ValidateAndReturn(c, http.StatusOK, &types.GetWalletsResponse{Wallets: items})
	}
}
