package wallet

import (
	"net/http"

	"github.com/chapool/web3connect/internal/api"
	"github.com/chapool/web3connect/internal/types"
	"github.com/chapool/web3connect/internal/util"
	"github.com/chapool/web3connect/internal/wallet"
	"github.com/labstack/echo/v4"
)

func GetChainsRoute(s *api.Server) *echo.Route {
	return s.Router.APIV1.GET("/chains", getChainsHandler(s))
}

func getChainsHandler(s *api.Server) echo.HandlerFunc {
	return func(c echo.Context) error {
		chains := s.Chains.ListChains()

		chainItems := make([]*types.ChainItem, 0, len(chains))
		for _, chain := range chains {
			chainItems = append(chainItems, wallet.ChainToTypes(chain))
		}

		return util.ValidateAndReturn(c, http.StatusOK, &types.GetChainsResponse{Chains: chainItems})
	}
}
