package wallet

import (
	"net/http"

	"github.com/chapool/web3connect/internal/api"
	"github.com/chapool/web3connect/internal/types"
	"github.com/chapool/web3connect/internal/util"
	"github.com/go-openapi/swag"
	"github.com/labstack/echo/v4"
)

func PostSwitchNetworkRoute(s *api.Server) *echo.Route {
	return s.Router.APIV1.POST("/switch", postSwitchNetworkHandler(s))
}

func postSwitchNetworkHandler(s *api.Server) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()

		var body types.PostSwitchNetworkPayload
		if err := util.BindAndValidateBody(c, &body); err != nil {
			return err
		}

		chainID := swag.Int64Value(body.ChainID)

		info, err := s.Wallet.SwitchNetwork(ctx, chainID)
		if err != nil {
			util.LogFromContext(ctx).Debug().Err(err).Int64("chain_id", chainID).Msg("Failed to switch network")
			return err
		}

		return util.ValidateAndReturn(c, http.StatusOK, info.ToTypes())
	}
}
