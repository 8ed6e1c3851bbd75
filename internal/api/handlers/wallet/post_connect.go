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

func PostConnectRoute(s *api.Server) *echo.Route {
	return s.Router.APIV1.POST("/connect", postConnectHandler(s))
}

// postConnectHandler unlocks, mints or imports the wallet of the signed in
// user with the submitted password.
func postConnectHandler(s *api.Server) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		log := util.LogFromContext(ctx)

		var body types.PostConnectPayload
		if err := util.BindAndValidateBody(c, &body); err != nil {
			return err
		}

		info, err := s.Wallet.Connect(ctx, body.Password, wallet.ConnectChoiceFromTypes(&body))
		if err != nil {
			log.Debug().Err(err).Str("kind", string(core.KindOf(err))).Msg("Failed to connect wallet")
			return err
		}

		return util.ValidateAndReturn(c, http.StatusOK, info.ToTypes())
	}
}
