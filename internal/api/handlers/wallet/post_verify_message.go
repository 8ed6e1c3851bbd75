package wallet

import (
	"net/http"

	"github.com/chapool/web3connect/internal/api"
	"github.com/chapool/web3connect/internal/types"
	"github.com/chapool/web3connect/internal/util"
	"github.com/chapool/web3connect/internal/wallet/core"
	"github.com/go-openapi/swag"
	"github.com/labstack/echo/v4"
)

func PostVerifyMessageRoute(s *api.Server) *echo.Route {
	return s.Router.APIV1.POST("/verify-message", postVerifyMessageHandler(s))
}

func postVerifyMessageHandler(s *api.Server) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()

		var body types.PostVerifyMessagePayload
		if err := util.BindAndValidateBody(c, &body); err != nil {
			return err
		}

		w := s.Wallet.Active()
		if w == nil {
			return core.ErrNotReady
		}

		sig, err := core.DecodeSignature(w.Family(), swag.StringValue(body.Signature))
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "malformed signature")
		}

		valid, err := w.VerifySignature(ctx, []byte(swag.StringValue(body.Message)), sig)
		if err != nil {
			return err
		}

		return util.ValidateAndReturn(c, http.StatusOK, &types.VerifyMessageResponse{Valid: swag.Bool(valid)})
	}
}
