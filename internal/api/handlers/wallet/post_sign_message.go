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

func PostSignMessageRoute(s *api.Server) *echo.Route {
	return s.Router.APIV1.POST("/sign-message", postSignMessageHandler(s))
}

// postSignMessageHandler signs with the active wallet. The signature is
// encoded the way its chain family publishes signatures.
func postSignMessageHandler(s *api.Server) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()

		var body types.PostSignMessagePayload
		if err := util.BindAndValidateBody(c, &body); err != nil {
			return err
		}

		w := s.Wallet.Active()
		if w == nil {
			return core.ErrNotReady
		}

		sig, err := w.SignMessage(ctx, []byte(swag.StringValue(body.Message)))
		if err != nil {
			util.LogFromContext(ctx).Debug().Err(err).Str("family", string(w.Family())).Msg("Failed to sign message")
			return err
		}

		return util.ValidateAndReturn(c, http.StatusOK, &types.SignMessageResponse{
			Address:   swag.String(w.Address()),
			ChainID:   swag.Int64(w.ChainID()),
			Signature: swag.String(core.EncodeSignature(w.Family(), sig)),
		})
	}
}
