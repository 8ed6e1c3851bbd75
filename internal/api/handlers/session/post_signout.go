package session

import (
	"net/http"

	"github.com/chapool/web3connect/internal/api"
	"github.com/chapool/web3connect/internal/types"
	"github.com/chapool/web3connect/internal/util"
	"github.com/labstack/echo/v4"
)

func PostSignOutRoute(s *api.Server) *echo.Route {
	return s.Router.APIV1.POST("/signout", postSignOutHandler(s))
}

func postSignOutHandler(s *api.Server) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()

		var body types.PostSignOutPayload
		if err := util.BindAndValidateBody(c, &body); err != nil {
			return err
		}

		if err := s.Wallet.SignOut(ctx, body.ClearStorage); err != nil {
			util.LogFromContext(ctx).Error().Err(err).Msg("Failed to sign out")
			return err
		}

		return c.NoContent(http.StatusNoContent)
	}
}
