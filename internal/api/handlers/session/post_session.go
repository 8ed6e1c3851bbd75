package session

import (
	"net/http"

	"github.com/chapool/web3connect/internal/api"
	"github.com/chapool/web3connect/internal/auth"
	"github.com/chapool/web3connect/internal/types"
	"github.com/chapool/web3connect/internal/util"
	"github.com/chapool/web3connect/internal/wallet/core"
	"github.com/go-openapi/swag"
	"github.com/labstack/echo/v4"
)

func PostSessionRoute(s *api.Server) *echo.Route {
	return s.Router.APIV1.POST("/session", postSessionHandler(s))
}

// postSessionHandler signs a user in and lets the wallet try a silent unlock.
// A failed unlock does not fail the sign-in, its kind is reported in the body.
func postSessionHandler(s *api.Server) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		log := util.LogFromContext(ctx)

		var body types.PostSessionPayload
		if err := util.BindAndValidateBody(c, &body); err != nil {
			return err
		}

		method := auth.Method(swag.StringValue(body.Method))

		var (
			user *auth.User
			err  error
		)
		if method == auth.MethodAnonymous {
			user, err = s.Identity.SignInAnonymously(ctx)
		} else {
			user, err = s.Identity.SignIn(ctx, body.UID, method)
		}
		if err != nil {
			log.Debug().Err(err).Str("method", method.String()).Msg("Sign-in rejected")
			return echo.NewHTTPError(http.StatusForbidden, err.Error())
		}

		initErr := s.Wallet.HandleIdentityChange(ctx, user)
		if initErr != nil {
			log.Debug().Err(initErr).Str("kind", string(core.KindOf(initErr))).Msg("Silent wallet initialization failed")
		}

		return util.ValidateAndReturn(c, http.StatusOK, sessionResponse(s, initErr))
	}
}
