package session

import (
	"net/http"

	"github.com/chapool/web3connect/internal/api"
	"github.com/chapool/web3connect/internal/util"
	"github.com/chapool/web3connect/internal/wallet/core"
	"github.com/labstack/echo/v4"
)

func GetUserInfoRoute(s *api.Server) *echo.Route {
	return s.Router.APIV1.GET("/userinfo", getUserInfoHandler(s))
}

func getUserInfoHandler(s *api.Server) echo.HandlerFunc {
	return func(c echo.Context) error {
		if s.Wallet.User() == nil {
			return core.ErrNotAuthenticated
		}

		info := s.Wallet.UserInfo()
		if info == nil {
			return core.ErrNotReady
		}

		return util.ValidateAndReturn(c, http.StatusOK, info.ToTypes())
	}
}
