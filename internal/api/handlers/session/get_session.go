package session

import (
	"net/http"

	"github.com/chapool/web3connect/internal/api"
	"github.com/chapool/web3connect/internal/util"
	"github.com/labstack/echo/v4"
)

func GetSessionRoute(s *api.Server) *echo.Route {
	return s.Router.APIV1.GET("/session", getSessionHandler(s))
}

func getSessionHandler(s *api.Server) echo.HandlerFunc {
	return func(c echo.Context) error {
		return util.ValidateAndReturn(c, http.StatusOK, sessionResponse(s, nil))
	}
}
