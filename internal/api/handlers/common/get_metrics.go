package common

import (
	"github.com/chapool/web3connect/internal/api"
	"github.com/labstack/echo/v4"
)

func GetMetricsRoute(s *api.Server) *echo.Route {
	return s.Router.Root.GET(s.Config.Metrics.Path, echo.WrapHandler(s.Metrics.Handler()))
}
