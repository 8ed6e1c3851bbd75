package handlers

import (
	"github.com/chapool/web3connect/internal/api"
	"github.com/chapool/web3connect/internal/api/handlers/common"
	"github.com/chapool/web3connect/internal/api/handlers/session"
	"github.com/chapool/web3connect/internal/api/handlers/wallet"
	"github.com/labstack/echo/v4"
)

func AttachAllRoutes(s *api.Server) {
	s.Router.Routes = []*echo.Route{
		common.GetReadyRoute(s),
		common.GetVersionRoute(s),
		session.PostSessionRoute(s),
		session.GetSessionRoute(s),
		session.PostSignOutRoute(s),
		session.GetUserInfoRoute(s),
		wallet.PostConnectRoute(s),
		wallet.PostSwitchNetworkRoute(s),
		wallet.GetWalletsRoute(s),
		wallet.GetChainsRoute(s),
		wallet.GetBackupRoute(s),
		wallet.PostBackupRoute(s),
		wallet.PostSignMessageRoute(s),
		wallet.PostVerifyMessageRoute(s),
	}

	if s.Config.Metrics.Enabled {
		s.Router.Routes = append(s.Router.Routes, common.GetMetricsRoute(s))
	}
}
