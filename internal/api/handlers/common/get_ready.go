package common

import (
	"net/http"

	"github.com/chapool/web3connect/internal/api"
	"github.com/chapool/web3connect/internal/wallet/keystore"
	"github.com/labstack/echo/v4"
)

const statusNotReady = 521

func GetReadyRoute(s *api.Server) *echo.Route {
	return s.Router.Management.GET("/ready", getReadyHandler(s))
}

// Readiness check
// This endpoint returns 200 when our Service is ready to serve traffic (i.e. respond to queries).
// Besides the server ready state it checks that the encrypted store can be read.
// Note that /-/ready is typically public, we thus prevent information leakage here and only return `"Ready."`.
func getReadyHandler(s *api.Server) echo.HandlerFunc {
	return func(c echo.Context) error {
		if !s.Ready() {
			return c.String(statusNotReady, "Not ready.")
		}

		if _, err := s.Store.Has(c.Request().Context(), keystore.KeySeedMaterial); err != nil {
			return c.String(statusNotReady, "Not ready.")
		}

		return c.String(http.StatusOK, "Ready.")
	}
}
