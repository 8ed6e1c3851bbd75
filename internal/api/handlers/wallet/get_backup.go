package wallet

import (
	"net/http"
	"time"

	"github.com/chapool/web3connect/internal/api"
	"github.com/chapool/web3connect/internal/util"
	"github.com/labstack/echo/v4"
)

func GetBackupRoute(s *api.Server) *echo.Route {
	return s.Router.APIV1.GET("/backup", getBackupHandler(s))
}

func getBackupHandler(s *api.Server) echo.HandlerFunc {
	return func(c echo.Context) error {
		status, err := s.Wallet.BackupStatus(c.Request().Context(), time.Now())
		if err != nil {
			return err
		}

		return util.ValidateAndReturn(c, http.StatusOK, status.ToTypes())
	}
}
