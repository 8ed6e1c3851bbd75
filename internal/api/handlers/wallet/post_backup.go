package wallet

import (
	"net/http"
	"time"

	"github.com/chapool/web3connect/internal/api"
	"github.com/chapool/web3connect/internal/types"
	"github.com/chapool/web3connect/internal/util"
	"github.com/chapool/web3connect/internal/wallet/keystore"
	"github.com/go-openapi/strfmt"
	"github.com/labstack/echo/v4"
)

func PostBackupRoute(s *api.Server) *echo.Route {
	return s.Router.APIV1.POST("/backup", postBackupHandler(s))
}

// postBackupHandler writes a backup artifact to Wallet.BackupDir, or records
// that the user skipped the prompt.
func postBackupHandler(s *api.Server) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		log := util.LogFromContext(ctx)

		var body types.PostBackupPayload
		if err := util.BindAndValidateBody(c, &body); err != nil {
			return err
		}

		response := &types.BackupResponse{}

		if body.Skip {
			if err := s.Wallet.SkipBackup(ctx, time.Now()); err != nil {
				log.Debug().Err(err).Msg("Failed to skip backup")
				return err
			}
		} else {
			artifact, location, err := s.Wallet.Backup(ctx, body.WithEncryption, keystore.DirSink{Dir: s.Config.Wallet.BackupDir})
			if err != nil {
				log.Debug().Err(err).Bool("encrypted", body.WithEncryption).Msg("Failed to execute backup")
				return err
			}

			response.Location = location
			response.ID = strfmt.UUID(artifact.ID)
			response.Address = artifact.Address
			response.QR = artifact.QR
		}

		status, err := s.Wallet.BackupStatus(ctx, time.Now())
		if err != nil {
			return err
		}
		response.Status = status.ToTypes()

		return util.ValidateAndReturn(c, http.StatusOK, response)
	}
}
