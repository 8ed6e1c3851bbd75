package router

import (
	"net/http"

	"github.com/chapool/web3connect/internal/api"
	"github.com/chapool/web3connect/internal/api/handlers"
	"github.com/chapool/web3connect/internal/api/httperrors"
	"github.com/chapool/web3connect/internal/api/middleware"
	"github.com/chapool/web3connect/internal/util"
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

func Init(s *api.Server) {
	s.Echo = echo.New()

	s.Echo.Debug = s.Config.Echo.Debug
	s.Echo.HideBanner = true
	s.Echo.HidePort = true
	s.Echo.HTTPErrorHandler = HTTPErrorHandler

	if s.Config.Echo.EnableTrailingSlashMiddleware {
		s.Echo.Pre(echoMiddleware.RemoveTrailingSlash())
	} else {
		log.Warn().Msg("Disabling trailing slash middleware due to environment config")
	}

	if s.Config.Echo.EnableRecoverMiddleware {
		s.Echo.Use(echoMiddleware.Recover())
	} else {
		log.Warn().Msg("Disabling recover middleware due to environment config")
	}

	if s.Config.Echo.EnableRequestIDMiddleware {
		s.Echo.Use(echoMiddleware.RequestID())
	} else {
		log.Warn().Msg("Disabling request ID middleware due to environment config")
	}

	if s.Config.Echo.EnableLoggerMiddleware {
		s.Echo.Use(middleware.LoggerWithConfig(middleware.LoggerConfig{
			Level: s.Config.Logger.RequestLevel,
		}))
	} else {
		log.Warn().Msg("Disabling logger middleware due to environment config")
	}

	if s.Config.Echo.EnableSecureMiddleware {
		s.Echo.Use(echoMiddleware.Secure())
	} else {
		log.Warn().Msg("Disabling secure middleware due to environment config")
	}

	if s.Config.Echo.EnableCORSMiddleware {
		s.Echo.Use(echoMiddleware.CORS())
	} else {
		log.Warn().Msg("Disabling CORS middleware due to environment config")
	}

	if s.Config.Echo.BodyLimit != "" {
		s.Echo.Use(echoMiddleware.BodyLimit(s.Config.Echo.BodyLimit))
	}

	if s.Config.Metrics.Enabled {
		s.Echo.Use(s.Metrics.Middleware())
	}

	s.Router = &api.Router{
		Routes:     nil, // will be populated by handlers.AttachAllRoutes(s)
		Root:       s.Echo.Group(""),
		Management: s.Echo.Group("/-"),
		APIV1:      s.Echo.Group("/api/v1"),
	}

	handlers.AttachAllRoutes(s)
}

// HTTPErrorHandler renders every error as a httperrors.HTTPError body, with
// the violations attached when a payload failed validation.
func HTTPErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	httpErr := httperrors.FromError(err)

	l := util.LogFromEchoContext(c)
	if httpErr.Status >= http.StatusInternalServerError {
		l.Error().Err(err).Int("status", httpErr.Status).Msg("Request failed")
	} else {
		l.Debug().Err(err).Int("status", httpErr.Status).Str("code", httpErr.Code).Msg("Request rejected")
	}

	if id, ok := util.RequestIDFromContext(c.Request().Context()); ok {
		c.Response().Header().Set(echo.HeaderXRequestID, id)
	}

	var body interface{} = httpErr
	var valErr *httperrors.HTTPValidationError
	if errors.As(err, &valErr) {
		body = valErr
	}

	var writeErr error
	if c.Request().Method == http.MethodHead {
		writeErr = c.NoContent(httpErr.Status)
	} else {
		writeErr = c.JSON(httpErr.Status, body)
	}
	if writeErr != nil {
		l.Error().Err(writeErr).Msg("Failed to write error response")
	}
}
