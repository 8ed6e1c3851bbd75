package middleware

import (
	"context"
	"time"

	"github.com/chapool/web3connect/internal/util"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type LoggerConfig struct {
	Skipper middleware.Skipper
	// Level of the per-request summary line.
	Level zerolog.Level
}

var DefaultLoggerConfig = LoggerConfig{
	Skipper: middleware.DefaultSkipper,
	Level:   zerolog.DebugLevel,
}

func Logger() echo.MiddlewareFunc {
	return LoggerWithConfig(DefaultLoggerConfig)
}

// LoggerWithConfig attaches a request scoped zerolog logger and the request
// id to the request context and logs one line per request. Request bodies
// are never logged, they carry passwords and seed phrases.
func LoggerWithConfig(config LoggerConfig) echo.MiddlewareFunc {
	if config.Skipper == nil {
		config.Skipper = DefaultLoggerConfig.Skipper
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if config.Skipper(c) {
				return next(c)
			}

			req := c.Request()
			res := c.Response()

			id := req.Header.Get(echo.HeaderXRequestID)
			if id == "" {
				id = res.Header().Get(echo.HeaderXRequestID)
			}

			l := log.With().
				Str("id", id).
				Str("method", req.Method).
				Str("path", req.URL.Path).
				Logger()

			ctx := context.WithValue(req.Context(), util.CTXKeyRequestID, id)
			ctx = util.WithLogger(ctx, l)
			c.SetRequest(req.WithContext(ctx))

			start := time.Now()
			err := next(c)
			if err != nil {
				c.Error(err)
			}

			l.WithLevel(config.Level).
				Str("route", c.Path()).
				Int("status", res.Status).
				Int64("bytes_out", res.Size).
				Dur("duration_ms", time.Since(start)).
				Msg("Request handled")

			return nil
		}
	}
}
