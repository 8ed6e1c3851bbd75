package util

import (
	"context"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type contextKey string

const (
	CTXKeyRequestID contextKey = "request_id"
)

// LogFromContext returns the logger attached to ctx, or the global logger.
func LogFromContext(ctx context.Context) *zerolog.Logger {
	l := log.Ctx(ctx)
	if l.GetLevel() == zerolog.Disabled {
		if ShouldDisableLogger(ctx) {
			return l
		}
		l = &log.Logger
	}
	return l
}

// LogFromEchoContext returns the request scoped logger of c.
func LogFromEchoContext(c echo.Context) *zerolog.Logger {
	return LogFromContext(c.Request().Context())
}

// WithLogger attaches l to ctx.
func WithLogger(ctx context.Context, l zerolog.Logger) context.Context {
	return l.WithContext(ctx)
}

type disableLoggerKey struct{}

// DisableLogger marks ctx so that LogFromContext returns a disabled logger.
func DisableLogger(ctx context.Context, shouldDisable bool) context.Context {
	return context.WithValue(ctx, disableLoggerKey{}, shouldDisable)
}

func ShouldDisableLogger(ctx context.Context) bool {
	s, ok := ctx.Value(disableLoggerKey{}).(bool)
	return ok && s
}

// RequestIDFromContext returns the request id stored by the echo middleware.
func RequestIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(CTXKeyRequestID).(string)
	return id, ok && id != ""
}
