package middleware

import (
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
)

// RequestID assigns a UUID to every request that does not already carry an
// X-Request-ID header and echoes it on the response.
func RequestID() echo.MiddlewareFunc {
	return echomiddleware.RequestIDWithConfig(echomiddleware.RequestIDConfig{
		Generator: uuid.NewString,
	})
}

// RequestLogger writes one structured access-log line per request. Server
// errors log at error level, client errors at warn, everything else at info.
// Errors are handed to the HTTP error handler first so the logged status is
// the one the client saw.
func RequestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogStatus:    true,
		LogMethod:    true,
		LogURIPath:   true,
		LogLatency:   true,
		LogRequestID: true,
		LogRemoteIP:  true,
		LogUserAgent: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			var ev *zerolog.Event
			switch {
			case v.Status >= 500:
				ev = log.Error().Err(v.Error)
			case v.Status >= 400:
				ev = log.Warn()
			default:
				ev = log.Info()
			}
			ev.Str("method", v.Method).
				Str("path", v.URIPath).
				Str("route", c.Path()).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Str("ip", v.RemoteIP).
				Str("user_agent", v.UserAgent).
				Msg("request completed")
			return nil
		},
	})
}
