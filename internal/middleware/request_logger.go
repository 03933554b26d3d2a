package middleware

import (
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/random"
	zlog "github.com/rs/zerolog/log"
)

// RequestIDKey is the echo context key holding the request id
const RequestIDKey = "request_id"

// RequestID reuses an incoming X-Request-ID or generates one, echoes it on
// the response and stores it under RequestIDKey.
func RequestID() echo.MiddlewareFunc {
	return echoMiddleware.RequestIDWithConfig(echoMiddleware.RequestIDConfig{
		Generator: func() string { return random.String(32) },
		RequestIDHandler: func(c echo.Context, id string) {
			c.Set(RequestIDKey, id)
		},
	})
}

// RequestLogger emits one zerolog event per request. Handler errors are
// rendered before logging so the logged status is the one sent.
func RequestLogger() echo.MiddlewareFunc {
	return echoMiddleware.RequestLoggerWithConfig(echoMiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echoMiddleware.RequestLoggerValues) error {
			event := zlog.Info()
			switch {
			case v.Status >= 500:
				event = zlog.Error().Err(v.Error)
			case v.Status >= 400:
				event = zlog.Warn()
			}
			event.
				Str("request_id", v.RequestID).
				Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Msg("request")
			return nil
		},
	})
}
