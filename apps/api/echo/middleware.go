package echoapi

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/trezcool/eden/core"
	"github.com/trezcool/eden/services/metrics"
)

// metricsMiddleware renders errors itself so the recorded status is the one sent.
func metricsMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		start := time.Now()
		if err := next(ctx); err != nil {
			ctx.Error(err)
		}
		route := ctx.Path()
		if route == "" {
			route = "unmatched"
		}
		metrics.ObserveRequest(ctx.Request().Method, route, ctx.Response().Status, time.Since(start))
		return nil
	}
}

func requestLogger(logger core.Logger) echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRemoteIP:  true,
		LogRequestID: true,
		Skipper: func(ctx echo.Context) bool {
			return strings.HasPrefix(ctx.Request().URL.Path, "/metrics")
		},
		LogValuesFunc: func(_ echo.Context, v middleware.RequestLoggerValues) error {
			extras := map[string]interface{}{
				"method":     v.Method,
				"uri":        v.URI,
				"status":     v.Status,
				"latency":    v.Latency.String(),
				"remote_ip":  v.RemoteIP,
				"request_id": v.RequestID,
			}
			msg := http.StatusText(v.Status)
			if v.Status >= http.StatusInternalServerError {
				logger.Warn("request: "+msg, extras)
			} else {
				logger.Debug("request: "+msg, extras)
			}
			return nil
		},
	})
}
