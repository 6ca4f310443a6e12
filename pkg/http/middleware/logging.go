package middleware

import (
	"time"

	"github.com/labstack/echo/v4"

	applogger "AstroCore/pkg/logger"
)

// RequestLogging logs every request at debug level, 5xx responses at error
// level and requests slower than slow at warn level.
func RequestLogging(l *applogger.Logger, slow time.Duration) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			if err != nil {
				// resolve the final status before logging
				c.Error(err)
			}

			req := c.Request()
			res := c.Response()
			dur := time.Since(start)
			fields := []applogger.Field{
				applogger.String("method", req.Method),
				applogger.String("route", c.Path()),
				applogger.String("uri", req.RequestURI),
				applogger.Int("status", res.Status),
				applogger.Int64("bytes", res.Size),
				applogger.String("request_id", res.Header().Get(echo.HeaderXRequestID)),
				applogger.Duration("duration_ms", dur),
			}
			switch {
			case res.Status >= 500:
				if err != nil {
					fields = append(fields, applogger.Error(err))
				}
				l.Error("http request failed", fields...)
			case slow > 0 && dur >= slow:
				l.Warn("http request slow", fields...)
			default:
				l.Debug("http request", fields...)
			}
			return err
		}
	}
}
