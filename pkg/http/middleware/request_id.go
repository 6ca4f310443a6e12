package middleware

import (
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"AstroCore/pkg/kafka"
)

// RequestID keeps an incoming X-Request-ID or mints one, echoes it in the
// response and stores it in the request context as the trace id, so events
// published while handling the request carry it.
func RequestID() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			id := req.Header.Get(echo.HeaderXRequestID)
			if id == "" || len(id) > 128 {
				id = uuid.NewString()
			}
			c.Response().Header().Set(echo.HeaderXRequestID, id)
			c.SetRequest(req.WithContext(kafka.WithTraceID(req.Context(), id)))
			return next(c)
		}
	}
}
